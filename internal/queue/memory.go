package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/orderlens/internal/clock"
	"go.uber.org/zap"
)

// Memory is the in-process Scheduler used in monolith mode. Timers fire
// handlers on their own goroutines; a multi-worker deployment would swap
// in an external queue behind the same interface.
type Memory struct {
	log   *zap.Logger
	clock clock.Clock

	mu       sync.Mutex
	handlers map[string]Handler
	timers   map[string]*time.Timer
	closed   bool
	wg       sync.WaitGroup
}

func NewMemory(log *zap.Logger, clk clock.Clock) *Memory {
	return &Memory{
		log:      log.Named("queue.memory"),
		clock:    clk,
		handlers: make(map[string]Handler),
		timers:   make(map[string]*time.Timer),
	}
}

func (m *Memory) Register(action string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[action] = handler
}

func (m *Memory) ScheduleSingle(_ context.Context, at time.Time, action string, args Args) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("queue is closed")
	}
	if _, ok := m.handlers[action]; !ok {
		return errors.New("no handler registered for action " + action)
	}

	jobID := uuid.NewString()
	delay := at.Sub(m.clock.Now())
	if delay < 0 {
		delay = 0
	}

	m.timers[jobID] = time.AfterFunc(delay, func() {
		m.run(jobID, action, args)
	})

	m.log.Debug("job scheduled",
		zap.String("job_id", jobID),
		zap.String("action", action),
		zap.Duration("delay", delay),
	)
	return nil
}

func (m *Memory) run(jobID, action string, args Args) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	delete(m.timers, jobID)
	handler := m.handlers[action]
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	if handler == nil {
		return
	}
	if err := handler(context.Background(), args); err != nil {
		m.log.Warn("job failed",
			zap.String("job_id", jobID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// Close stops pending timers and waits for in-flight handlers.
func (m *Memory) Close() {
	m.mu.Lock()
	m.closed = true
	for id, timer := range m.timers {
		timer.Stop()
		delete(m.timers, id)
	}
	m.mu.Unlock()
	m.wg.Wait()
}
