package queue

import (
	"context"
	"sync"
	"time"
)

// FakeJob records one scheduled job for assertions.
type FakeJob struct {
	At     time.Time
	Action string
	Args   Args
}

// Fake captures scheduled jobs without executing them.
type Fake struct {
	mu   sync.Mutex
	jobs []FakeJob
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) ScheduleSingle(_ context.Context, at time.Time, action string, args Args) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, FakeJob{At: at, Action: action, Args: args})
	return nil
}

func (f *Fake) Jobs() []FakeJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeJob, len(f.jobs))
	copy(out, f.jobs)
	return out
}

func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = nil
}
