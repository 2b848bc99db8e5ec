package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallbiznis/orderlens/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMemory() *Memory {
	return NewMemory(zap.NewNop(), clock.NewSystemClock())
}

func TestScheduleSingleRunsHandler(t *testing.T) {
	m := newTestMemory()
	defer m.Close()

	done := make(chan Args, 1)
	m.Register("greet", func(_ context.Context, args Args) error {
		done <- args
		return nil
	})

	err := m.ScheduleSingle(context.Background(), time.Now(), "greet", Args{"page": 3})
	require.NoError(t, err)

	select {
	case args := <-done:
		page, err := IntArg(args, "page")
		require.NoError(t, err)
		assert.Equal(t, 3, page)
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestScheduleSingleUnknownActionFails(t *testing.T) {
	m := newTestMemory()
	defer m.Close()

	err := m.ScheduleSingle(context.Background(), time.Now(), "unknown", nil)
	assert.Error(t, err)
}

func TestScheduleSingleAfterCloseFails(t *testing.T) {
	m := newTestMemory()
	m.Register("noop", func(context.Context, Args) error { return nil })
	m.Close()

	err := m.ScheduleSingle(context.Background(), time.Now(), "noop", nil)
	assert.Error(t, err)
}

func TestClosePreventsPendingJobs(t *testing.T) {
	m := newTestMemory()

	var ran atomic.Bool
	m.Register("later", func(context.Context, Args) error {
		ran.Store(true)
		return nil
	})

	err := m.ScheduleSingle(context.Background(), time.Now().Add(time.Hour), "later", nil)
	require.NoError(t, err)
	m.Close()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestArgHelpersAcceptJSONNumbers(t *testing.T) {
	args := Args{"page": float64(4), "order_id": float64(99), "attempt": int64(2)}

	page, err := IntArg(args, "page")
	require.NoError(t, err)
	assert.Equal(t, 4, page)

	orderID, err := Int64Arg(args, "order_id")
	require.NoError(t, err)
	assert.Equal(t, int64(99), orderID)

	attempt, err := IntArg(args, "attempt")
	require.NoError(t, err)
	assert.Equal(t, 2, attempt)

	_, err = IntArg(args, "missing")
	assert.Error(t, err)

	_, err = Int64Arg(Args{"order_id": "nope"}, "order_id")
	assert.Error(t, err)
}
