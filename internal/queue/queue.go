package queue

import (
	"context"
	"fmt"
	"time"
)

// Args carries job parameters. Values survive JSON round-trips in external
// queue backends, so readers must accept both int and float64 numbers.
type Args map[string]any

// Handler processes one dequeued job.
type Handler func(ctx context.Context, args Args) error

// Scheduler is the deferred-job capability the sync pipeline consumes.
// Jobs are fire-and-forget: there is no persisted status record, and
// success is inferred from the absence of a retry re-enqueue.
type Scheduler interface {
	ScheduleSingle(ctx context.Context, at time.Time, action string, args Args) error
}

// Registrar binds actions to handlers before jobs are scheduled.
type Registrar interface {
	Register(action string, handler Handler)
}

func IntArg(args Args, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing job argument %q", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("job argument %q has unexpected type %T", key, raw)
	}
}

func Int64Arg(args Args, key string) (int64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing job argument %q", key)
	}
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("job argument %q has unexpected type %T", key, raw)
	}
}
