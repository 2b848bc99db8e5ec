package domain

import "context"

// Outcome classifies one sync attempt. Skips count as success and are
// never retried; Dead is the terminal state after the retry budget is spent.
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeSynced  Outcome = "synced"
	OutcomeFailed  Outcome = "failed"
	OutcomeDead    Outcome = "dead"
)

// Result is the explicit tri-state outcome of processing one order.
type Result struct {
	Outcome Outcome
	Err     error
}

func Skipped() Result         { return Result{Outcome: OutcomeSkipped} }
func Synced() Result          { return Result{Outcome: OutcomeSynced} }
func Failed(err error) Result { return Result{Outcome: OutcomeFailed, Err: err} }
func Dead(err error) Result   { return Result{Outcome: OutcomeDead, Err: err} }

func (r Result) Success() bool {
	return r.Outcome == OutcomeSkipped || r.Outcome == OutcomeSynced
}

type ProcessOrderRequest struct {
	OrderID int64
	// Attempt is 0 for the initial sync and increments on every retry.
	Attempt int
}

type Service interface {
	// Install creates the lookup table and triggers the one-time full scan.
	Install(ctx context.Context) error
	// Uninstall drops the lookup table. Irrecoverable.
	Uninstall(ctx context.Context) error
	// InitializeFullScan enqueues one page job per batch of orders.
	InitializeFullScan(ctx context.Context) error
	// ProcessBatch syncs one fixed-size page of orders sequentially.
	ProcessBatch(ctx context.Context, page int) error
	// ProcessOrder syncs a single order and schedules a retry on failure.
	ProcessOrder(ctx context.Context, req ProcessOrderRequest) Result
}
