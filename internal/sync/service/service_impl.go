package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orderlens/internal/clock"
	customersdomain "github.com/smallbiznis/orderlens/internal/customers/domain"
	lookupdomain "github.com/smallbiznis/orderlens/internal/lookup/domain"
	obsmetrics "github.com/smallbiznis/orderlens/internal/observability/metrics"
	ordersdomain "github.com/smallbiznis/orderlens/internal/orders/domain"
	"github.com/smallbiznis/orderlens/internal/queue"
	"github.com/smallbiznis/orderlens/internal/sync/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Queue actions consumed by the sync pipeline. ActionProcessBatch is
// parameterized by page number; ActionProcessOrder by order id and attempt.
const (
	ActionProcessBatch = "orders.sync.batch"
	ActionProcessOrder = "orders.sync.order"
)

var ErrInvalidConfig = errors.New("sync service is missing required dependencies")

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Queue     queue.Scheduler
	Orders    ordersdomain.Repository
	Customers customersdomain.Resolver
	Lookup    lookupdomain.Repository
	Notifier  *domain.Notifier
	Config    Config `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	cfg       Config
	genID     *snowflake.Node
	clock     clock.Clock
	queue     queue.Scheduler
	orders    ordersdomain.Repository
	customers customersdomain.Resolver
	lookup    lookupdomain.Repository
	notifier  *domain.Notifier
}

func New(p Params) (domain.Service, error) {
	if p.DB == nil || p.Log == nil || p.GenID == nil || p.Clock == nil || p.Queue == nil || p.Orders == nil || p.Customers == nil || p.Lookup == nil || p.Notifier == nil {
		return nil, ErrInvalidConfig
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("sync.service"),
		cfg:       p.Config.withDefaults(),
		genID:     p.GenID,
		clock:     p.Clock,
		queue:     p.Queue,
		orders:    p.Orders,
		customers: p.Customers,
		lookup:    p.Lookup,
		notifier:  p.Notifier,
	}, nil
}

func (s *Service) Install(ctx context.Context) error {
	if err := s.lookup.CreateTable(ctx, s.db); err != nil {
		return fmt.Errorf("create lookup table: %w", err)
	}
	return s.InitializeFullScan(ctx)
}

func (s *Service) Uninstall(ctx context.Context) error {
	if err := s.lookup.DropTable(ctx, s.db); err != nil {
		return fmt.Errorf("drop lookup table: %w", err)
	}
	return nil
}

// InitializeFullScan splits the full order set into fixed-size page jobs
// and enqueues all of them at once, each a short fixed delay out. Pages may
// run concurrently or out of order; upsert idempotency makes that safe.
func (s *Service) InitializeFullScan(ctx context.Context) error {
	runID := s.genID.Generate().String()
	log := s.log.With(zap.String("run_id", runID))

	total, err := s.orders.Count(ctx, s.db)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if total == 0 {
		log.Info("full scan skipped, no orders")
		return nil
	}

	batchSize := int64(s.cfg.BatchSize)
	pages := int((total + batchSize - 1) / batchSize)
	at := s.clock.Now().Add(s.cfg.Delay)

	var scanErr error
	queued := 0
	for page := 1; page <= pages; page++ {
		err := s.queue.ScheduleSingle(ctx, at, ActionProcessBatch, queue.Args{"page": page})
		if err != nil {
			scanErr = errors.Join(scanErr, fmt.Errorf("enqueue page %d: %w", page, err))
			continue
		}
		queued++
	}

	obsmetrics.Sync().AddBatchesQueued(queued)
	log.Info("full scan queued",
		zap.Int64("order_count", total),
		zap.Int("pages", pages),
		zap.Int("queued", queued),
		zap.Duration("delay", s.cfg.Delay),
	)
	return scanErr
}

func (s *Service) ProcessBatch(ctx context.Context, page int) error {
	ids, err := s.orders.ListIDs(ctx, s.db, page, s.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("list order ids for page %d: %w", page, err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.ProcessOrder(ctx, domain.ProcessOrderRequest{OrderID: id})
	}

	s.log.Debug("batch processed",
		zap.Int("page", page),
		zap.Int("order_count", len(ids)),
	)
	return nil
}

// ProcessOrder recomputes the lookup row for one order and upserts it. A
// failed upsert schedules exactly one retry with exponential backoff until
// the retry budget is spent, after which the order is reported dead.
func (s *Service) ProcessOrder(ctx context.Context, req domain.ProcessOrderRequest) domain.Result {
	result := s.syncOrder(ctx, req.OrderID)
	metrics := obsmetrics.Sync()
	metrics.IncProcessed(string(result.Outcome))

	switch result.Outcome {
	case domain.OutcomeSynced:
		s.notifier.Emit(domain.Event{OrderID: req.OrderID, Outcome: domain.OutcomeSynced})
	case domain.OutcomeFailed:
		return s.retryOrDie(ctx, req, result)
	}
	return result
}

func (s *Service) retryOrDie(ctx context.Context, req domain.ProcessOrderRequest, result domain.Result) domain.Result {
	metrics := obsmetrics.Sync()

	if req.Attempt >= s.cfg.MaxRetries {
		metrics.IncDead()
		s.log.Warn("order sync dead, retry budget spent",
			zap.Int64("order_id", req.OrderID),
			zap.Int("attempts", req.Attempt),
			zap.Error(result.Err),
		)
		dead := domain.Dead(result.Err)
		s.notifier.Emit(domain.Event{OrderID: req.OrderID, Outcome: domain.OutcomeDead, Err: result.Err})
		return dead
	}

	delay := s.cfg.Delay << uint(req.Attempt)
	at := s.clock.Now().Add(delay)
	err := s.queue.ScheduleSingle(ctx, at, ActionProcessOrder, queue.Args{
		"order_id": req.OrderID,
		"attempt":  req.Attempt + 1,
	})
	if err != nil {
		s.log.Error("failed to enqueue retry",
			zap.Int64("order_id", req.OrderID),
			zap.Error(err),
		)
		return result
	}

	metrics.IncRetryQueued()
	s.log.Info("order sync retry queued",
		zap.Int64("order_id", req.OrderID),
		zap.Int("attempt", req.Attempt+1),
		zap.Duration("delay", delay),
		zap.Error(result.Err),
	)
	return result
}

func (s *Service) syncOrder(ctx context.Context, orderID int64) domain.Result {
	order, err := s.orders.FindByID(ctx, s.db, orderID)
	if err != nil || order == nil {
		// Unloadable records are a skip, not a failure.
		return domain.Skipped()
	}
	if order.RecordType != ordersdomain.RecordTypeOrder || order.DateCreated.IsZero() {
		return domain.Skipped()
	}

	refunds, err := s.orders.ListRefunds(ctx, s.db, orderID)
	if err != nil {
		return domain.Failed(fmt.Errorf("list refunds: %w", err))
	}

	customerID, err := s.customers.GetOrCreateFromOrder(ctx, order)
	if err != nil {
		return domain.Failed(fmt.Errorf("resolve customer: %w", err))
	}

	row := lookupdomain.OrderCountry{
		OrderID:      order.ID,
		DateCreated:  order.DateCreated,
		NetTotal:     netTotal(order, refunds),
		Status:       lookupdomain.NormalizeStatus(order.Status),
		CustomerID:   customerID,
		OrderCountry: order.BillingCountry,
	}

	affected, err := s.lookup.Replace(ctx, s.db, &row)
	if err != nil {
		return domain.Failed(fmt.Errorf("replace lookup row: %w", err))
	}
	// Replace-on-conflict reports 2 rows when an existing key was overwritten.
	if affected != 1 && affected != 2 {
		return domain.Failed(fmt.Errorf("unexpected affected row count %d", affected))
	}

	return domain.Synced()
}

// netTotal is the order revenue without shipping or tax, adjusted by each
// linked refund (itself tax- and shipping-netted), floored at 0.
func netTotal(order *ordersdomain.Order, refunds []ordersdomain.Refund) float64 {
	total := order.Total - order.TotalTax - order.ShippingTotal
	for _, refund := range refunds {
		total += refund.Total - refund.TotalTax - refund.ShippingTotal
	}
	if total < 0 {
		return 0
	}
	return total
}
