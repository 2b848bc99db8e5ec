package sync

import (
	"context"

	"github.com/smallbiznis/orderlens/internal/config"
	"github.com/smallbiznis/orderlens/internal/queue"
	"github.com/smallbiznis/orderlens/internal/sync/domain"
	"github.com/smallbiznis/orderlens/internal/sync/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sync",
	fx.Provide(domain.NewNotifier),
	fx.Provide(func(cfg config.Config) service.Config {
		return service.Config{
			BatchSize:  cfg.SyncBatchSize,
			Delay:      cfg.SyncDelay,
			MaxRetries: cfg.SyncMaxRetries,
		}
	}),
	fx.Provide(service.New),
	fx.Invoke(RegisterHandlers),
)

// RegisterHandlers binds the queue actions to the sync service before any
// job can be scheduled.
func RegisterHandlers(reg queue.Registrar, svc domain.Service) {
	reg.Register(service.ActionProcessBatch, func(ctx context.Context, args queue.Args) error {
		page, err := queue.IntArg(args, "page")
		if err != nil {
			return err
		}
		return svc.ProcessBatch(ctx, page)
	})
	reg.Register(service.ActionProcessOrder, func(ctx context.Context, args queue.Args) error {
		orderID, err := queue.Int64Arg(args, "order_id")
		if err != nil {
			return err
		}
		attempt, err := queue.IntArg(args, "attempt")
		if err != nil {
			return err
		}
		svc.ProcessOrder(ctx, domain.ProcessOrderRequest{OrderID: orderID, Attempt: attempt})
		return nil
	})
}
