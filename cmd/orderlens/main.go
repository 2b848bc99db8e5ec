package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/orderlens/internal/cache"
	"github.com/smallbiznis/orderlens/internal/clock"
	"github.com/smallbiznis/orderlens/internal/config"
	"github.com/smallbiznis/orderlens/internal/customers"
	"github.com/smallbiznis/orderlens/internal/leaderboard"
	"github.com/smallbiznis/orderlens/internal/lookup"
	"github.com/smallbiznis/orderlens/internal/migration"
	"github.com/smallbiznis/orderlens/internal/observability"
	"github.com/smallbiznis/orderlens/internal/observability/metrics"
	"github.com/smallbiznis/orderlens/internal/orders"
	"github.com/smallbiznis/orderlens/internal/queue"
	"github.com/smallbiznis/orderlens/internal/reports"
	"github.com/smallbiznis/orderlens/internal/seed"
	ordersync "github.com/smallbiznis/orderlens/internal/sync"
	syncdomain "github.com/smallbiznis/orderlens/internal/sync/domain"
	"github.com/smallbiznis/orderlens/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		queue.Module,
		migration.Module,

		// Functional domains
		orders.Module,
		customers.Module,
		lookup.Module,
		ordersync.Module,
		reports.Module,
		leaderboard.Module,

		fx.Invoke(ServeMetrics),
		fx.Invoke(SeedDemoData),
		fx.Invoke(InstallOnStart),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// SeedDemoData loads the deterministic development fixtures when enabled.
func SeedDemoData(cfg config.Config, gdb *gorm.DB, log *zap.Logger) error {
	if !cfg.SeedDemoData {
		return nil
	}
	if err := seed.EnsureDemoData(gdb); err != nil {
		return err
	}
	log.Info("demo data seeded")
	return nil
}

// InstallOnStart creates the lookup table and kicks off the initial full
// scan once the app is up. Both are idempotent across restarts.
func InstallOnStart(lc fx.Lifecycle, svc syncdomain.Service, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := svc.Install(ctx); err != nil {
				log.Error("install failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}

// ServeMetrics exposes the prometheus collectors on a dedicated listener.
func ServeMetrics(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics listener failed", zap.Error(err))
				}
			}()
			log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return nil
}
