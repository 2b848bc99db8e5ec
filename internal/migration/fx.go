package migration

import (
	"github.com/smallbiznis/orderlens/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		// The embedded migrations target postgres. Other dialects are used
		// for local experiments and tests, which migrate their own schema.
		if cfg.DBType != "postgres" {
			log.Named("migrations").Info("skipping embedded migrations",
				zap.String("db_type", cfg.DBType),
			)
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)
