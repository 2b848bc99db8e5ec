package cache

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/orderlens/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(func(cfg config.Config, log *zap.Logger) Store {
		if cfg.RedisAddr == "" {
			return NewMemory(defaultMemorySize, cfg.ReportCacheTTL)
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Named("cache").Info("using redis result cache",
			zap.String("addr", cfg.RedisAddr),
		)
		return NewRedis(client, cfg.ReportCacheTTL)
	}),
)
