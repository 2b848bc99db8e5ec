package reports

import (
	"github.com/smallbiznis/orderlens/internal/config"
	"github.com/smallbiznis/orderlens/internal/reports/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reports",
	fx.Provide(func(cfg config.Config) service.Config {
		return service.Config{DefaultPerPage: cfg.DefaultPerPage}
	}),
	fx.Provide(service.New),
)
