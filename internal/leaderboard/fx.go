package leaderboard

import (
	"github.com/smallbiznis/orderlens/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("leaderboard",
	fx.Provide(NewRegistry),
	fx.Provide(func(cfg config.Config) *Formatter {
		return NewFormatter(cfg.LeaderboardLocale, cfg.Currency)
	}),
	fx.Provide(NewCountriesProvider),
	fx.Invoke(RegisterProviders),
)

// RegisterProviders wires the built-in boards into the registry in their
// dashboard display order.
func RegisterProviders(registry *Registry, countries *CountriesProvider) {
	registry.Register(countries)
}
