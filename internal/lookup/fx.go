package lookup

import (
	"github.com/smallbiznis/orderlens/internal/lookup/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("lookup",
	fx.Provide(repository.Provide),
)
