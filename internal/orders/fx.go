package orders

import (
	"github.com/smallbiznis/orderlens/internal/orders/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("orders",
	fx.Provide(repository.Provide),
)
