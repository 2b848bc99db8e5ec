package customers

import (
	"github.com/smallbiznis/orderlens/internal/customers/repository"
	"github.com/smallbiznis/orderlens/internal/customers/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customers",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
