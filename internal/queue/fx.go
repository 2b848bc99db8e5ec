package queue

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("queue",
	fx.Provide(NewMemory),
	fx.Provide(func(m *Memory) Scheduler { return m }),
	fx.Provide(func(m *Memory) Registrar { return m }),
	fx.Invoke(func(lc fx.Lifecycle, m *Memory) {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				m.Close()
				return nil
			},
		})
	}),
)
