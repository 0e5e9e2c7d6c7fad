package recent

import (
	"copytrade/internal/modules/config"
	"copytrade/internal/modules/recent/service"

	"go.uber.org/fx"
)

// Module поднимает буфер последних событий с ёмкостью из конфига.
func Module() fx.Option {
	return fx.Module("recent",
		fx.Provide(
			func(cfg *config.Config) *service.Buffer {
				return service.NewBuffer(cfg.BufferCapacity)
			},
		),
	)
}
