package hub

import (
	"copytrade/internal/modules/config"
	"copytrade/internal/modules/hub/service"

	"go.uber.org/fx"
)

// Module поднимает fan-out хаб для подписчиков.
func Module() fx.Option {
	return fx.Module("hub",
		fx.Provide(
			func(cfg *config.Config) *service.Hub {
				return service.NewHub(cfg.HubWriteTimeout)
			},
		),
	)
}
