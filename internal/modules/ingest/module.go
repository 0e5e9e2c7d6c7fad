package ingest

import (
	"copytrade/internal/modules/ingest/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("ingest",
		fx.Provide(
			service.NewIngestor,
		),
	)
}
