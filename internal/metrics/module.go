package metrics

import (
	"storehub_mcp/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module starts the metrics listener only when METRICS_ADDR is set.
func Module() fx.Option {
	return fx.Module(
		"metrics",
		fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) {
			if cfg.MetricsAddr == "" {
				return
			}
			srv := NewServer(cfg.MetricsAddr, logger)
			lc.Append(fx.Hook{
				OnStart: srv.Start,
				OnStop:  srv.Stop,
			})
		}),
	)
}
