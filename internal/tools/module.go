package tools

import (
	"storehub_mcp/internal/config"
	"storehub_mcp/internal/storehub"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"tools",
		fx.Provide(func(accessor storehub.Accessor, cfg config.Config, logger *zap.Logger) *Dispatcher {
			return NewDispatcher(accessor, Options{
				StoreID:   cfg.StoreID,
				AccountID: cfg.AccountID,
				APIKey:    cfg.APIKey,
				BaseURL:   cfg.ResolvedBaseURL(),
				RateLimit: cfg.RateLimit,
			}, logger)
		}),
	)
}
