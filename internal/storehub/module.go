package storehub

import (
	"storehub_mcp/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"storehub",
		fx.Provide(NewAccessor),
	)
}

// NewAccessor picks the mock dataset or the live API from the configuration.
func NewAccessor(cfg config.Config, logger *zap.Logger) (Accessor, error) {
	if cfg.MockMode {
		logger.Info("storehub mock mode enabled")
		return NewMockClient(logger), nil
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	gateway := NewGateway(GatewayConfig{
		BaseURL:       cfg.ResolvedBaseURL(),
		AccountID:     cfg.AccountID,
		APIKey:        cfg.APIKey,
		Timeout:       cfg.Timeout,
		RatePerSecond: cfg.RateLimit,
	}, logger)

	logger.Info("storehub client configured",
		zap.String("base_url", cfg.ResolvedBaseURL()),
		zap.Bool("store_id_set", cfg.StoreID != ""),
		zap.Float64("rate_limit", cfg.RateLimit),
	)

	return NewClient(gateway, ClientConfig{StoreID: cfg.StoreID, AccountID: cfg.AccountID}, logger), nil
}
