package mcpserver

import (
	"storehub_mcp/internal/tools"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"mcpserver",
		fx.Provide(func(dispatcher *tools.Dispatcher, logger *zap.Logger) (*Server, error) {
			return New(dispatcher, logger)
		}),
	)
}
