package internal

import (
	"context"

	"storehub_mcp/internal/cli"
	"storehub_mcp/internal/config"
	"storehub_mcp/internal/llm"
	"storehub_mcp/internal/logging"
	"storehub_mcp/internal/mcpserver"
	"storehub_mcp/internal/metrics"
	"storehub_mcp/internal/storehub"
	"storehub_mcp/internal/tools"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		storehub.Module(),
		tools.Module(),
		mcpserver.Module(),
		metrics.Module(),
		llm.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(ctx)
	}()

	return runner.Execute()
}
