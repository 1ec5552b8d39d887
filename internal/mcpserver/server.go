package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storehub_mcp/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	Name    = "storehub-mcp"
	Version = "0.1.0"
)

// Caller is the part of the tool dispatcher the MCP surface needs.
type Caller interface {
	Definitions() []tools.Definition
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

func New(caller Caller, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mcp")

	s := server.NewMCPServer(Name, Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, def := range caller.Definitions() {
		schema, err := json.Marshal(def.Schema)
		if err != nil {
			return nil, fmt.Errorf("encode schema for %s: %w", def.Name, err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(def.Name, def.Description, schema), handler(caller, def.Name))
	}

	logger.Info("mcp tools registered", zap.Int("count", len(caller.Definitions())))
	return &Server{mcp: s, logger: logger}, nil
}

// handler never returns a protocol error; failures become error results the agent can read.
func handler(caller Caller, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetRawArguments())
		if err != nil {
			return mcp.NewToolResultError(tools.FormatError(err)), nil
		}

		text, err := caller.Call(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(tools.FormatError(err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// Serve speaks MCP over the given streams until ctx is cancelled or stdin closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	s.logger.Info("mcp server listening on stdio")
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

// HandleMessage processes one JSON-RPC message; used by tests and in-process hosts.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, message)
}
