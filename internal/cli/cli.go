package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storehub_mcp/internal/config"
	"storehub_mcp/internal/llm"
	"storehub_mcp/internal/mcpserver"
	"storehub_mcp/internal/tools"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"cli",
		fx.Provide(NewRunner),
	)
}

const programName = "storehub-mcp"

type Runner struct {
	options    Options
	llmConfig  config.Config
	logger     *zap.Logger
	llmClient  *llm.Client
	dispatcher toolCaller
	server     *mcpserver.Server

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func NewRunner(cfg config.Config, logger *zap.Logger, llmClient *llm.Client, dispatcher *tools.Dispatcher, server *mcpserver.Server) *Runner {
	return &Runner{
		options: Options{
			LLMBaseURL: cfg.LLMBaseURL,
			LLMAPIKey:  cfg.LLMAPIKey,
			LLMModel:   cfg.LLMModel,
			Timeout:    cfg.Timeout,
		},
		llmConfig:  cfg,
		logger:     logger.Named("cli"),
		llmClient:  llmClient,
		dispatcher: dispatcher,
		server:     server,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

func (r *Runner) Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return r.Run(ctx, os.Args[1:])
}

// Run dispatches a subcommand. With no subcommand the MCP server is started.
func (r *Runner) Run(ctx context.Context, args []string) error {
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return r.serve(ctx, args)
	case "tools":
		return r.listTools(args)
	case "call":
		return r.callTool(ctx, args)
	case "chat":
		return r.chat(ctx, args)
	case "help":
		r.usage()
		return nil
	default:
		r.usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (r *Runner) usage() {
	fmt.Fprintf(r.stderr, `Usage: %s <command> [flags]

Commands:
  serve                    Serve the StoreHub tools over MCP stdio (default)
  tools [-json]            List the available tools
  call <tool> [json|-]     Run one tool; arguments as a JSON object, "-" reads stdin
  chat [flags] [query]     Ask questions through the LLM driver; no query starts a REPL
`, programName)
}

func (r *Runner) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(programName+" "+name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	return fs
}

func (r *Runner) serve(ctx context.Context, args []string) error {
	fs := r.newFlagSet("serve")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}
	if r.server == nil {
		return errors.New("mcp server is not configured")
	}
	return r.server.Serve(ctx, r.stdin, r.stdout)
}

type toolListing struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

func (r *Runner) listTools(args []string) error {
	var asJSON bool
	fs := r.newFlagSet("tools")
	fs.BoolVar(&asJSON, "json", false, "Output JSON with input schemas")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}

	defs := r.dispatcher.Definitions()
	if asJSON {
		listing := make([]toolListing, 0, len(defs))
		for _, def := range defs {
			listing = append(listing, toolListing{Name: def.Name, Description: def.Description, InputSchema: def.Schema})
		}
		enc := json.NewEncoder(r.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	for _, def := range defs {
		fmt.Fprintf(r.stdout, "%s\n    %s\n", def.Name, def.Description)
	}
	return nil
}

func (r *Runner) callTool(ctx context.Context, args []string) error {
	fs := r.newFlagSet("call")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}

	rest := fs.Args()
	if len(rest) == 0 || len(rest) > 2 {
		r.usage()
		return errors.New("call needs a tool name and at most one JSON argument")
	}

	name := rest[0]
	var raw json.RawMessage
	if len(rest) == 2 {
		if rest[1] == "-" {
			data, err := io.ReadAll(r.stdin)
			if err != nil {
				return fmt.Errorf("read arguments: %w", err)
			}
			raw = data
		} else {
			raw = json.RawMessage(rest[1])
		}
	}

	text, err := r.dispatcher.Call(ctx, name, raw)
	if err != nil {
		return fmt.Errorf("%s: %s", name, tools.FormatError(err))
	}
	fmt.Fprintln(r.stdout, strings.TrimRight(text, "\n"))
	return nil
}

func (r *Runner) chat(ctx context.Context, args []string) error {
	opts := r.options
	var timeoutSeconds int

	fs := r.newFlagSet("chat")
	fs.BoolVar(&opts.JSON, "json", false, "Output JSON format")
	fs.IntVar(&timeoutSeconds, "timeout", int(opts.Timeout.Seconds()), "LLM request timeout in seconds")
	fs.StringVar(&opts.LLMBaseURL, "llm-base-url", opts.LLMBaseURL, "LLM base URL (LLM_BASE_URL)")
	fs.StringVar(&opts.LLMAPIKey, "llm-api-key", opts.LLMAPIKey, "LLM API key (LLM_API_KEY)")
	fs.StringVar(&opts.LLMModel, "llm-model", opts.LLMModel, "LLM model (LLM_MODEL)")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}
	if timeoutSeconds > 0 {
		opts.Timeout = time.Duration(timeoutSeconds) * time.Second
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return fmt.Errorf("only one query argument is supported")
	}
	if len(rest) == 1 {
		opts.Query = strings.TrimSpace(rest[0])
	}

	client, err := r.chatClient(opts)
	if err != nil {
		return err
	}

	if opts.Query == "" {
		return r.runREPL(ctx, opts, client)
	}
	return r.handleQuery(ctx, opts, client, opts.Query, false, nil)
}

// chatClient rebuilds the LLM client only when flags override the configured values.
func (r *Runner) chatClient(opts Options) (chatCompleter, error) {
	if !opts.llmChanged(r.options) && r.llmClient != nil {
		return r.llmClient, nil
	}
	cfg := r.llmConfig
	cfg.LLMBaseURL = opts.LLMBaseURL
	cfg.LLMAPIKey = opts.LLMAPIKey
	cfg.LLMModel = opts.LLMModel
	cfg.Timeout = opts.Timeout
	return llm.NewClient(cfg, r.logger)
}

func ignoreHelp(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}
