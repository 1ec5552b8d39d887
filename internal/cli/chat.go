package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"storehub_mcp/internal/llm"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"
)

func (r *Runner) runREPL(ctx context.Context, opts Options, client chatCompleter) error {
	reader := bufio.NewScanner(r.stdin)
	reader.Buffer(make([]byte, 64*1024), 1024*1024)
	history := NewSessionHistory(defaultHistoryMaxMessages, defaultHistoryMaxTokens, r.logger)
	history.Reset(llm.SystemPromptWithContext(true))
	fmt.Fprintln(r.stdout, "StoreHub assistant (type 'exit' to quit, /clear to reset, /history to inspect)")

	for {
		fmt.Fprint(r.stdout, "> ")
		if !reader.Scan() {
			return reader.Err()
		}

		line := strings.TrimSpace(reader.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "/clear":
			history.Reset(llm.SystemPromptWithContext(true))
			fmt.Fprintln(r.stdout, "History cleared.")
			continue
		case "/history":
			r.printHistory(history)
			continue
		case "exit", "quit":
			return nil
		}

		if err := r.handleQuery(ctx, opts, client, line, true, history); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(r.stderr, "error: %v\n", err)
		}
	}
}

func (r *Runner) printHistory(history *SessionHistory) {
	messages := history.GetMessages()
	if len(messages) == 0 {
		fmt.Fprintln(r.stdout, "History is empty.")
		return
	}
	fmt.Fprintf(r.stdout, "History (%d messages, ~%d tokens):\n", len(messages), history.TokenCount())
	for i, msg := range messages {
		text := messagePreview(msg)
		if text == "" {
			text = "(empty)"
		}
		fmt.Fprintf(r.stdout, "%d) %s: %s\n", i+1, msg.Role, text)
	}
}

func messagePreview(msg openrouter.ChatCompletionMessage) string {
	text := strings.TrimSpace(msg.Content.Text)
	if text == "" && len(msg.Content.Multi) > 0 {
		for _, part := range msg.Content.Multi {
			if strings.TrimSpace(part.Text) != "" {
				text = strings.TrimSpace(part.Text)
				break
			}
		}
	}
	if text == "" && len(msg.ToolCalls) > 0 {
		names := make([]string, 0, len(msg.ToolCalls))
		for _, call := range msg.ToolCalls {
			names = append(names, call.Function.Name)
		}
		text = "calls " + strings.Join(names, ", ")
	}
	return preview(text, 120)
}

func (r *Runner) handleQuery(ctx context.Context, opts Options, client chatCompleter, query string, interactive bool, history *SessionHistory) error {
	r.logger.Info("query received",
		zap.Int("query_chars", len(query)),
		zap.Bool("interactive", interactive),
		zap.Bool("json", opts.JSON),
	)

	resp, err := runLLMAgent(ctx, r.logger, client, r.dispatcher, query, interactive, history)
	if err != nil {
		return err
	}
	logResponse(r.logger, resp)
	return writeResponse(r.stdout, opts, resp)
}
