package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storehub_mcp/internal/llm"
	"storehub_mcp/internal/tools"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"
)

const maxToolRounds = 4

type chatCompleter interface {
	Enabled() bool
	ChatWithMessages(ctx context.Context, messages []openrouter.ChatCompletionMessage, tools []openrouter.Tool) (openrouter.ChatCompletionResponse, error)
}

type toolCaller interface {
	Definitions() []tools.Definition
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// runLLMAgent lets the model call tools until it answers in text or runs out of rounds.
// Tool failures are fed back to the model as error payloads rather than ending the turn.
func runLLMAgent(ctx context.Context, logger *zap.Logger, chat chatCompleter, caller toolCaller, query string, interactive bool, history *SessionHistory) (response, error) {
	if chat == nil || !chat.Enabled() {
		return response{}, llm.ErrNotConfigured
	}
	if history == nil {
		history = NewSessionHistory(0, 0, logger)
	}
	if len(history.GetMessages()) == 0 {
		history.Append(openrouter.SystemMessage(llm.SystemPromptWithContext(interactive)))
	}
	history.Append(openrouter.UserMessage(query))

	schemas := llm.ToolSchemas(caller.Definitions())
	var toolCalls []toolCallRecord

	for round := 0; round < maxToolRounds; round++ {
		resp, err := chat.ChatWithMessages(ctx, history.GetMessages(), schemas)
		if err != nil {
			return response{}, err
		}
		logLLMUsage(logger, resp)
		if len(resp.Choices) == 0 {
			return response{}, fmt.Errorf("llm returned empty response")
		}

		msg := resp.Choices[0].Message
		logger.Debug("llm response",
			zap.Int("round", round),
			zap.Int("content_chars", len(msg.Content.Text)),
			zap.Int("tool_calls", len(msg.ToolCalls)),
		)
		history.Append(msg)

		if len(msg.ToolCalls) == 0 {
			return response{
				Query:      query,
				AnswerText: strings.TrimSpace(msg.Content.Text),
				ToolCalls:  toolCalls,
			}, nil
		}

		toolMsgs, records := executeToolCalls(ctx, logger, caller, msg.ToolCalls)
		toolCalls = append(toolCalls, records...)
		for _, toolMsg := range toolMsgs {
			history.Append(toolMsg)
		}
	}

	return response{
		Query:      query,
		AnswerText: "Could not finish the request within the tool step limit.",
		ToolCalls:  toolCalls,
		NextStep:   "Narrow the question, for example to one store or a shorter period.",
	}, nil
}

func executeToolCalls(ctx context.Context, logger *zap.Logger, caller toolCaller, calls []llm.ToolCall) ([]openrouter.ChatCompletionMessage, []toolCallRecord) {
	toolMessages := make([]openrouter.ChatCompletionMessage, 0, len(calls))
	records := make([]toolCallRecord, 0, len(calls))

	for _, call := range calls {
		name := call.Function.Name
		args := call.Function.Arguments
		text, record, err := trackCall(name, args, func() (string, error) {
			return caller.Call(ctx, name, json.RawMessage(args))
		}, tools.FormatError)
		records = append(records, record)
		logToolRecord(logger, record)

		if err != nil {
			toolMessages = append(toolMessages, openrouter.ToolMessage(call.ID, toolErrorPayload(record.Err)))
			continue
		}
		toolMessages = append(toolMessages, openrouter.ToolMessage(call.ID, text))
	}

	return toolMessages, records
}

func toolErrorPayload(message string) string {
	encoded, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, message)
	}
	return string(encoded)
}

func logToolRecord(logger *zap.Logger, record toolCallRecord) {
	logger.Debug("agent tool call",
		zap.String("name", record.Name),
		zap.Int64("ms", record.MS),
		zap.Bool("ok", record.OK),
		zap.String("err", record.Err),
	)
}

func logLLMUsage(logger *zap.Logger, resp openrouter.ChatCompletionResponse) {
	if resp.Usage == nil {
		return
	}
	logger.Info("llm usage",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Float64("cost", resp.Usage.Cost),
	)
}
