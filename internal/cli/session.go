package cli

import (
	"unicode/utf8"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"
)

const (
	defaultHistoryMaxMessages = 40
	defaultHistoryMaxTokens   = 24000

	// Token estimate: characters over four, plus a fixed cost per message and per tool call.
	charsPerToken     = 4
	messageTokenCost  = 4
	toolCallTokenCost = 8
)

// SessionHistory is the chat transcript sent with every completion. It keeps
// the system prompt and the newest message, and drops the oldest turns once a
// bound is crossed. A tool call leaves together with its results.
type SessionHistory struct {
	messages    []openrouter.ChatCompletionMessage
	maxMessages int
	maxTokens   int
	logger      *zap.Logger
}

func NewSessionHistory(maxMessages, maxTokens int, logger *zap.Logger) *SessionHistory {
	if maxMessages <= 0 {
		maxMessages = defaultHistoryMaxMessages
	}
	if maxTokens <= 0 {
		maxTokens = defaultHistoryMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHistory{maxMessages: maxMessages, maxTokens: maxTokens, logger: logger}
}

func (h *SessionHistory) Append(message openrouter.ChatCompletionMessage) {
	h.messages = append(h.messages, message)
	h.enforceLimits()
}

func (h *SessionHistory) GetMessages() []openrouter.ChatCompletionMessage {
	if len(h.messages) == 0 {
		return nil
	}
	return append([]openrouter.ChatCompletionMessage(nil), h.messages...)
}

func (h *SessionHistory) Clear() {
	h.messages = nil
}

// Reset clears the history and seeds it with a fresh system prompt.
func (h *SessionHistory) Reset(systemPrompt string) {
	h.messages = []openrouter.ChatCompletionMessage{openrouter.SystemMessage(systemPrompt)}
}

func (h *SessionHistory) TokenCount() int {
	return estimateTokens(h.messages)
}

func (h *SessionHistory) enforceLimits() {
	before := len(h.messages)
	for len(h.messages) > h.maxMessages || (estimateTokens(h.messages) > h.maxTokens && len(h.messages) > h.head()+1) {
		trimmed := trimOldestNonSystem(h.messages)
		if len(trimmed) == len(h.messages) {
			break
		}
		h.messages = trimmed
	}
	if len(h.messages) == before {
		return
	}
	h.messages = dropOrphanToolMessages(h.messages)
	h.logger.Info("session history trimmed",
		zap.Int("dropped", before-len(h.messages)),
		zap.Int("messages", len(h.messages)),
		zap.Int("tokens", estimateTokens(h.messages)),
	)
}

// head is the number of leading messages that are never trimmed.
func (h *SessionHistory) head() int {
	if len(h.messages) > 0 && h.messages[0].Role == openrouter.ChatMessageRoleSystem {
		return 1
	}
	return 0
}

// trimOldestNonSystem drops the oldest message after the system prompt. An
// assistant tool call leaves together with its tool results.
func trimOldestNonSystem(messages []openrouter.ChatCompletionMessage) []openrouter.ChatCompletionMessage {
	start := 0
	if len(messages) > 0 && messages[0].Role == openrouter.ChatMessageRoleSystem {
		start = 1
	}
	if len(messages) <= start {
		return messages
	}
	end := start + 1
	if len(messages[start].ToolCalls) > 0 {
		for end < len(messages) && messages[end].Role == openrouter.ChatMessageRoleTool {
			end++
		}
	}
	return append(messages[:start], messages[end:]...)
}

// dropOrphanToolMessages removes tool results left at the front of the
// transcript; the chat API rejects a tool message without its preceding call.
func dropOrphanToolMessages(messages []openrouter.ChatCompletionMessage) []openrouter.ChatCompletionMessage {
	start := 0
	if len(messages) > 0 && messages[0].Role == openrouter.ChatMessageRoleSystem {
		start = 1
	}
	end := start
	for end < len(messages) && messages[end].Role == openrouter.ChatMessageRoleTool {
		end++
	}
	if end == start {
		return messages
	}
	return append(messages[:start], messages[end:]...)
}

func estimateTokens(messages []openrouter.ChatCompletionMessage) int {
	total := 0
	for _, msg := range messages {
		total += estimateTokensForMessage(msg)
	}
	return total
}

func estimateTokensForMessage(message openrouter.ChatCompletionMessage) int {
	chars := utf8.RuneCountInString(message.Content.Text)
	if message.Content.Text == "" {
		for _, part := range message.Content.Multi {
			chars += utf8.RuneCountInString(part.Text)
		}
	}
	total := messageTokenCost + ceilDiv(chars, charsPerToken)
	for _, call := range message.ToolCalls {
		total += toolCallTokenCost + ceilDiv(len(call.Function.Name)+utf8.RuneCountInString(call.Function.Arguments), charsPerToken)
	}
	return total
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
