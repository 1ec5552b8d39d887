package cli

import (
	"strings"
	"testing"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTrimKeepsSystemPrompt(t *testing.T) {
	h := NewSessionHistory(3, 1000, nil)
	h.Reset("system")
	for _, text := range []string{"one", "two", "three", "four"} {
		h.Append(openrouter.UserMessage(text))
	}

	messages := h.GetMessages()
	require.Len(t, messages, 3)
	assert.Equal(t, openrouter.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "three", messages[1].Content.Text)
	assert.Equal(t, "four", messages[2].Content.Text)
}

func TestSessionTrimByTokens(t *testing.T) {
	h := NewSessionHistory(100, 20, nil)
	h.Reset("sys")
	h.Append(openrouter.UserMessage(strings.Repeat("a", 40)))
	h.Append(openrouter.UserMessage(strings.Repeat("b", 40)))

	messages := h.GetMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, openrouter.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, strings.Repeat("b", 40), messages[1].Content.Text)
	assert.Equal(t, 5+14, h.TokenCount())
}

func TestSessionKeepsNewestMessageOverBudget(t *testing.T) {
	h := NewSessionHistory(100, 5, nil)
	h.Reset("sys")
	h.Append(openrouter.UserMessage(strings.Repeat("long ", 20)))

	require.Len(t, h.GetMessages(), 2)
}

func TestEstimateTokensCountsToolCalls(t *testing.T) {
	plain := estimateTokensForMessage(openrouter.UserMessage("12345678"))
	assert.Equal(t, messageTokenCost+2, plain)

	// name "get_stores" (10) + args "{}" (2) = 12 chars -> 3 tokens
	call := estimateTokensForMessage(toolCallMessage("c", "get_stores", "{}"))
	assert.Equal(t, messageTokenCost+toolCallTokenCost+3, call)
}

func TestSessionDropsOrphanToolMessages(t *testing.T) {
	h := NewSessionHistory(3, 1000, nil)
	h.Reset("system")
	h.Append(toolCallMessage("call-1", "get_stores", "{}"))
	h.Append(openrouter.ToolMessage("call-1", "STORES"))
	h.Append(openrouter.UserMessage("next"))

	messages := h.GetMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, openrouter.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "next", messages[1].Content.Text)
}

func TestSessionClearAndReset(t *testing.T) {
	h := NewSessionHistory(0, 0, nil)
	h.Append(openrouter.UserMessage("hi"))
	h.Clear()
	assert.Empty(t, h.GetMessages())

	h.Reset("fresh")
	require.Len(t, h.GetMessages(), 1)
	assert.Equal(t, "fresh", h.GetMessages()[0].Content.Text)
}

func TestMessagePreviewShowsToolCalls(t *testing.T) {
	assert.Equal(t, "calls get_stores", messagePreview(toolCallMessage("c", "get_stores", "{}")))
	assert.Equal(t, "a b", messagePreview(openrouter.UserMessage("  a \n b ")))
}

func TestSessionTokenTrimDropsWholeToolTurn(t *testing.T) {
	h := NewSessionHistory(100, 1000, nil)
	h.Reset("sys")
	h.Append(toolCallMessage("call-1", "get_stores", "{}"))
	h.Append(openrouter.ToolMessage("call-1", "STORES"))
	h.Append(openrouter.UserMessage("next"))

	trimmed := trimOldestNonSystem(h.GetMessages())

	require.Len(t, trimmed, 2)
	assert.Equal(t, openrouter.ChatMessageRoleSystem, trimmed[0].Role)
	assert.Equal(t, "next", trimmed[1].Content.Text)
}
