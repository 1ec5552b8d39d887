package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storehub_mcp/internal/storehub"
	"storehub_mcp/internal/tools"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeChat replays scripted assistant messages and records each request.
type fakeChat struct {
	replies  []openrouter.ChatCompletionMessage
	requests [][]openrouter.ChatCompletionMessage
	tools    int
}

func (f *fakeChat) Enabled() bool { return true }

func (f *fakeChat) ChatWithMessages(_ context.Context, messages []openrouter.ChatCompletionMessage, schemas []openrouter.Tool) (openrouter.ChatCompletionResponse, error) {
	f.requests = append(f.requests, messages)
	f.tools = len(schemas)
	if len(f.replies) == 0 {
		return openrouter.ChatCompletionResponse{}, errors.New("no scripted reply")
	}
	msg := f.replies[0]
	f.replies = f.replies[1:]
	return openrouter.ChatCompletionResponse{Choices: []openrouter.ChatCompletionChoice{{Message: msg}}}, nil
}

func toolCallMessage(id, name, args string) openrouter.ChatCompletionMessage {
	return openrouter.ChatCompletionMessage{
		Role: openrouter.ChatMessageRoleAssistant,
		ToolCalls: []openrouter.ToolCall{{
			ID:       id,
			Type:     openrouter.ToolTypeFunction,
			Function: openrouter.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func textMessage(text string) openrouter.ChatCompletionMessage {
	return openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleAssistant,
		Content: openrouter.Content{Text: text},
	}
}

func newMockDispatcher() *tools.Dispatcher {
	return tools.NewDispatcher(storehub.NewMockClient(nil), tools.Options{}, nil)
}

func TestAgentRunsToolsAndAnswers(t *testing.T) {
	chat := &fakeChat{replies: []openrouter.ChatCompletionMessage{
		toolCallMessage("call-1", tools.GetStores, "{}"),
		textMessage("You have one store."),
	}}

	resp, err := runLLMAgent(context.Background(), zap.NewNop(), chat, newMockDispatcher(), "how many stores?", false, nil)

	require.NoError(t, err)
	assert.Equal(t, "You have one store.", resp.AnswerText)
	require.Len(t, resp.ToolCalls, 1)
	assert.True(t, resp.ToolCalls[0].OK)
	assert.Equal(t, 15, chat.tools)

	require.Len(t, chat.requests, 2)
	second := chat.requests[1]
	last := second[len(second)-1]
	assert.Equal(t, openrouter.ChatMessageRoleTool, last.Role)
	assert.Contains(t, last.Content.Text, "STORES")
}

func TestAgentFeedsToolErrorsBack(t *testing.T) {
	chat := &fakeChat{replies: []openrouter.ChatCompletionMessage{
		toolCallMessage("call-1", tools.GetSalesAnalytics, `{"from_date":"2024-01-01","to_date":"2024-12-31"}`),
		textMessage("That range is too long."),
	}}

	resp, err := runLLMAgent(context.Background(), zap.NewNop(), chat, newMockDispatcher(), "sales this year", false, nil)

	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.False(t, resp.ToolCalls[0].OK)
	assert.Contains(t, resp.ToolCalls[0].Err, "Invalid arguments")

	second := chat.requests[1]
	toolMsg := second[len(second)-1]
	assert.True(t, strings.HasPrefix(toolMsg.Content.Text, `{"error":`))
}

func TestAgentStopsAtStepLimit(t *testing.T) {
	chat := &fakeChat{}
	for i := 0; i < maxToolRounds; i++ {
		chat.replies = append(chat.replies, toolCallMessage("call", tools.GetStores, ""))
	}

	resp, err := runLLMAgent(context.Background(), zap.NewNop(), chat, newMockDispatcher(), "loop", false, nil)

	require.NoError(t, err)
	assert.Len(t, resp.ToolCalls, maxToolRounds)
	assert.NotEmpty(t, resp.NextStep)
	assert.Len(t, chat.requests, maxToolRounds)
}

func TestAgentKeepsHistoryAcrossTurns(t *testing.T) {
	history := NewSessionHistory(0, 0, nil)
	chat := &fakeChat{replies: []openrouter.ChatCompletionMessage{
		textMessage("Hello."),
		textMessage("Still here."),
	}}
	dispatcher := newMockDispatcher()

	_, err := runLLMAgent(context.Background(), zap.NewNop(), chat, dispatcher, "hi", true, history)
	require.NoError(t, err)
	_, err = runLLMAgent(context.Background(), zap.NewNop(), chat, dispatcher, "again", true, history)
	require.NoError(t, err)

	messages := history.GetMessages()
	require.Len(t, messages, 5)
	assert.Equal(t, openrouter.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "again", messages[3].Content.Text)
}

func TestAgentChatError(t *testing.T) {
	chat := &fakeChat{}

	_, err := runLLMAgent(context.Background(), zap.NewNop(), chat, newMockDispatcher(), "hi", false, nil)

	assert.Error(t, err)
}
