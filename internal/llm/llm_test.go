package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"storehub_mcp/internal/config"
	"storehub_mcp/internal/storehub"
	"storehub_mcp/internal/tools"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDisabledWithoutCredentials(t *testing.T) {
	c, err := NewClient(config.Config{LLMModel: "some/model"}, nil)
	require.NoError(t, err)

	assert.False(t, c.Enabled())
	_, err = c.ChatWithMessages(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientEnabled(t *testing.T) {
	c, err := NewClient(config.Config{LLMModel: "some/model", LLMAPIKey: "key", Timeout: time.Second}, nil)
	require.NoError(t, err)

	assert.True(t, c.Enabled())
	assert.Equal(t, "some/model", c.Model())
}

func TestNilClientIsDisabled(t *testing.T) {
	var c *Client
	assert.False(t, c.Enabled())
	assert.Empty(t, c.Model())
}

func TestToolSchemasMirrorDefinitions(t *testing.T) {
	defs := tools.NewDispatcher(storehub.NewMockClient(nil), tools.Options{}, nil).Definitions()

	schemas := ToolSchemas(defs)

	require.Len(t, schemas, len(defs))
	for i, schema := range schemas {
		assert.Equal(t, openrouter.ToolTypeFunction, schema.Type)
		require.NotNil(t, schema.Function)
		assert.Equal(t, defs[i].Name, schema.Function.Name)
		assert.Equal(t, defs[i].Description, schema.Function.Description)
	}
}

func TestSystemPrompt(t *testing.T) {
	now := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	oneShot := systemPrompt(now, false)
	assert.Contains(t, oneShot, "Today is 2024-03-20 (Wednesday).")
	assert.False(t, strings.Contains(oneShot, "ongoing conversation"))

	assert.Contains(t, systemPrompt(now, true), "ongoing conversation")
}
