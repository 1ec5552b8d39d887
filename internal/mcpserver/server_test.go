package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"storehub_mcp/internal/storehub"
	"storehub_mcp/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	text string
	err  error

	gotName string
	gotArgs json.RawMessage
}

func (f *fakeCaller) Definitions() []tools.Definition {
	return []tools.Definition{
		{
			Name:        tools.GetStores,
			Description: "List stores.",
			Schema:      map[string]any{"type": "object", "properties": map[string]any{}, "additionalProperties": false},
		},
		{
			Name:        tools.GetProduct,
			Description: "One product.",
			Schema: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{"product_id": map[string]any{"type": "string"}},
				"required":             []string{"product_id"},
				"additionalProperties": false,
			},
		},
	}
}

func (f *fakeCaller) Call(_ context.Context, name string, args json.RawMessage) (string, error) {
	f.gotName = name
	f.gotArgs = args
	return f.text, f.err
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestHandlerReturnsText(t *testing.T) {
	caller := &fakeCaller{text: "PRODUCT Soap"}

	result, err := handler(caller, tools.GetProduct)(context.Background(),
		callRequest(tools.GetProduct, map[string]any{"product_id": "p1"}))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "PRODUCT Soap", resultText(t, result))
	assert.Equal(t, tools.GetProduct, caller.gotName)
	assert.JSONEq(t, `{"product_id":"p1"}`, string(caller.gotArgs))
}

func TestHandlerTurnsFailuresIntoErrorResults(t *testing.T) {
	caller := &fakeCaller{err: &storehub.APIError{Kind: storehub.ErrNotFound, Method: "GET", Path: "/products/p9", StatusCode: 404}}

	result, err := handler(caller, tools.GetProduct)(context.Background(),
		callRequest(tools.GetProduct, map[string]any{"product_id": "p9"}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Not found: /products/p9", resultText(t, result))
}

func TestHandlerWithoutArguments(t *testing.T) {
	caller := &fakeCaller{text: "STORES"}

	result, err := handler(caller, tools.GetStores)(context.Background(), callRequest(tools.GetStores, nil))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "null", string(caller.gotArgs))
}

func TestServerListsAndCallsTools(t *testing.T) {
	ctx := context.Background()
	caller := &fakeCaller{text: "STORES\nFound 1 store(s)"}
	s, err := New(caller, nil)
	require.NoError(t, err)

	s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{
		"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))

	listed, err := json.Marshal(s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))
	require.NoError(t, err)
	assert.Contains(t, string(listed), `"get_stores"`)
	assert.Contains(t, string(listed), `"product_id"`)

	called, err := json.Marshal(s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":3,"method":"tools/call",
		"params":{"name":"get_stores","arguments":{}}}`)))
	require.NoError(t, err)
	assert.Contains(t, string(called), "Found 1 store(s)")
	assert.Equal(t, tools.GetStores, caller.gotName)
}

func TestServerWithDispatcherInMockMode(t *testing.T) {
	dispatcher := tools.NewDispatcher(storehub.NewMockClient(nil), tools.Options{}, nil)
	s, err := New(dispatcher, nil)
	require.NoError(t, err)

	listed, err := json.Marshal(s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)))
	require.NoError(t, err)
	for _, def := range dispatcher.Definitions() {
		assert.Contains(t, string(listed), `"`+def.Name+`"`)
	}
}
