package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"storehub_mcp/internal/llm"
	"storehub_mcp/internal/storehub"
	"storehub_mcp/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testRunner struct {
	*Runner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestRunner(stdin string) testRunner {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	r := &Runner{
		logger:     zap.NewNop(),
		dispatcher: tools.NewDispatcher(storehub.NewMockClient(nil), tools.Options{StoreID: "store-001"}, nil),
		stdin:      strings.NewReader(stdin),
		stdout:     stdout,
		stderr:     stderr,
	}
	return testRunner{Runner: r, stdout: stdout, stderr: stderr}
}

func TestRunListsTools(t *testing.T) {
	r := newTestRunner("")

	require.NoError(t, r.Run(context.Background(), []string{"tools"}))

	out := r.stdout.String()
	assert.Contains(t, out, tools.GetSalesAnalytics)
	assert.Contains(t, out, tools.TestAPIConnection)
}

func TestRunListsToolsJSON(t *testing.T) {
	r := newTestRunner("")

	require.NoError(t, r.Run(context.Background(), []string{"tools", "-json"}))

	var listing []toolListing
	require.NoError(t, json.Unmarshal(r.stdout.Bytes(), &listing))
	assert.Len(t, listing, 15)
	for _, tool := range listing {
		assert.Equal(t, "object", tool.InputSchema["type"], tool.Name)
	}
}

func TestRunCallTool(t *testing.T) {
	r := newTestRunner("")

	require.NoError(t, r.Run(context.Background(), []string{"call", tools.GetStores}))

	assert.Contains(t, r.stdout.String(), "STORES")
}

func TestRunCallToolReadsStdin(t *testing.T) {
	r := newTestRunner(`{"product_id":"prod-001"}`)

	require.NoError(t, r.Run(context.Background(), []string{"call", tools.GetProduct, "-"}))

	assert.Contains(t, r.stdout.String(), "ID: prod-001")
}

func TestRunCallToolFailure(t *testing.T) {
	r := newTestRunner("")

	err := r.Run(context.Background(), []string{"call", tools.GetProduct, `{"product_id":"missing"}`})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not found")
	assert.Empty(t, r.stdout.String())
}

func TestRunCallToolNeedsName(t *testing.T) {
	r := newTestRunner("")

	assert.Error(t, r.Run(context.Background(), []string{"call"}))
	assert.Contains(t, r.stderr.String(), "Usage:")
}

func TestRunUnknownCommand(t *testing.T) {
	r := newTestRunner("")

	err := r.Run(context.Background(), []string{"deploy"})

	assert.ErrorContains(t, err, `unknown command "deploy"`)
}

func TestRunServeWithoutServer(t *testing.T) {
	r := newTestRunner("")

	assert.Error(t, r.Run(context.Background(), nil))
}

func TestChatWithoutLLMConfig(t *testing.T) {
	r := newTestRunner("")

	err := r.Run(context.Background(), []string{"chat", "how were sales this week?"})

	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestChatRejectsExtraArguments(t *testing.T) {
	r := newTestRunner("")

	err := r.Run(context.Background(), []string{"chat", "one", "two"})

	assert.ErrorContains(t, err, "only one query argument")
}

func TestWriteResponseJSON(t *testing.T) {
	var buf bytes.Buffer
	resp := response{
		Query:      "stores?",
		AnswerText: " Two stores. ",
		ToolCalls:  []toolCallRecord{{Name: tools.GetStores, Args: "{}", MS: 3, OK: true}},
	}

	require.NoError(t, writeResponse(&buf, Options{JSON: true}, resp))

	var decoded jsonResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Two stores.", decoded.AnswerText)
	require.Len(t, decoded.ToolCalls, 1)
	assert.Equal(t, tools.GetStores, decoded.ToolCalls[0].Name)
}

func TestWriteResponseHuman(t *testing.T) {
	var buf bytes.Buffer
	resp := response{
		AnswerText: "Sales are up.",
		ToolCalls: []toolCallRecord{
			{Name: tools.GetSalesAnalytics, MS: 12, OK: true},
			{Name: tools.GetProduct, MS: 1, Err: "Not found: /products/x"},
		},
		NextStep: "Try a shorter period.",
	}

	require.NoError(t, writeResponse(&buf, Options{}, resp))

	out := buf.String()
	assert.Contains(t, out, "Sales are up.")
	assert.Contains(t, out, "- get_sales_analytics (12 ms, ok)")
	assert.Contains(t, out, "failed: Not found: /products/x")
	assert.Contains(t, out, "Next step: Try a shorter period.")
}
