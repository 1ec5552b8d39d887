package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

type jsonResponse struct {
	Query      string           `json:"query"`
	AnswerText string           `json:"answer_text"`
	ToolCalls  []toolCallRecord `json:"tool_calls,omitempty"`
	NextStep   string           `json:"next_step,omitempty"`
}

func writeResponse(w io.Writer, opts Options, resp response) error {
	if opts.JSON {
		return json.NewEncoder(w).Encode(jsonResponse{
			Query:      resp.Query,
			AnswerText: strings.TrimSpace(resp.AnswerText),
			ToolCalls:  resp.ToolCalls,
			NextStep:   strings.TrimSpace(resp.NextStep),
		})
	}
	return writeHumanResponse(w, resp)
}

func writeHumanResponse(w io.Writer, resp response) error {
	answer := strings.TrimSpace(resp.AnswerText)
	if answer == "" {
		answer = "(empty response)"
	}
	fmt.Fprintln(w, answer)

	if len(resp.ToolCalls) > 0 {
		fmt.Fprintln(w, "\nTools used:")
		writeToolCalls(w, resp.ToolCalls)
	}

	if next := strings.TrimSpace(resp.NextStep); next != "" {
		fmt.Fprintf(w, "\nNext step: %s\n", next)
	}
	return nil
}

func writeToolCalls(w io.Writer, calls []toolCallRecord) {
	for _, call := range calls {
		status := "ok"
		if !call.OK {
			status = "failed: " + call.Err
		}
		fmt.Fprintf(w, "- %s (%d ms, %s)\n", call.Name, call.MS, status)
	}
}

func logResponse(logger *zap.Logger, resp response) {
	failed := 0
	for _, call := range resp.ToolCalls {
		if !call.OK {
			failed++
		}
	}
	logger.Info("response",
		zap.Int("answer_chars", len(strings.TrimSpace(resp.AnswerText))),
		zap.Int("tool_calls", len(resp.ToolCalls)),
		zap.Int("tool_failures", failed),
		zap.Bool("step_limit", resp.NextStep != ""),
	)
}
