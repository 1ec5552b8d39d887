package cli

import (
	"strings"
	"time"
)

type response struct {
	Query      string
	AnswerText string
	ToolCalls  []toolCallRecord
	NextStep   string
}

type toolCallRecord struct {
	Name string `json:"name"`
	Args string `json:"args,omitempty"`
	MS   int64  `json:"ms"`
	OK   bool   `json:"ok"`
	Err  string `json:"err,omitempty"`
}

func trackCall[T any](name, args string, fn func() (T, error), describe func(error) string) (T, toolCallRecord, error) {
	start := time.Now()
	result, err := fn()
	record := toolCallRecord{
		Name: name,
		Args: strings.TrimSpace(args),
		MS:   time.Since(start).Milliseconds(),
		OK:   err == nil,
	}
	if err != nil {
		record.Err = describe(err)
	}
	return result, record, err
}

func preview(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
