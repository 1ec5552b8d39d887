package cli

import "time"

// Options are the chat flags; they start from the loaded config.
type Options struct {
	Query      string
	JSON       bool
	Timeout    time.Duration
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
}

func (o Options) llmChanged(base Options) bool {
	return o.LLMBaseURL != base.LLMBaseURL || o.LLMAPIKey != base.LLMAPIKey ||
		o.LLMModel != base.LLMModel || o.Timeout != base.Timeout
}
