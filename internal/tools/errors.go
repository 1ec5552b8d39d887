package tools

import (
	"errors"
	"fmt"

	"storehub_mcp/internal/storehub"
)

var ErrUnknownTool = errors.New("unknown tool")

// FormatError turns a tool failure into the single message shown to the agent.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var validation *storehub.ValidationError
	var apiErr *storehub.APIError
	switch {
	case errors.Is(err, ErrUnknownTool):
		return err.Error()
	case errors.As(err, &validation):
		return "Invalid arguments: " + validationMessage(validation)
	case errors.Is(err, storehub.ErrNoStores):
		return "No stores were found for this account. Set STOREHUB_STORE_ID."
	case errors.Is(err, storehub.ErrAuth):
		return "StoreHub rejected the credentials. Check STOREHUB_API_KEY and STOREHUB_ACCOUNT_ID."
	case errors.Is(err, storehub.ErrRateLimited):
		return "StoreHub rate limit reached. Wait a moment and try again."
	case errors.As(err, &apiErr):
		return apiMessage(apiErr)
	default:
		return "Error: " + err.Error()
	}
}

func validationMessage(e *storehub.ValidationError) string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func apiMessage(e *storehub.APIError) string {
	switch {
	case errors.Is(e, storehub.ErrNotFound):
		return fmt.Sprintf("Not found: %s", e.Path)
	case errors.Is(e, storehub.ErrServer):
		return fmt.Sprintf("StoreHub server error (status %d). Try again later.", e.StatusCode)
	case errors.Is(e, storehub.ErrNetwork):
		return "Could not reach StoreHub: " + orFallback(e.Message, "network error")
	case errors.Is(e, storehub.ErrValidation):
		return fmt.Sprintf("StoreHub rejected the request (status %d): %s", e.StatusCode, orFallback(e.Message, "no details"))
	default:
		return "Error: " + e.Error()
	}
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
