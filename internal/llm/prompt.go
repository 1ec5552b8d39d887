package llm

import (
	"fmt"
	"strings"
	"time"
)

const basePrompt = `You are a back-office assistant for a retail business that runs on StoreHub POS.
Answer questions about inventory, products, sales, customers, stores, employees and timesheets
by calling the available tools. Never invent figures; quote numbers from tool results.

Rules:
- Dates passed to tools use YYYY-MM-DD. Sales ranges are limited to 90 days.
- If the user gives no period for sales, omit the dates to get the last 7 days.
- Write tools (create_*, update_*, cancel_*) change live data. Only call them when the user
  explicitly asks, and repeat the key values back in your answer.
- When a tool returns an error, explain it in one sentence and suggest the next step.
- Keep answers short. Use plain text lists, no tables.`

// SystemPromptWithContext adds the current date and, for the REPL, a note about follow-ups.
func SystemPromptWithContext(interactive bool) string {
	return systemPrompt(time.Now(), interactive)
}

func systemPrompt(now time.Time, interactive bool) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	fmt.Fprintf(&b, "\n\nToday is %s (%s).", now.Format("2006-01-02"), now.Weekday())
	if interactive {
		b.WriteString("\nThis is an ongoing conversation: follow-up questions may refer to earlier answers, dates or stores.")
	}
	return b.String()
}
