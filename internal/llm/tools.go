package llm

import (
	"storehub_mcp/internal/tools"

	openrouter "github.com/revrost/go-openrouter"
)

type ToolCall = openrouter.ToolCall

// ToolSchemas exposes the dispatcher's tools as OpenRouter function definitions.
func ToolSchemas(defs []tools.Definition) []openrouter.Tool {
	out := make([]openrouter.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, openrouter.Tool{
			Type: openrouter.ToolTypeFunction,
			Function: &openrouter.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Schema,
			},
		})
	}
	return out
}
