package orchestrator

import (
	"fmt"

	"yolearn/pkg/types"
)

// Fixed user-facing strings for the non-success outcomes.
const (
	msgNoTool     = "⚠️ Unable to determine a suitable tool."
	msgIncomplete = "⚠️ Could not complete request."
)

// formatTurn composes the final response from the terminal status. Statuses
// the execute stage already attached a message to (TOOL_ERROR, UNKNOWN_TOOL)
// are left untouched.
func formatTurn(state *types.TurnState) {
	switch state.Status {
	case types.StatusToolSuccess:
		state.FinalResponse = successMessage(state.ToolName, state.ToolArgs)
		state.Status = types.StatusSuccess

	case types.StatusNoTool:
		state.FinalResponse = msgNoTool

	case types.StatusToolError, types.StatusUnknownTool:
		// Message already set by the execute stage.

	default:
		if state.FinalResponse == "" {
			state.FinalResponse = msgIncomplete
		}
	}
}

// successMessage renders the per-tool confirmation template. Tools without a
// dedicated template get the generic success line.
func successMessage(toolName string, args map[string]any) string {
	switch toolName {
	case "note_maker":
		topic := stringArg(args, "topic", "your topic")
		return fmt.Sprintf("📘 Here are your **%s** notes (structured). Ready to start?", topic)

	case "flashcard_generator":
		count := intArg(args, "count", 5)
		topic := stringArg(args, "topic", "this topic")
		return fmt.Sprintf("🃏 Generated %d flashcards on %s.", count, topic)

	case "concept_explainer":
		concept := stringArg(args, "concept_to_explain", "the concept")
		return fmt.Sprintf("🧠 Explanation for **%s** ready!", concept)

	default:
		return fmt.Sprintf("✅ Tool %s executed successfully.", toolName)
	}
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
