package planner

import (
	"fmt"
	"sort"
	"strings"

	"yolearn/internal/agent/ports"
	jsonx "yolearn/internal/shared/json"
)

// BuildSystemPrompt renders the planner system prompt: role, tool catalogue,
// personalization context, and the output contract (pure JSON, exactly one
// tool call).
func BuildSystemPrompt(defs []ports.ToolDefinition, user ports.UserInfo, student ports.StudentContext) string {
	var b strings.Builder
	b.WriteString("You are the YoLearn Autonomous AI Tutor Orchestrator.\n\n")
	b.WriteString("Your ONLY task:\n")
	b.WriteString("-> Select one correct tool and return a structured JSON specifying the tool and its parameters.\n\n")

	b.WriteString("Available tools:\n")
	for _, def := range defs {
		b.WriteString("- ")
		b.WriteString(renderSignature(def))
		b.WriteString("\n")
	}

	userJSON, _ := jsonx.Marshal(user)
	studentJSON, _ := jsonx.Marshal(student)
	b.WriteString("\nContext:\n")
	fmt.Fprintf(&b, "User Info: %s\n", userJSON)
	fmt.Fprintf(&b, "Student Context: %s\n", studentJSON)

	b.WriteString("\nRules:\n")
	b.WriteString("- Output ONLY valid JSON (no extra text).\n")
	b.WriteString("- Return exactly ONE tool call, as {\"tool_name\": ..., \"tool_args\": {...}}.\n")
	b.WriteString("- If any parameter is missing, infer a reasonable default.\n")
	return b.String()
}

// renderSignature formats a definition as name(param: type, ...) with enum
// options inlined, the compact form models follow most reliably.
func renderSignature(def ports.ToolDefinition) string {
	names := make([]string, 0, len(def.Parameters.Properties))
	for name := range def.Parameters.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]string, 0, len(names))
	for _, name := range names {
		prop := def.Parameters.Properties[name]
		typ := prop.Type
		if len(prop.Enum) > 0 {
			typ = fmt.Sprintf("%s{%s}", prop.Type, strings.Join(prop.Enum, "|"))
		}
		params = append(params, fmt.Sprintf("%s: %s", name, typ))
	}
	return fmt.Sprintf("%s(%s)", def.Name, strings.Join(params, ", "))
}
