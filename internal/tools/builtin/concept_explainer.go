package builtin

import (
	"context"
	"fmt"
	"strings"

	"yolearn/internal/agent/ports"
)

// conceptExplainer explains a concept at a desired depth.
type conceptExplainer struct{}

// NewConceptExplainer returns the concept_explainer tool.
func NewConceptExplainer() ports.ToolExecutor {
	return &conceptExplainer{}
}

func (t *conceptExplainer) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{
		Name:     "concept_explainer",
		Version:  "1.0.0",
		Category: "learning",
		Tags:     []string{"explain", "concept", "tutoring"},
	}
}

func (t *conceptExplainer) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "concept_explainer",
		Description: "Explains a concept with the desired depth.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"concept_to_explain": {
					Type:        "string",
					Description: "Concept the student asked about",
				},
				"desired_depth": {
					Type:        "string",
					Description: "How deep the explanation should go",
					Enum:        []string{"basic", "intermediate", "advanced", "comprehensive"},
				},
				"current_topic": {
					Type:        "string",
					Description: "Topic the student is currently studying",
				},
			},
			Required: []string{"concept_to_explain", "desired_depth", "current_topic"},
		},
	}
}

func (t *conceptExplainer) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	args := call.Arguments
	concept := argString(args, "concept_to_explain", "")
	depth := argString(args, "desired_depth", "intermediate")

	explanation := fmt.Sprintf("%s explanation of %s.", titleCase(depth), concept)
	return &ports.ToolResult{
		CallID:  call.ID,
		Content: explanation,
		Metadata: map[string]any{
			"concept":     concept,
			"depth":       depth,
			"explanation": explanation,
		},
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var _ ports.ToolExecutor = (*conceptExplainer)(nil)
