package builtin

import (
	"context"
	"fmt"

	"yolearn/internal/agent/ports"
)

// noteMaker generates structured study notes for a topic.
type noteMaker struct{}

// NewNoteMaker returns the note_maker tool.
func NewNoteMaker() ports.ToolExecutor {
	return &noteMaker{}
}

func (t *noteMaker) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{
		Name:     "note_maker",
		Version:  "1.0.0",
		Category: "learning",
		Tags:     []string{"notes", "study", "summary"},
	}
}

func (t *noteMaker) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "note_maker",
		Description: "Generates structured study notes on a topic in the requested style.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"topic": {
					Type:        "string",
					Description: "Topic to generate notes for",
				},
				"note_taking_style": {
					Type:        "string",
					Description: "Layout of the generated notes",
					Enum:        []string{"outline", "bullet_points", "narrative", "structured"},
				},
				"subject": {
					Type:        "string",
					Description: "School subject the topic belongs to",
				},
				"include_examples": {
					Type:        "boolean",
					Description: "Include worked examples",
					Default:     true,
				},
				"include_analogies": {
					Type:        "boolean",
					Description: "Include analogies for confusing material",
					Default:     false,
				},
			},
			Required: []string{"topic", "note_taking_style", "subject"},
		},
	}
}

func (t *noteMaker) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	args := call.Arguments
	topic := argString(args, "topic", "")
	style := argString(args, "note_taking_style", "structured")

	return &ports.ToolResult{
		CallID:  call.ID,
		Content: fmt.Sprintf("Prepared %s notes on %s", style, topic),
		Metadata: map[string]any{
			"topic":     topic,
			"style":     style,
			"subject":   argString(args, "subject", "General"),
			"examples":  argBool(args, "include_examples", true),
			"analogies": argBool(args, "include_analogies", false),
		},
	}, nil
}

var _ ports.ToolExecutor = (*noteMaker)(nil)
