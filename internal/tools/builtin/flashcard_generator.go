package builtin

import (
	"context"
	"fmt"

	"yolearn/internal/agent/ports"
)

const (
	flashcardCountMin = 1
	flashcardCountMax = 20
)

// flashcardGenerator produces a deck of question/answer cards for a topic.
type flashcardGenerator struct{}

// NewFlashcardGenerator returns the flashcard_generator tool.
func NewFlashcardGenerator() ports.ToolExecutor {
	return &flashcardGenerator{}
}

func (t *flashcardGenerator) Metadata() ports.ToolMetadata {
	return ports.ToolMetadata{
		Name:     "flashcard_generator",
		Version:  "1.0.0",
		Category: "learning",
		Tags:     []string{"flashcards", "quiz", "practice"},
	}
}

func (t *flashcardGenerator) Definition() ports.ToolDefinition {
	minCount := float64(flashcardCountMin)
	maxCount := float64(flashcardCountMax)
	return ports.ToolDefinition{
		Name:        "flashcard_generator",
		Description: "Generates flashcards for a topic.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"topic": {
					Type:        "string",
					Description: "Topic the flashcards cover",
				},
				"count": {
					Type:        "integer",
					Description: "Number of cards to generate (1-20)",
					Minimum:     &minCount,
					Maximum:     &maxCount,
				},
				"difficulty": {
					Type:        "string",
					Description: "Card difficulty",
					Enum:        []string{"easy", "medium", "hard"},
				},
				"subject": {
					Type:        "string",
					Description: "School subject the topic belongs to",
				},
			},
			Required: []string{"topic", "count", "difficulty", "subject"},
		},
	}
}

func (t *flashcardGenerator) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	args := call.Arguments
	topic := argString(args, "topic", "")
	count := argInt(args, "count", 5)

	cards := make([]map[string]string, 0, count)
	for i := 1; i <= count; i++ {
		cards = append(cards, map[string]string{
			"q": fmt.Sprintf("What is point %d about %s?", i, topic),
			"a": fmt.Sprintf("Answer %d.", i),
		})
	}

	return &ports.ToolResult{
		CallID:  call.ID,
		Content: fmt.Sprintf("Generated %d flashcards on %s", count, topic),
		Metadata: map[string]any{
			"flashcards": cards,
			"difficulty": argString(args, "difficulty", "medium"),
		},
	}, nil
}

var _ ports.ToolExecutor = (*flashcardGenerator)(nil)
