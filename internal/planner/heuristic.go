// Package planner maps one student message to a candidate tool selection.
// Two planners exist: a model-backed planner (primary) and a rule-based
// heuristic planner (fallback). Both produce types.PlanResult.
package planner

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"yolearn/internal/agent/ports"
	"yolearn/pkg/types"
)

// Keyword sets for the ordered classification rules. First match wins, in
// declaration order: notes, then flashcards, then explanations.
var (
	noteKeywords      = []string{"note", "summary", "outline", "study"}
	flashcardKeywords = []string{"flashcard", "quiz", "practice"}
	explainKeywords   = []string{"explain", "define", "describe", "clarify"}
)

// countRe matches the first 1-2 digit integer in a message.
var countRe = regexp.MustCompile(`\b(\d{1,2})\b`)

// Heuristic is the deterministic fallback planner. It is a pure function of
// (message, context): no external calls, never fails, may return an empty
// tool name meaning "no suitable tool".
type Heuristic struct {
	profile ports.ContextProvider
}

// NewHeuristic builds the heuristic planner around a context provider.
func NewHeuristic(profile ports.ContextProvider) *Heuristic {
	return &Heuristic{profile: profile}
}

// PlanTurn classifies the message with ordered keyword rules. The error is
// always nil; the signature matches the planner contract.
func (h *Heuristic) PlanTurn(ctx context.Context, message string) (*types.PlanResult, error) {
	s := strings.ToLower(message)
	student := h.profile.StudentContext()

	if containsAny(s, noteKeywords) {
		return &types.PlanResult{
			ToolName: "note_maker",
			ToolArgs: map[string]any{
				"topic":             message,
				"note_taking_style": "structured",
				"subject":           orDefault(student.Subject, "General"),
				"include_examples":  true,
				"include_analogies": strings.Contains(s, "confuse") || strings.Contains(s, "confused"),
			},
			Source: types.PlanSourceHeuristic,
		}, nil
	}

	if containsAny(s, flashcardKeywords) {
		return &types.PlanResult{
			ToolName: "flashcard_generator",
			ToolArgs: map[string]any{
				"topic":      message,
				"count":      extractCount(s),
				"difficulty": "medium",
				"subject":    orDefault(student.Subject, "General"),
			},
			Source: types.PlanSourceHeuristic,
		}, nil
	}

	if containsAny(s, explainKeywords) {
		depth := "intermediate"
		if strings.Contains(s, "simple") || strings.Contains(s, "basic") {
			depth = "basic"
		}
		if strings.Contains(s, "advanced") || strings.Contains(s, "detailed") {
			depth = "advanced"
		}
		return &types.PlanResult{
			ToolName: "concept_explainer",
			ToolArgs: map[string]any{
				"concept_to_explain": message,
				"desired_depth":      depth,
				"current_topic":      orDefault(student.LastTopic, "General"),
			},
			Source: types.PlanSourceHeuristic,
		}, nil
	}

	// No rule matched: a valid terminal outcome, not an error.
	return &types.PlanResult{Source: types.PlanSourceHeuristic}, nil
}

// extractCount returns the first 1-2 digit integer in the message clamped
// into [1,20], defaulting to 5 when none is present.
func extractCount(lowered string) int {
	count := 5
	if m := countRe.FindStringSubmatch(lowered); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			count = n
		}
	}
	if count < 1 {
		count = 1
	}
	if count > 20 {
		count = 20
	}
	return count
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
