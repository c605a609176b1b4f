package tools

import (
	"strings"
	"testing"

	"yolearn/internal/tools/builtin"
)

func TestValidateArgumentsAcceptsCompleteCall(t *testing.T) {
	def := builtin.NewFlashcardGenerator().Definition()
	validated, err := ValidateArguments(def, map[string]any{
		"topic":      "mitosis",
		"count":      float64(12),
		"difficulty": "medium",
		"subject":    "Biology",
	})
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	count, ok := validated["count"].(int)
	if !ok || count != 12 {
		t.Fatalf("expected count 12 as int, got %v (%T)", validated["count"], validated["count"])
	}
	if validated["topic"] != "mitosis" {
		t.Fatalf("topic not carried through: %v", validated["topic"])
	}
}

func TestValidateArgumentsRequiredFieldMissing(t *testing.T) {
	def := builtin.NewFlashcardGenerator().Definition()
	_, err := ValidateArguments(def, map[string]any{
		"topic": "mitosis",
		"count": 5,
	})
	if err == nil {
		t.Fatalf("expected error for missing required fields")
	}
	msg := err.Error()
	if !strings.Contains(msg, "flashcard_generator") {
		t.Fatalf("error should name the tool: %s", msg)
	}
	if !strings.Contains(msg, "difficulty") || !strings.Contains(msg, "subject") {
		t.Fatalf("error should name every missing field: %s", msg)
	}
}

func TestValidateArgumentsRejectsCountBelowMinimum(t *testing.T) {
	def := builtin.NewFlashcardGenerator().Definition()
	_, err := ValidateArguments(def, map[string]any{
		"topic": "mitosis", "count": 0, "difficulty": "easy", "subject": "Biology",
	})
	if err == nil {
		t.Fatalf("count 0 must be rejected, not clamped")
	}
	if !strings.Contains(err.Error(), "below minimum") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArgumentsRejectsCountAboveMaximum(t *testing.T) {
	def := builtin.NewFlashcardGenerator().Definition()
	_, err := ValidateArguments(def, map[string]any{
		"topic": "mitosis", "count": 21, "difficulty": "easy", "subject": "Biology",
	})
	if err == nil {
		t.Fatalf("count 21 must be rejected, not clamped")
	}
	if !strings.Contains(err.Error(), "above maximum") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArgumentsEnumIsCaseSensitive(t *testing.T) {
	def := builtin.NewFlashcardGenerator().Definition()
	_, err := ValidateArguments(def, map[string]any{
		"topic": "mitosis", "count": 5, "difficulty": "Easy", "subject": "Biology",
	})
	if err == nil {
		t.Fatalf("enum match must be case-sensitive")
	}
	if !strings.Contains(err.Error(), "not in allowed set") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArgumentsDropsUnknownFields(t *testing.T) {
	def := builtin.NewConceptExplainer().Definition()
	validated, err := ValidateArguments(def, map[string]any{
		"concept_to_explain": "gravity",
		"desired_depth":      "basic",
		"current_topic":      "Physics",
		"mystery_field":      "ignored",
	})
	if err != nil {
		t.Fatalf("unknown fields must not fail validation: %v", err)
	}
	if _, present := validated["mystery_field"]; present {
		t.Fatalf("unknown field leaked into validated arguments")
	}
}

func TestValidateArgumentsAppliesDefaults(t *testing.T) {
	def := builtin.NewNoteMaker().Definition()
	validated, err := ValidateArguments(def, map[string]any{
		"topic":             "photosynthesis",
		"note_taking_style": "outline",
		"subject":           "Biology",
	})
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if validated["include_examples"] != true {
		t.Fatalf("include_examples default not applied: %v", validated["include_examples"])
	}
	if validated["include_analogies"] != false {
		t.Fatalf("include_analogies default not applied: %v", validated["include_analogies"])
	}
}

func TestValidateArgumentsRejectsFractionalInteger(t *testing.T) {
	def := builtin.NewFlashcardGenerator().Definition()
	_, err := ValidateArguments(def, map[string]any{
		"topic": "mitosis", "count": 2.5, "difficulty": "easy", "subject": "Biology",
	})
	if err == nil {
		t.Fatalf("fractional value must not pass as integer")
	}
}

func TestValidateArgumentsRejectsWrongType(t *testing.T) {
	def := builtin.NewNoteMaker().Definition()
	_, err := ValidateArguments(def, map[string]any{
		"topic":             42,
		"note_taking_style": "outline",
		"subject":           "Biology",
	})
	if err == nil {
		t.Fatalf("non-string topic must be rejected")
	}
	if !strings.Contains(err.Error(), "expected string") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidationErrorListsFieldsInStableOrder(t *testing.T) {
	def := builtin.NewFlashcardGenerator().Definition()
	_, err := ValidateArguments(def, map[string]any{"topic": "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	// Field order follows sorted property names.
	if strings.Index(msg, "count") > strings.Index(msg, "difficulty") {
		t.Fatalf("fields not reported in sorted order: %s", msg)
	}
}
