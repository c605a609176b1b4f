package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"yolearn/internal/llm"
	"yolearn/internal/planner"
	"yolearn/internal/profile"
	"yolearn/internal/toolregistry"
	"yolearn/pkg/types"
)

func newTestOrchestrator(t *testing.T, client llm.Client) *Orchestrator {
	t.Helper()
	registry, err := toolregistry.NewRegistry(toolregistry.Config{})
	if err != nil {
		t.Fatalf("unexpected error creating registry: %v", err)
	}
	prof := profile.NewMockProvider()

	var model Planner
	if client != nil {
		model = planner.NewModel(planner.ModelConfig{
			Client:   client,
			Registry: registry,
			Profile:  prof,
			Timeout:  time.Second,
		})
	}

	return New(Config{
		Registry: registry,
		Model:    model,
		Fallback: planner.NewHeuristic(prof),
		Metrics:  MustNewMetrics(prometheus.NewRegistry()),
	})
}

func TestRunTurnFallsBackWhenModelFails(t *testing.T) {
	client := llm.NewFailingMockClient("test-model", errors.New("provider down"))
	orch := newTestOrchestrator(t, client)

	result := orch.RunTurn(context.Background(), "Can you explain photosynthesis in simple terms?")

	if result.Status != types.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s (error: %s)", result.Status, result.Error)
	}
	if result.ToolName != "concept_explainer" {
		t.Fatalf("expected concept_explainer, got %q", result.ToolName)
	}
	if !result.FallbackUsed {
		t.Fatalf("fallback flag should be set when the model fails")
	}
	if result.ToolArgs["desired_depth"] != "basic" {
		t.Fatalf("expected basic depth, got %v", result.ToolArgs["desired_depth"])
	}
	if result.ToolArgs["current_topic"] != "Photosynthesis" {
		t.Fatalf("current_topic should come from student context: %v", result.ToolArgs["current_topic"])
	}
	if !strings.Contains(result.FinalResponse, "🧠") {
		t.Fatalf("unexpected final response: %q", result.FinalResponse)
	}
}

func TestRunTurnWithoutModelPlanner(t *testing.T) {
	orch := newTestOrchestrator(t, nil)

	result := orch.RunTurn(context.Background(), "Give me 12 flashcards on mitosis")
	if result.Status != types.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s (error: %s)", result.Status, result.Error)
	}
	if result.ToolName != "flashcard_generator" {
		t.Fatalf("expected flashcard_generator, got %q", result.ToolName)
	}
	if result.ToolArgs["count"] != 12 {
		t.Fatalf("expected count 12, got %v", result.ToolArgs["count"])
	}
	if !result.FallbackUsed {
		t.Fatalf("fallback flag should be set when no model is configured")
	}
	if result.FinalResponse != "🃏 Generated 12 flashcards on Give me 12 flashcards on mitosis." {
		t.Fatalf("unexpected final response: %q", result.FinalResponse)
	}
}

func TestRunTurnNoToolMatched(t *testing.T) {
	orch := newTestOrchestrator(t, nil)

	result := orch.RunTurn(context.Background(), "asdkjasd")
	if result.Status != types.StatusNoTool {
		t.Fatalf("expected NO_TOOL, got %s", result.Status)
	}
	if result.FinalResponse != "⚠️ Unable to determine a suitable tool." {
		t.Fatalf("unexpected final response: %q", result.FinalResponse)
	}
	if result.ToolName != "" {
		t.Fatalf("no tool should be recorded, got %q", result.ToolName)
	}
}

func TestRunTurnModelPlanSucceeds(t *testing.T) {
	client := llm.NewMockClient("test-model", "```json\n"+
		`{"tool_name": "flashcard_generator", "tool_args": {"topic": "algebra", "count": 3, "difficulty": "easy", "subject": "Math"}}`+
		"\n```")
	orch := newTestOrchestrator(t, client)

	result := orch.RunTurn(context.Background(), "3 easy flashcards on algebra")
	if result.Status != types.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s (error: %s)", result.Status, result.Error)
	}
	if result.FallbackUsed {
		t.Fatalf("fallback must not engage when the model plan decodes")
	}
	if result.ToolName != "flashcard_generator" {
		t.Fatalf("expected flashcard_generator, got %q", result.ToolName)
	}
	if result.FinalResponse != "🃏 Generated 3 flashcards on algebra." {
		t.Fatalf("unexpected final response: %q", result.FinalResponse)
	}
}

func TestRunTurnUnknownToolIsTerminal(t *testing.T) {
	client := llm.NewMockClient("test-model", `{"tool_name": "time_machine", "tool_args": {}}`)
	orch := newTestOrchestrator(t, client)

	result := orch.RunTurn(context.Background(), "take me back to 1985")
	if result.Status != types.StatusUnknownTool {
		t.Fatalf("expected UNKNOWN_TOOL, got %s", result.Status)
	}
	if result.FinalResponse != "❌ Unknown tool: time_machine" {
		t.Fatalf("unexpected final response: %q", result.FinalResponse)
	}
	if result.FallbackUsed {
		t.Fatalf("unknown tool must not trigger a re-plan")
	}
}

func TestRunTurnValidationFailure(t *testing.T) {
	client := llm.NewMockClient("test-model",
		`{"tool_name": "flashcard_generator", "tool_args": {"topic": "algebra", "count": 25, "difficulty": "easy", "subject": "Math"}}`)
	orch := newTestOrchestrator(t, client)

	result := orch.RunTurn(context.Background(), "25 flashcards on algebra")
	if result.Status != types.StatusToolError {
		t.Fatalf("expected TOOL_ERROR, got %s", result.Status)
	}
	if !strings.HasPrefix(result.FinalResponse, "❌ Tool execution failed:") {
		t.Fatalf("unexpected final response: %q", result.FinalResponse)
	}
	if !strings.Contains(result.Error, "above maximum") {
		t.Fatalf("error should state the bounds violation: %q", result.Error)
	}
}

func TestRunTurnEchoesValidatedArguments(t *testing.T) {
	// Model omits the optional note flags; validation fills the defaults and
	// the result must echo exactly what the tool ran with.
	client := llm.NewMockClient("test-model",
		`{"tool_name": "note_maker", "tool_args": {"topic": "cells", "note_taking_style": "outline", "subject": "Biology"}}`)
	orch := newTestOrchestrator(t, client)

	result := orch.RunTurn(context.Background(), "notes on cells")
	if result.Status != types.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s (error: %s)", result.Status, result.Error)
	}
	if result.ToolArgs["include_examples"] != true {
		t.Fatalf("default include_examples missing from echoed args: %v", result.ToolArgs)
	}
	if result.ToolArgs["include_analogies"] != false {
		t.Fatalf("default include_analogies missing from echoed args: %v", result.ToolArgs)
	}
}

type panicPlanner struct{}

func (panicPlanner) PlanTurn(ctx context.Context, message string) (*types.PlanResult, error) {
	panic("planner exploded")
}

func TestRunTurnSurvivesPanickingPlanner(t *testing.T) {
	registry, err := toolregistry.NewRegistry(toolregistry.Config{})
	if err != nil {
		t.Fatalf("unexpected error creating registry: %v", err)
	}
	orch := New(Config{
		Registry: registry,
		Model:    panicPlanner{},
		Fallback: planner.NewHeuristic(profile.NewMockProvider()),
		Metrics:  MustNewMetrics(prometheus.NewRegistry()),
	})

	result := orch.RunTurn(context.Background(), "Give me 4 flashcards on mitosis")
	if result.Status != types.StatusSuccess {
		t.Fatalf("panic must be contained, got %s (error: %s)", result.Status, result.Error)
	}
	if !result.FallbackUsed {
		t.Fatalf("panicking planner must trigger the fallback")
	}
	if result.ToolName != "flashcard_generator" {
		t.Fatalf("expected flashcard_generator, got %q", result.ToolName)
	}
}

func TestRunTurnTimeoutFallsBack(t *testing.T) {
	client := llm.NewMockClient("test-model", `{"tool_name": "note_maker"}`).WithDelay(200 * time.Millisecond)
	registry, err := toolregistry.NewRegistry(toolregistry.Config{})
	if err != nil {
		t.Fatalf("unexpected error creating registry: %v", err)
	}
	prof := profile.NewMockProvider()
	orch := New(Config{
		Registry: registry,
		Model: planner.NewModel(planner.ModelConfig{
			Client:   client,
			Registry: registry,
			Profile:  prof,
			Timeout:  20 * time.Millisecond,
		}),
		Fallback: planner.NewHeuristic(prof),
		Metrics:  MustNewMetrics(prometheus.NewRegistry()),
	})

	result := orch.RunTurn(context.Background(), "notes on cells")
	if result.Status != types.StatusSuccess {
		t.Fatalf("expected SUCCESS via fallback, got %s (error: %s)", result.Status, result.Error)
	}
	if !result.FallbackUsed {
		t.Fatalf("timeout must trigger the fallback")
	}
	if result.ToolName != "note_maker" {
		t.Fatalf("expected note_maker from heuristic, got %q", result.ToolName)
	}
}
