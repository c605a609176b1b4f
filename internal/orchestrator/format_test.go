package orchestrator

import (
	"testing"

	"yolearn/pkg/types"
)

func TestFormatTurnSuccessTemplates(t *testing.T) {
	cases := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"note_maker", map[string]any{"topic": "Photosynthesis"}, "📘 Here are your **Photosynthesis** notes (structured). Ready to start?"},
		{"flashcard_generator", map[string]any{"topic": "mitosis", "count": 8}, "🃏 Generated 8 flashcards on mitosis."},
		{"concept_explainer", map[string]any{"concept_to_explain": "gravity"}, "🧠 Explanation for **gravity** ready!"},
		{"custom_tool", nil, "✅ Tool custom_tool executed successfully."},
	}
	for _, tc := range cases {
		state := &types.TurnState{
			ToolName: tc.tool,
			ToolArgs: tc.args,
			Status:   types.StatusToolSuccess,
		}
		formatTurn(state)
		if state.Status != types.StatusSuccess {
			t.Fatalf("%s: expected SUCCESS, got %s", tc.tool, state.Status)
		}
		if state.FinalResponse != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.tool, tc.want, state.FinalResponse)
		}
	}
}

func TestFormatTurnFlashcardCountFallback(t *testing.T) {
	state := &types.TurnState{
		ToolName: "flashcard_generator",
		ToolArgs: map[string]any{"topic": "mitosis"},
		Status:   types.StatusToolSuccess,
	}
	formatTurn(state)
	if state.FinalResponse != "🃏 Generated 5 flashcards on mitosis." {
		t.Fatalf("missing count should fall back to 5: %q", state.FinalResponse)
	}
}

func TestFormatTurnNoTool(t *testing.T) {
	state := &types.TurnState{Status: types.StatusNoTool}
	formatTurn(state)
	if state.Status != types.StatusNoTool {
		t.Fatalf("NO_TOOL must stay terminal, got %s", state.Status)
	}
	if state.FinalResponse != "⚠️ Unable to determine a suitable tool." {
		t.Fatalf("unexpected response: %q", state.FinalResponse)
	}
}

func TestFormatTurnLeavesErrorMessagesAlone(t *testing.T) {
	for _, status := range []types.TurnStatus{types.StatusToolError, types.StatusUnknownTool} {
		state := &types.TurnState{Status: status, FinalResponse: "❌ already set"}
		formatTurn(state)
		if state.Status != status {
			t.Fatalf("%s must stay terminal, got %s", status, state.Status)
		}
		if state.FinalResponse != "❌ already set" {
			t.Fatalf("%s: message must not be rewritten: %q", status, state.FinalResponse)
		}
	}
}

func TestFormatTurnUnexpectedStatusGetsFallbackMessage(t *testing.T) {
	state := &types.TurnState{Status: types.StatusFoundTool}
	formatTurn(state)
	if state.FinalResponse != "⚠️ Could not complete request." {
		t.Fatalf("unexpected response: %q", state.FinalResponse)
	}
}
