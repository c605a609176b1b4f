package parser

import (
	"errors"
	"testing"
)

func TestDecodePlanPlainObject(t *testing.T) {
	p := New()
	call, err := p.DecodePlan(`{"tool_name": "note_maker", "tool_args": {"topic": "cells"}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Name != "note_maker" {
		t.Fatalf("expected note_maker, got %q", call.Name)
	}
	if call.Arguments["topic"] != "cells" {
		t.Fatalf("arguments not decoded: %v", call.Arguments)
	}
}

func TestDecodePlanStripsCodeFences(t *testing.T) {
	p := New()
	content := "```json\n{\"tool_name\": \"flashcard_generator\", \"tool_args\": {\"count\": 5}}\n```"
	call, err := p.DecodePlan(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Name != "flashcard_generator" {
		t.Fatalf("expected flashcard_generator, got %q", call.Name)
	}
}

func TestDecodePlanKeyVariants(t *testing.T) {
	p := New()
	cases := []struct {
		content string
		name    string
		argKey  string
	}{
		{`{"tool": "note_maker", "args": {"topic": "cells"}}`, "note_maker", "topic"},
		{`{"name": "concept_explainer", "tool_input": {"concept_to_explain": "osmosis"}}`, "concept_explainer", "concept_to_explain"},
		{`{"tool_name": "flashcard_generator", "parameters": {"count": 4}}`, "flashcard_generator", "count"},
	}
	for _, tc := range cases {
		call, err := p.DecodePlan(tc.content)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.content, err)
		}
		if call.Name != tc.name {
			t.Fatalf("%s: expected %q, got %q", tc.content, tc.name, call.Name)
		}
		if _, ok := call.Arguments[tc.argKey]; !ok {
			t.Fatalf("%s: argument %q missing: %v", tc.content, tc.argKey, call.Arguments)
		}
	}
}

func TestDecodePlanExplicitKeyWins(t *testing.T) {
	p := New()
	call, err := p.DecodePlan(`{"tool_name": "note_maker", "name": "flashcard_generator"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Name != "note_maker" {
		t.Fatalf("tool_name must take precedence over name, got %q", call.Name)
	}
}

func TestDecodePlanObjectEmbeddedInProse(t *testing.T) {
	p := New()
	content := `Sure! Here is the call: {"tool_name": "note_maker", "tool_args": {"topic": "cells"}} Hope that helps.`
	call, err := p.DecodePlan(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Name != "note_maker" {
		t.Fatalf("expected note_maker, got %q", call.Name)
	}
}

func TestDecodePlanRepairsTruncatedJSON(t *testing.T) {
	p := New()
	call, err := p.DecodePlan(`{"tool_name": "note_maker", "tool_args": {"topic": "cells"`)
	if err != nil {
		t.Fatalf("expected repair to recover truncated JSON: %v", err)
	}
	if call.Name != "note_maker" {
		t.Fatalf("expected note_maker, got %q", call.Name)
	}
}

func TestDecodePlanMissingToolName(t *testing.T) {
	p := New()
	if _, err := p.DecodePlan(`{"tool_args": {"topic": "cells"}}`); !errors.Is(err, ErrNoToolCall) {
		t.Fatalf("object without a tool name must yield ErrNoToolCall, got %v", err)
	}
}

func TestDecodePlanGarbage(t *testing.T) {
	p := New()
	for _, content := range []string{"", "   ", "asdkjasd", "I cannot decide on a tool."} {
		if _, err := p.DecodePlan(content); !errors.Is(err, ErrNoToolCall) {
			t.Fatalf("%q: expected ErrNoToolCall, got %v", content, err)
		}
	}
}

func TestDecodeArguments(t *testing.T) {
	p := New()

	args, err := p.DecodeArguments(`{"count": 5, "topic": "cells"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args["topic"] != "cells" {
		t.Fatalf("arguments not decoded: %v", args)
	}

	empty, err := p.DecodeArguments("  ")
	if err != nil {
		t.Fatalf("empty input must not fail: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty map, got %v", empty)
	}
}

func TestDecodeArgumentsRepairsSingleQuotes(t *testing.T) {
	p := New()
	args, err := p.DecodeArguments(`{'topic': 'cells'}`)
	if err != nil {
		t.Fatalf("expected repair to handle single quotes: %v", err)
	}
	if args["topic"] != "cells" {
		t.Fatalf("arguments not decoded: %v", args)
	}
}
