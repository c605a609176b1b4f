// Package parser decodes language-model output into a single tool call.
// Model output is untrusted: it may be a clean JSON object, JSON wrapped in
// markdown code fences, JSON with trailing prose, or truncated/malformed
// JSON. The decode policy is fixed: strip fences, parse, repair, extract —
// first success wins.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"yolearn/internal/agent/ports"
	jsonx "yolearn/internal/shared/json"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNoToolCall is returned when the model output contains no recognizable
// structured tool selection. The caller treats this as a recoverable planning
// failure.
var ErrNoToolCall = errors.New("no structured tool call produced")

// Key variants observed across providers. Order matters: the most explicit
// spelling wins.
var (
	nameKeys = []string{"tool_name", "tool", "name"}
	argKeys  = []string{"tool_args", "args", "tool_input", "parameters"}
)

var codeFenceRe = regexp.MustCompile("(?i)```(?:json)?")

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// DecodePlan extracts one (tool name, argument map) pair from free-form model
// text. Returns ErrNoToolCall when no tool name can be recovered.
func (p *Parser) DecodePlan(content string) (*ports.ToolCall, error) {
	cleaned := stripCodeFences(content)
	if cleaned == "" {
		return nil, ErrNoToolCall
	}

	parsed, err := parseObject(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoToolCall, err)
	}

	name, args := extractToolCall(parsed)
	if name == "" {
		return nil, ErrNoToolCall
	}
	return &ports.ToolCall{Name: name, Arguments: args}, nil
}

// DecodeArguments parses a provider-native JSON argument string, repairing
// malformed JSON when necessary. An empty string yields an empty map.
func (p *Parser) DecodeArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := jsonx.Unmarshal([]byte(raw), &args); err == nil {
		return args, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if err := jsonx.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, fmt.Errorf("arguments unparseable after repair: %w", err)
	}
	return args, nil
}

// stripCodeFences removes markdown code fence markers (triple backticks with
// an optional json language tag) and surrounding whitespace.
func stripCodeFences(content string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(content, ""))
}

// parseObject decodes text into a JSON object, trying progressively more
// forgiving strategies: direct parse, jsonrepair, then parse of the outermost
// brace-delimited span (models sometimes prefix JSON with prose).
func parseObject(text string) (map[string]any, error) {
	var parsed map[string]any
	if err := jsonx.Unmarshal([]byte(text), &parsed); err == nil {
		return parsed, nil
	}

	if repaired, err := jsonrepair.JSONRepair(text); err == nil {
		if err := jsonx.Unmarshal([]byte(repaired), &parsed); err == nil {
			return parsed, nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, errors.New("no JSON object found")
	}
	span := text[start : end+1]
	if err := jsonx.Unmarshal([]byte(span), &parsed); err == nil {
		return parsed, nil
	}
	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil {
		return nil, fmt.Errorf("JSON repair failed: %w", err)
	}
	if err := jsonx.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, fmt.Errorf("unparseable after repair: %w", err)
	}
	return parsed, nil
}

// extractToolCall pulls the tool name and argument map out of a decoded
// object, accepting every key variant. Missing arguments default to an
// empty map.
func extractToolCall(parsed map[string]any) (string, map[string]any) {
	var name string
	for _, key := range nameKeys {
		if s, ok := parsed[key].(string); ok && strings.TrimSpace(s) != "" {
			name = strings.TrimSpace(s)
			break
		}
	}

	args := map[string]any{}
	for _, key := range argKeys {
		if m, ok := parsed[key].(map[string]any); ok {
			args = m
			break
		}
	}
	return name, args
}
