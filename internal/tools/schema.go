// Package tools provides the argument schema validator shared by every
// learning tool. ToolArguments (the validated map) are only ever produced
// here; tool Execute implementations can rely on that.
package tools

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"yolearn/internal/agent/ports"
	jsonx "yolearn/internal/shared/json"
)

// FieldError names one offending argument and the reason it was rejected.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError aggregates every field failure for one tool call.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// ValidateArguments checks raw against the tool's declared schema and
// returns a fully-typed argument map. Rules:
//   - required fields must be present
//   - enum values must match one of the declared options (case-sensitive)
//   - numeric bounds reject out-of-range values, they do not clamp
//   - absent optional fields take their declared default, when one exists
//   - unknown extra fields are dropped, not errors
func ValidateArguments(def ports.ToolDefinition, raw map[string]any) (map[string]any, error) {
	verr := &ValidationError{Tool: def.Name}
	validated := make(map[string]any, len(def.Parameters.Properties))

	required := make(map[string]bool, len(def.Parameters.Required))
	for _, name := range def.Parameters.Required {
		required[name] = true
	}

	// Deterministic field order keeps multi-field error messages stable.
	names := make([]string, 0, len(def.Parameters.Properties))
	for name := range def.Parameters.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := def.Parameters.Properties[name]
		value, present := raw[name]
		if !present || value == nil {
			if required[name] {
				verr.Fields = append(verr.Fields, FieldError{Field: name, Reason: "required field missing"})
				continue
			}
			if prop.Default != nil {
				validated[name] = prop.Default
			}
			continue
		}

		typed, reason := coerce(prop, value)
		if reason != "" {
			verr.Fields = append(verr.Fields, FieldError{Field: name, Reason: reason})
			continue
		}
		validated[name] = typed
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return validated, nil
}

// coerce converts value to the property's declared type and checks the
// enum/bounds constraints. Returns a non-empty reason on failure.
func coerce(prop ports.Property, value any) (any, string) {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Sprintf("expected string, got %T", value)
		}
		if len(prop.Enum) > 0 && !containsString(prop.Enum, s) {
			return nil, fmt.Sprintf("value %q not in allowed set [%s]", s, strings.Join(prop.Enum, ", "))
		}
		return s, ""

	case "integer":
		n, ok := asInt(value)
		if !ok {
			return nil, fmt.Sprintf("expected integer, got %v (%T)", value, value)
		}
		if reason := checkBounds(prop, float64(n)); reason != "" {
			return nil, reason
		}
		return n, ""

	case "number":
		f, ok := asFloat(value)
		if !ok {
			return nil, fmt.Sprintf("expected number, got %v (%T)", value, value)
		}
		if reason := checkBounds(prop, f); reason != "" {
			return nil, reason
		}
		return f, ""

	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Sprintf("expected boolean, got %T", value)
		}
		return b, ""

	default:
		// Schemas only declare the four scalar types above; anything else is
		// a registry programming error, not bad input.
		return nil, fmt.Sprintf("unsupported schema type %q", prop.Type)
	}
}

func checkBounds(prop ports.Property, v float64) string {
	if prop.Minimum != nil && v < *prop.Minimum {
		return fmt.Sprintf("value %v below minimum %v", trimFloat(v), trimFloat(*prop.Minimum))
	}
	if prop.Maximum != nil && v > *prop.Maximum {
		return fmt.Sprintf("value %v above maximum %v", trimFloat(v), trimFloat(*prop.Maximum))
	}
	return ""
}

func containsString(set []string, s string) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

// asInt accepts the integer representations JSON decoders produce.
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case jsonx.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case jsonx.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func trimFloat(v float64) any {
	if v == math.Trunc(v) {
		return int(v)
	}
	return v
}
