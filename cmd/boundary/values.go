package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/boundary/tagset"
	"github.com/wippyai/boundary/value"
)

// parseLiteral reads a YAML literal into a boundary value. Integers become
// int, floats float64, mappings map[string]any and sequences []any.
func parseLiteral(text string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("parse value %q: %w", text, err)
	}
	return normalize(v)
}

// normalize rewrites yaml.v3 output so every mapping has string keys.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			x[k] = n
		}
		return x, nil
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("map key %v is not a string", k)
			}
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		for i, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			x[i] = n
		}
		return x, nil
	default:
		return v, nil
	}
}

// render converts a decoded value into something yaml.v3 prints readably.
func render(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return hex.EncodeToString(x)
	case value.TypedArray:
		return map[string]any{"kind": x.Kind.String(), "data": hex.EncodeToString(x.Data)}
	case value.ObjectRef:
		return map[string]any{"object": x.Handle}
	case value.FunctionRef:
		return map[string]any{"function": x.Handle}
	case value.JSValue:
		return map[string]any{"js_value": render(x.V)}
	case value.ViewTag:
		return int32(x)
	case value.SharedObjectID:
		return uint32(x)
	case value.ReadableArray:
		return render([]any(x))
	case value.ReadableMap:
		return render(map[string]any(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = render(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = render(e)
		}
		return out
	default:
		return v
	}
}

// renderYAML prints a decoded value as a YAML document without the
// trailing newline.
func renderYAML(v any) (string, error) {
	out, err := yaml.Marshal(render(v))
	if err != nil {
		return "", fmt.Errorf("render value: %w", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// formatBytes writes data in the named byte format.
func formatBytes(data []byte, format string) string {
	if format == "base64" {
		return base64.StdEncoding.EncodeToString(data)
	}
	return hex.EncodeToString(data)
}

// parseBytes reads data in the named byte format. Hex input may contain
// whitespace and an optional 0x prefix.
func parseBytes(text, format string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if format == "base64" {
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("invalid base64: %w", err)
		}
		return data, nil
	}

	text = strings.TrimPrefix(strings.ToLower(text), "0x")
	text = strings.Join(strings.Fields(text), "")
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// tagNames lists every tag name in bit order, for help text.
func tagNames() string {
	names := make([]string, 0, len(tagset.All()))
	for _, t := range tagset.All() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
