package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractJSON strips markdown code fences and stray backticks around a JSON payload.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```JSON")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Models sometimes wrap the object in prose; keep the outermost braces.
	if !strings.HasPrefix(raw, "{") && !strings.HasPrefix(raw, "[") {
		start := strings.IndexAny(raw, "{[")
		end := strings.LastIndexAny(raw, "}]")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}

	return raw
}

// DecodeObject extracts and decodes a JSON object from raw model output.
func DecodeObject(raw string) (map[string]any, error) {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse json response: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("response is not a json object")
	}

	return data, nil
}

// CoerceFloat reads numbers that may arrive as JSON numbers or numeric strings.
// Anything else yields NaN.
func CoerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// CoerceString renders v as a trimmed string, marshalling non-string values.
func CoerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// CoerceStrings reads a list of strings, dropping blanks. A single string becomes a
// one-element list. The result is never nil.
func CoerceStrings(v any) []string {
	out := make([]string, 0)
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := CoerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	}
	return out
}
