package coerce

import (
	"encoding/json"
	"strings"
)

// ParseAreas reads a stored area list. JSON arrays decode directly; other
// text falls back to comma separation. Malformed JSON yields an empty list.
func ParseAreas(raw any) []string {
	text, ok := asText(raw)
	if !ok {
		return []string{}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	switch text[0] {
	case '[':
		var items []any
		if err := json.Unmarshal([]byte(text), &items); err != nil {
			return []string{}
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case '{', '"':
		return []string{}
	}

	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func asText(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case []string:
		b, _ := json.Marshal(v)
		return string(b), true
	default:
		return "", false
	}
}
