package render

import (
	"strings"

	"github.com/goliatone/go-studyform/pkg/model"
)

// ErrorMapping splits an API error payload into per-field and form-level
// messages.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MapErrorPayload maps server-side messages keyed by path onto schema fields.
// Paths may be bare names, dotted ("procedure_data.weight") or JSON pointers
// ("/procedure_data/weight"). Paths that match no field become form-level
// messages. Multiple messages for one field are joined with "; ".
func MapErrorPayload(schema *model.FormSchema, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	for rawPath, messages := range payload {
		clean := normalizeMessages(messages)
		if len(clean) == 0 {
			continue
		}
		name, ok := fieldForPath(schema, rawPath)
		if !ok {
			mapping.Form = append(mapping.Form, clean...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string]string)
		}
		if prev := mapping.Fields[name]; prev != "" {
			clean = append([]string{prev}, clean...)
		}
		mapping.Fields[name] = strings.Join(clean, "; ")
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func fieldForPath(schema *model.FormSchema, raw string) (string, bool) {
	path := strings.TrimSpace(raw)
	path = strings.TrimPrefix(path, "#")
	path = strings.Trim(path, "/")
	path = strings.ReplaceAll(path, "/", ".")
	if path == "" {
		return "", false
	}
	segments := strings.Split(path, ".")
	last := segments[len(segments)-1]
	if _, ok := schema.Field(last); ok {
		return last, true
	}
	return "", false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
