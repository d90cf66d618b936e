package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FieldKind is the closed set of input kinds a procedure form can declare.
type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindNumber FieldKind = "number"
	FieldKindDate   FieldKind = "date"
	FieldKindSelect FieldKind = "select"
)

// FieldKinds lists every supported kind in declaration order.
func FieldKinds() []FieldKind {
	return []FieldKind{FieldKindText, FieldKindNumber, FieldKindDate, FieldKindSelect}
}

// ParseFieldKind normalises raw and rejects anything outside the enumeration.
func ParseFieldKind(raw string) (FieldKind, error) {
	kind := FieldKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("model: unknown field kind %q", raw)
	}
	return kind, nil
}

// Valid reports whether k is one of the declared kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindNumber, FieldKindDate, FieldKindSelect:
		return true
	default:
		return false
	}
}

// InputType maps the kind onto the HTML input type used by markup renderers.
// Select fields return "select"; they are not rendered as <input>.
func (k FieldKind) InputType() string {
	switch k {
	case FieldKindText:
		return "text"
	case FieldKindNumber:
		return "number"
	case FieldKindDate:
		return "date"
	case FieldKindSelect:
		return "select"
	default:
		return ""
	}
}

func (k FieldKind) String() string { return string(k) }

// UnmarshalJSON rejects unknown kinds so a misspelt schema fails loudly
// instead of rendering as a plain text box.
func (k *FieldKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: field kind must be a string: %w", err)
	}
	parsed, err := ParseFieldKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Field describes one editable input of a procedure form. The kind is stored
// under the "type" key to stay compatible with persisted form_data_schema
// documents.
type Field struct {
	Name        string    `json:"name"`
	Kind        FieldKind `json:"type"`
	Label       string    `json:"label"`
	Required    bool      `json:"required,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// FormSchema is the ordered field list attached to a procedure.
type FormSchema struct {
	Fields []Field `json:"fields"`
}

// Field returns the field declared under name.
func (s *FormSchema) Field(name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in schema order.
func (s *FormSchema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		out = append(out, field.Name)
	}
	return out
}

// Values holds the captured data of a form keyed by field name. Values are
// strings, float64 numbers or nil.
type Values map[string]any

// Clone returns a shallow copy; nil stays nil.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// MarshalJSON encodes non-finite numbers as null, which is what a browser
// client sends for NaN.
func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(v))
	for key, value := range v {
		if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			out[key] = nil
			continue
		}
		out[key] = value
	}
	return json.Marshal(out)
}
