package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errFieldNameMissing = errors.New("model: field name is required")
	errSchemaNil        = errors.New("model: schema is nil")
)

// Validate checks the structural invariants of a schema: names are present
// and unique, kinds are known and only select fields declare options.
func (s *FormSchema) Validate() error {
	if s == nil {
		return errSchemaNil
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w (index %d)", errFieldNameMissing, idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("model: duplicate field name %q", name)
		}
		seen[name] = struct{}{}

		if !field.Kind.Valid() {
			return fmt.Errorf("model: field %q has unknown kind %q", name, field.Kind)
		}
		if field.Kind != FieldKindSelect && len(field.Options) > 0 {
			return fmt.Errorf("model: field %q declares options but is %s", name, field.Kind)
		}
	}
	return nil
}
