package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-studyform/pkg/model"
)

// ErrNoFields is returned when a document declares no form fields.
var ErrNoFields = errors.New("schema: document declares no fields")

// DecodeProcedure reads a procedure document. Three shapes are accepted: a
// full procedure object with form_data_schema, a bare {"fields": [...]}
// schema, or a bare field array. The decoded schema is validated.
func DecodeProcedure(doc Document) (model.Procedure, error) {
	raw, err := toJSON(doc)
	if err != nil {
		return model.Procedure{}, err
	}

	var procedure model.Procedure
	switch {
	case bytes.HasPrefix(raw, []byte("[")):
		if err := json.Unmarshal(raw, &procedure.FormDataSchema.Fields); err != nil {
			return model.Procedure{}, decodeErr(doc, err)
		}
	default:
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			return model.Procedure{}, decodeErr(doc, err)
		}
		if _, ok := probe["form_data_schema"]; ok {
			if err := json.Unmarshal(raw, &procedure); err != nil {
				return model.Procedure{}, decodeErr(doc, err)
			}
		} else if err := json.Unmarshal(raw, &procedure.FormDataSchema); err != nil {
			return model.Procedure{}, decodeErr(doc, err)
		}
	}

	if len(procedure.FormDataSchema.Fields) == 0 {
		return model.Procedure{}, fmt.Errorf("%w (%s)", ErrNoFields, doc.Location())
	}
	if err := procedure.FormDataSchema.Validate(); err != nil {
		return model.Procedure{}, fmt.Errorf("schema: %s: %w", doc.Location(), err)
	}
	return procedure, nil
}

// DecodeFormSchema is DecodeProcedure returning only the form schema.
func DecodeFormSchema(doc Document) (*model.FormSchema, error) {
	procedure, err := DecodeProcedure(doc)
	if err != nil {
		return nil, err
	}
	schema := procedure.FormDataSchema
	return &schema, nil
}

// DecodeValues reads a JSON or YAML mapping of field values, used to seed a
// form with previously captured data. Numbers decode as float64.
func DecodeValues(doc Document) (model.Values, error) {
	raw, err := toJSON(doc)
	if err != nil {
		return nil, err
	}
	var values model.Values
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, decodeErr(doc, err)
	}
	if values == nil {
		values = model.Values{}
	}
	return values, nil
}

// toJSON normalises YAML input to JSON so a single set of decoders (and the
// strict field kind check) applies to both encodings.
func toJSON(doc Document) ([]byte, error) {
	raw := bytes.TrimSpace(doc.Raw())
	if doc.Format() == FormatJSON {
		return raw, nil
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, decodeErr(doc, err)
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return nil, decodeErr(doc, err)
	}
	return out, nil
}

func decodeErr(doc Document, err error) error {
	return fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
}
