package form

import (
	"fmt"
	"math"

	"github.com/goliatone/go-studyform/pkg/model"
)

// Validate checks values against schema and returns one message per failing
// field. The map is empty when everything passes. Fields are visited in
// schema order; the zero number always satisfies a required check.
func Validate(schema *model.FormSchema, values model.Values) map[string]string {
	return validate(schema, values, false)
}

func validate(schema *model.FormSchema, values model.Values, strict bool) map[string]string {
	errs := make(map[string]string)
	if schema == nil {
		return errs
	}
	for _, field := range schema.Fields {
		value, ok := values[field.Name]
		if field.Required && (!ok || IsMissing(value)) {
			errs[field.Name] = RequiredMessage(field)
			continue
		}
		if strict && field.Kind == model.FieldKindNumber && ok && value != nil {
			if !isFiniteNumber(value) {
				errs[field.Name] = fmt.Sprintf("%s must be a number", field.DisplayLabel())
			}
		}
	}
	return errs
}

// RequiredMessage renders the message reported for an empty required field.
func RequiredMessage(field model.Field) string {
	return fmt.Sprintf("%s is required", field.DisplayLabel())
}

// IsMissing reports whether value counts as empty for a required field:
// nil, the empty string, NaN and false. Numeric zero is present.
func IsMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case bool:
		return !v
	default:
		return false
	}
}

func isFiniteNumber(value any) bool {
	switch v := value.(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
