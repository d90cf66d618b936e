package validation

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-studyform/pkg/model"
)

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures the outcome of a contract check.
type Result struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// ValidateProcedureData checks values against the OpenAPI rendition of
// schema. Values go through their JSON encoding first, so NaN is checked as
// null exactly as the API would receive it.
func ValidateProcedureData(ctx context.Context, schema *model.FormSchema, values model.Values) Result {
	result := Result{Valid: true}
	if err := ctx.Err(); err != nil {
		return Result{Issues: []SchemaIssue{{Message: err.Error()}}}
	}

	payload, err := wireForm(values)
	if err != nil {
		return Result{Issues: []SchemaIssue{{Message: err.Error()}}}
	}

	err = ProcedureDataSchema(schema).VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return result
	}
	result.Valid = false
	result.Issues = issuesFromError(err)
	sort.SliceStable(result.Issues, func(i, j int) bool { return result.Issues[i].Path < result.Issues[j].Path })
	return result
}

func wireForm(values model.Values) (any, error) {
	if values == nil {
		values = model.Values{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func issuesFromError(err error) []SchemaIssue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []SchemaIssue
		for _, inner := range multi {
			out = append(out, issuesFromError(inner)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		field := ""
		if len(pointer) > 0 {
			field = pointer[0]
		}
		// Missing required properties are reported on the parent object.
		if field == "" && strings.HasPrefix(schemaErr.Reason, "property \"") {
			rest := strings.TrimPrefix(schemaErr.Reason, "property \"")
			if idx := strings.Index(rest, "\""); idx > 0 {
				field = rest[:idx]
			}
		}
		path := "/" + strings.Join(pointer, "/")
		if field != "" && len(pointer) == 0 {
			path = "/" + field
		}
		return []SchemaIssue{{
			Path:    path,
			Field:   field,
			Message: strings.TrimSpace(schemaErr.Reason),
		}}
	}

	return []SchemaIssue{{Message: strings.TrimSpace(err.Error())}}
}
