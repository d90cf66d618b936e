package validation

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-studyform/pkg/model"
)

const datePattern = `^\d{4}-\d{2}-\d{2}$`

// ProcedureDataSchema converts a form schema into the object schema of its
// procedure_data payload. Optional fields accept null and "" so an untouched
// field validates the same way it does in the form engine.
func ProcedureDataSchema(schema *model.FormSchema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	if schema == nil {
		return out
	}
	for _, field := range schema.Fields {
		prop := fieldSchema(field)
		out.WithProperty(field.Name, prop)
		if field.Required {
			out.Required = append(out.Required, field.Name)
		}
	}
	return out
}

func fieldSchema(field model.Field) *openapi3.Schema {
	var prop *openapi3.Schema
	switch field.Kind {
	case model.FieldKindNumber:
		prop = openapi3.NewFloat64Schema()
	case model.FieldKindDate:
		prop = openapi3.NewStringSchema()
		if field.Required {
			prop.Format = "date"
			prop.Pattern = datePattern
		} else {
			prop.Pattern = `^(\d{4}-\d{2}-\d{2})?$`
		}
	case model.FieldKindSelect:
		prop = openapi3.NewStringSchema()
		enum := make([]any, 0, len(field.Options)+1)
		if !field.Required {
			enum = append(enum, "")
		}
		for _, option := range field.Options {
			enum = append(enum, option)
		}
		prop.Enum = enum
	case model.FieldKindText:
		prop = openapi3.NewStringSchema()
	default:
		prop = openapi3.NewStringSchema()
	}

	prop.Title = field.DisplayLabel()
	if field.Placeholder != "" {
		prop.Description = field.Placeholder
	}
	switch {
	case field.Required && field.Kind != model.FieldKindNumber:
		prop.MinLength = 1
	case !field.Required:
		prop.Nullable = true
	}
	return prop
}

// EventSchema describes the event payload carrying procedure data for
// procedure.
func EventSchema(procedure model.Procedure) *openapi3.Schema {
	status := openapi3.NewStringSchema()
	status.Enum = []any{
		string(model.EventStatusPending),
		string(model.EventStatusCompleted),
		string(model.EventStatusCancelled),
		string(model.EventStatusNoShow),
	}

	data := ProcedureDataSchema(&procedure.FormDataSchema)

	out := openapi3.NewObjectSchema().
		WithProperty("study_id", openapi3.NewUUIDSchema()).
		WithProperty("subject_id", openapi3.NewUUIDSchema()).
		WithProperty("procedure_id", openapi3.NewUUIDSchema()).
		WithProperty("start_datetime", openapi3.NewDateTimeSchema()).
		WithProperty("end_datetime", openapi3.NewDateTimeSchema()).
		WithProperty("status", status).
		WithProperty("notes", openapi3.NewStringSchema()).
		WithProperty("procedure_data", data)
	out.Required = []string{"study_id", "subject_id", "procedure_id", "start_datetime", "status"}
	if procedure.Name != "" {
		out.Title = procedure.Name
	}
	return out
}

// Document builds an OpenAPI document with one ProcedureData and Event
// component per procedure and a POST operation per procedure accepting the
// event payload.
func Document(title, version string, procedures []model.Procedure) *openapi3.T {
	if title == "" {
		title = "studyform procedures"
	}
	if version == "" {
		version = "1.0.0"
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}

	sorted := append([]model.Procedure(nil), procedures...)
	sort.SliceStable(sorted, func(i, j int) bool { return componentName(sorted[i]) < componentName(sorted[j]) })

	for _, procedure := range sorted {
		name := componentName(procedure)
		dataName := name + "Data"
		eventName := name + "Event"

		doc.Components.Schemas[dataName] = openapi3.NewSchemaRef("", ProcedureDataSchema(&procedure.FormDataSchema))
		doc.Components.Schemas[eventName] = openapi3.NewSchemaRef("", EventSchema(procedure))

		ref := openapi3.NewSchemaRef("#/components/schemas/"+eventName, nil)
		body := openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref)
		op := openapi3.NewOperation()
		op.OperationID = "record" + name
		op.Summary = fmt.Sprintf("Record %s", procedureLabel(procedure))
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
		op.Responses = openapi3.NewResponses()

		doc.Paths.Set(fmt.Sprintf("/procedures/%s/events", procedurePathID(procedure)), &openapi3.PathItem{Post: op})
	}
	return doc
}

func componentName(p model.Procedure) string {
	base := p.RefCode
	if base == "" {
		base = p.Name
	}
	if base == "" {
		base = p.ID.String()
	}
	return pascal(base)
}

func procedureLabel(p model.Procedure) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID.String()
}

func procedurePathID(p model.Procedure) string {
	if p.RefCode != "" {
		return p.RefCode
	}
	return p.ID.String()
}

func pascal(s string) string {
	out := make([]rune, 0, len(s))
	upper := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			if upper {
				r -= 'a' - 'A'
			}
			out = append(out, r)
			upper = false
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			out = append(out, r)
			upper = false
		default:
			upper = true
		}
	}
	if len(out) == 0 {
		return "Procedure"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "P" + string(out)
	}
	return string(out)
}
