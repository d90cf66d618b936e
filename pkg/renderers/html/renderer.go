package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/render/template"
	"github.com/goliatone/go-studyform/pkg/render/template/pongo"
)

const (
	// Name identifies the renderer in a render.Registry.
	Name = "html"
	// DefaultTemplate is the bundled form template.
	DefaultTemplate = "templates/form.tmpl"
	// TemplatePartial is the theme partial key that overrides DefaultTemplate.
	TemplatePartial = "forms.form"
	// ActionField carries which button submitted the form.
	ActionField = "_action"
	// CancelAction is the ActionField value posted by the cancel button.
	CancelAction = "cancel"
	// SelectPlaceholder is the empty first option of every select.
	SelectPlaceholder = "Select an option"
)

var (
	strictPolicy     *bluemonday.Policy
	strictPolicyOnce sync.Once
)

func defaultPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Renderer produces an HTML <form> for a procedure schema.
type Renderer struct {
	engine      template.TemplateRenderer
	templates   fs.FS
	template    string
	policy      *bluemonday.Policy
	submitLabel string
	cancelLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer with the bundled pongo2 templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		templates:   TemplatesFS(),
		template:    DefaultTemplate,
		policy:      defaultPolicy(),
		submitLabel: "Save Data",
		cancelLabel: "Cancel",
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := pongo.New(pongo.WithFS(r.templates))
		if err != nil {
			return nil, fmt.Errorf("html: configure templates: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render writes the form markup. Labels, placeholders and option captions
// pass through the sanitising policy; values and errors are escaped by the
// template engine.
func (r *Renderer) Render(ctx context.Context, schema *model.FormSchema, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, errors.New("html: schema is nil")
	}

	name := r.template
	if options.Theme != nil {
		if partial := strings.TrimSpace(options.Theme.Partials[TemplatePartial]); partial != "" {
			name = partial
		}
	}

	out, err := r.engine.RenderTemplate(name, r.view(schema, options))
	if err != nil {
		return nil, fmt.Errorf("html: render %q: %w", name, err)
	}
	return []byte(out), nil
}

func (r *Renderer) view(schema *model.FormSchema, options render.RenderOptions) map[string]any {
	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = "POST"
	}

	fields := make([]map[string]any, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		fields = append(fields, r.fieldView(field, options))
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, h := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	view := map[string]any{
		"title":         options.Title,
		"action":        options.Action,
		"method":        method,
		"cancel_url":    options.CancelURL,
		"action_field":  ActionField,
		"cancel_action": CancelAction,
		"submit_label":  r.submitLabel,
		"cancel_label":  r.cancelLabel,
		"placeholder":   SelectPlaceholder,
		"form_errors":   options.FormErrors,
		"hidden_fields": hidden,
		"fields":        fields,
	}
	if cfg := options.Theme; cfg != nil {
		view["theme"] = cfg.Theme
		view["variant"] = cfg.Variant
		view["style"] = render.CSSVarsStyle(cfg)
		if cfg.AssetURL != nil {
			view["stylesheet"] = cfg.AssetURL("stylesheet")
		}
	}
	return view
}

func (r *Renderer) fieldView(field model.Field, options render.RenderOptions) map[string]any {
	current := formatValue(options.Values[field.Name])

	view := map[string]any{
		"id":          "field-" + field.Name,
		"name":        field.Name,
		"kind":        field.Kind.String(),
		"input_type":  field.Kind.InputType(),
		"label":       r.policy.Sanitize(field.DisplayLabel()),
		"placeholder": r.policy.Sanitize(field.Placeholder),
		"required":    field.Required,
		"value":       current,
		"error":       options.Errors[field.Name],
	}

	if field.Kind == model.FieldKindSelect {
		opts := make([]map[string]any, 0, len(field.Options))
		for _, option := range field.Options {
			opts = append(opts, map[string]any{
				"value":    option,
				"label":    r.policy.Sanitize(option),
				"selected": option == current && current != "",
			})
		}
		view["options"] = opts
	}
	return view
}

// formatValue writes a stored value back into an input. Numbers use their
// shortest decimal form and NaN becomes an empty input.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		if !v {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(v)
	}
}
