package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-studyform/pkg/form"
	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/sticky"
)

const (
	// Name identifies the renderer in a render.Registry.
	Name = "tui"
	// DefaultStickyForm namespaces remembered answers when no form name is set.
	DefaultStickyForm = "procedure"
	// noneOption stands for the unselected value of a select prompt.
	noneOption = "Select an option"
	dateLayout = "2006-01-02"
)

// Renderer implements render.Renderer for terminal-driven sessions: it walks
// the schema through a PromptDriver, confirms the save and returns the
// submitted values.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	store        sticky.Store
	formName     string
	strict       bool
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		formName:     DefaultStickyForm,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs an interactive session. Declining the save returns
// ErrCancelled; failed validation lists the errors and prompts again for the
// failing fields only.
func (r *Renderer) Render(ctx context.Context, schema *model.FormSchema, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, errors.New("tui: schema is nil")
	}

	var submitted model.Values
	formOpts := []form.Option{
		form.WithSubmit(func(values model.Values) { submitted = values }),
	}
	if r.strict {
		formOpts = append(formOpts, form.WithStrictNumbers())
	}
	f := form.New(schema, opts.Values, formOpts...)

	if opts.Title != "" {
		if err := r.info(ctx, opts.Title); err != nil {
			return nil, err
		}
	}
	for _, message := range opts.FormErrors {
		if err := r.errorf(ctx, "%s", message); err != nil {
			return nil, err
		}
	}

	pending := schema.Names()
	for {
		for _, name := range pending {
			field, _ := schema.Field(name)
			if msg := opts.Errors[name]; msg != "" {
				if err := r.errorf(ctx, "%s", msg); err != nil {
					return nil, err
				}
			}
			if err := r.promptField(ctx, f, field); err != nil {
				return nil, err
			}
		}

		save, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Save Data?", Default: true})
		if err != nil {
			return nil, err
		}
		if !save {
			f.Cancel()
			return nil, ErrCancelled
		}

		if f.Submit() {
			break
		}
		pending = pending[:0]
		for _, field := range schema.Fields {
			if msg := f.Error(field.Name); msg != "" {
				if err := r.errorf(ctx, "%s", msg); err != nil {
					return nil, err
				}
				pending = append(pending, field.Name)
			}
		}
		opts.Errors = nil
	}

	if err := r.remember(ctx, schema, submitted); err != nil {
		return nil, err
	}
	return r.serialize(schema, submitted)
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field model.Field) error {
	current, err := r.defaultValue(ctx, f, field)
	if err != nil {
		return err
	}
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}

	switch field.Kind {
	case model.FieldKindSelect:
		return r.promptSelect(ctx, f, field, label, current)
	case model.FieldKindNumber:
		return r.promptNumber(ctx, f, field, label, current)
	case model.FieldKindDate:
		return r.promptDate(ctx, f, field, label, current)
	case model.FieldKindText:
		return r.promptText(ctx, f, field, label, current)
	default:
		return fmt.Errorf("tui: field %q has unknown kind %q", field.Name, field.Kind)
	}
}

func (r *Renderer) promptText(ctx context.Context, f *form.Form, field model.Field, label, current string) error {
	response, err := r.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: field.Placeholder})
	if err != nil {
		return err
	}
	return f.Input(field.Name, response)
}

func (r *Renderer) promptNumber(ctx context.Context, f *form.Form, field model.Field, label, current string) error {
	return r.promptChecked(ctx, f, field, InputConfig{Message: label, Default: current, Help: field.Placeholder}, checkNumber)
}

func (r *Renderer) promptDate(ctx context.Context, f *form.Form, field model.Field, label, current string) error {
	help := field.Placeholder
	if help == "" {
		help = "YYYY-MM-DD"
	}
	return r.promptChecked(ctx, f, field, InputConfig{Message: label, Default: current, Help: help}, checkDate)
}

// promptChecked asks until check accepts the trimmed answer. Empty answers
// always pass; required fields are enforced on submit.
func (r *Renderer) promptChecked(ctx context.Context, f *form.Form, field model.Field, cfg InputConfig, check func(string) error) error {
	cfg.Validate = func(answer string) error {
		if trimmed := strings.TrimSpace(answer); trimmed != "" {
			return check(trimmed)
		}
		return nil
	}
	for {
		response, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(response)
		if err := cfg.Validate(trimmed); err != nil {
			if err := r.errorf(ctx, "Invalid %s: %v", field.Name, err); err != nil {
				return err
			}
			continue
		}
		return f.Input(field.Name, trimmed)
	}
}

func checkNumber(answer string) error {
	if math.IsNaN(form.ParseNumber(answer)) {
		return errNotANumber
	}
	return nil
}

func checkDate(answer string) error {
	if _, err := time.Parse(dateLayout, answer); err != nil {
		return errNotADate
	}
	return nil
}

func (r *Renderer) promptSelect(ctx context.Context, f *form.Form, field model.Field, label, current string) error {
	options := make([]string, 0, len(field.Options)+1)
	options = append(options, noneOption)
	options = append(options, field.Options...)

	defaultIdx := 0
	for i, option := range field.Options {
		if option == current {
			defaultIdx = i + 1
			break
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: defaultIdx, Help: field.Placeholder})
	if err != nil {
		return err
	}
	value := ""
	if idx > 0 && idx < len(options) {
		value = options[idx]
	}
	return f.Input(field.Name, value)
}

// defaultValue prefers the value already held by the form, then a remembered
// answer.
func (r *Renderer) defaultValue(ctx context.Context, f *form.Form, field model.Field) (string, error) {
	if value, ok := f.Value(field.Name); ok && !form.IsMissing(value) {
		return stringify(value), nil
	}
	if r.store == nil {
		return "", nil
	}
	value, ok, err := r.store.Get(ctx, r.formName, field.Name)
	if err != nil {
		return "", fmt.Errorf("tui: sticky default for %q: %w", field.Name, err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

func (r *Renderer) remember(ctx context.Context, schema *model.FormSchema, values model.Values) error {
	if r.store == nil {
		return nil
	}
	for _, field := range schema.Fields {
		value, ok := values[field.Name]
		if !ok || form.IsMissing(value) {
			continue
		}
		if err := r.store.Set(ctx, r.formName, field.Name, stringify(value)); err != nil {
			return fmt.Errorf("tui: remember %q: %w", field.Name, err)
		}
	}
	return nil
}

func (r *Renderer) serialize(schema *model.FormSchema, values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for _, field := range schema.Fields {
			encoded.Set(field.Name, stringify(values[field.Name]))
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(schema, values)), nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return append(out, '\n'), nil
	}
}

func prettyPrint(schema *model.FormSchema, values model.Values) string {
	var b strings.Builder
	for _, field := range schema.Fields {
		value := stringify(values[field.Name])
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", field.DisplayLabel(), value)
	}
	return b.String()
}

func stringify(value any) string {
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
	default:
		return fmt.Sprint(v)
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}
