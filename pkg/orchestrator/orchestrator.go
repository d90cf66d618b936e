package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-studyform/internal/schema/loader"
	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/renderers/html"
	"github.com/goliatone/go-studyform/pkg/schema"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector resolves request themes through selector. Requests that
// already carry RenderOptions.Theme skip resolution.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(o *Orchestrator) {
		o.themes = selector
		o.defaultTheme = defaultTheme
		o.defaultVariant = defaultVariant
	}
}

// Orchestrator coordinates the pipeline from procedure document to rendered
// output. Missing dependencies default to the built-in loader and the HTML
// renderer.
type Orchestrator struct {
	loader          schema.Loader
	registry        *render.Registry
	defaultRenderer string
	themes          theme.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a procedure form.
type Request struct {
	// Source identifies where the procedure document lives. Optional when
	// Document or Procedure is supplied.
	Source schema.Source

	// Document bypasses the loader.
	Document *schema.Document

	// Procedure bypasses loading and decoding.
	Procedure *model.Procedure

	// Renderer names the renderer to use; empty uses the default.
	Renderer string

	// Theme and Variant pick a theme when a selector is configured.
	Theme   string
	Variant string

	RenderOptions render.RenderOptions
}

// Result is a rendered form.
type Result struct {
	Procedure   model.Procedure
	Output      []byte
	ContentType string
}

// Generate renders the requested procedure form.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	procedure, err := o.Procedure(ctx, req)
	if err != nil {
		return Result{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	opts := req.RenderOptions
	if opts.Title == "" {
		opts.Title = procedure.Name
	}
	if opts.Theme == nil && o.themes != nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return Result{}, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, &procedure.FormDataSchema, opts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Result{Procedure: procedure, Output: output, ContentType: renderer.ContentType()}, nil
}

// Procedure resolves and validates the procedure a request points at.
func (o *Orchestrator) Procedure(ctx context.Context, req Request) (model.Procedure, error) {
	var procedure model.Procedure
	switch {
	case req.Procedure != nil:
		procedure = *req.Procedure
	default:
		doc, err := o.resolveDocument(ctx, req)
		if err != nil {
			return model.Procedure{}, err
		}
		procedure, err = schema.DecodeProcedure(doc)
		if err != nil {
			return model.Procedure{}, fmt.Errorf("orchestrator: decode procedure: %w", err)
		}
	}
	if err := procedure.FormDataSchema.Validate(); err != nil {
		return model.Procedure{}, fmt.Errorf("orchestrator: invalid schema: %w", err)
	}
	return procedure, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source, document or procedure is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	name := req.Theme
	if name == "" {
		name = o.defaultTheme
	}
	variant := req.Variant
	if variant == "" {
		variant = o.defaultVariant
	}
	selection, err := o.themes.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return render.ThemeConfig(selection), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", target, err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
