package html

import (
	"io/fs"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-studyform/pkg/render/template"
)

// Option configures the HTML renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine. The engine must resolve
// the configured template name.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplatesFS loads templates from files instead of the bundled set.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.templates = files
		}
	}
}

// WithTemplate overrides the template name ("templates/form.tmpl").
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.template = name
		}
	}
}

// WithPolicy replaces the policy applied to schema supplied text.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// WithLabels overrides the action button captions.
func WithLabels(submit, cancel string) Option {
	return func(r *Renderer) {
		if submit != "" {
			r.submitLabel = submit
		}
		if cancel != "" {
			r.cancelLabel = cancel
		}
	}
}
