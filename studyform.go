// Package studyform renders and validates procedure data capture forms for
// clinical research scheduling, and converts event times between UTC and the
// site timezone.
//
// Most callers start with GenerateHTML or NewOrchestrator; the pkg/ packages
// expose the form engine, timezone utilities, sticky defaults and
// scheduling helpers individually.
package studyform

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-studyform/internal/schema/loader"
	"github.com/goliatone/go-studyform/pkg/orchestrator"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/renderers/html"
	"github.com/goliatone/go-studyform/pkg/schema"
)

// RenderOptions describes per-request values, errors and hidden inputs.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the procedure document at source and renders its form
// with the HTML renderer.
func GenerateHTML(ctx context.Context, source schema.Source, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:        source,
		Renderer:      html.Name,
		RenderOptions: opts,
	})
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, defaultTheme, defaultVariant)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can
// extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet the clinic theme links to.
//
// Typical mount:
//
//	mux.Handle("/assets/studyform/",
//	  http.StripPrefix("/assets/studyform/",
//	    http.FileServerFS(studyform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
