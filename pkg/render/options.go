package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-studyform/pkg/model"
)

// RenderOptions carries per-request data for a render pass.
type RenderOptions struct {
	// Title is shown above the form; renderers may omit it.
	Title string
	// Action is the submission URL. Empty posts back to the current page.
	Action string
	// Method defaults to POST.
	Method string
	// CancelURL turns the cancel action into a link when set.
	CancelURL string
	// Values pre-populates controls. Number values are written with their
	// shortest decimal form; NaN renders as an empty input.
	Values model.Values
	// Errors holds one message per field, as produced by form validation.
	Errors map[string]string
	// FormErrors are messages not tied to a field.
	FormErrors []string
	// Hidden inputs emitted before the visible fields.
	Hidden map[string]string
	// Theme supplies tokens and CSS variables resolved from a go-theme
	// selection.
	Theme *theme.RendererConfig
}
