package render

import (
	"context"

	"github.com/goliatone/go-studyform/pkg/model"
)

// Renderer turns a procedure form schema into an output representation
// (HTML markup, a terminal session transcript, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema *model.FormSchema, options RenderOptions) ([]byte, error)
}
