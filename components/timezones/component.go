package timezones

import (
	"net/http"
	"time"
)

// Component bundles the picker configuration with its handler and routes.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Site returns the picker entry of the configured site zone at instant.
// ok is false when no site zone is configured.
func (c *Component) Site(at time.Time) (Option, bool) {
	if c == nil || c.opts.Site == "" {
		return Option{}, false
	}
	return newOption(c.opts.Site, at), true
}

// Search runs the picker search with the component's zones and limits.
func (c *Component) Search(query string, limit int) ([]Option, error) {
	opts := c.Options()
	zones, err := opts.zones()
	if err != nil {
		return nil, err
	}
	return SearchOptions(zones, query, limit, opts), nil
}

func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.Options())
}

// RegisterRoutes mounts the component under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}
