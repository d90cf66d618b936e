package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the bundled clinic theme.
const DefaultThemeName = "clinic"

// DefaultThemeManifest returns the bundled clinic palette with a dark variant.
func DefaultThemeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#024638",
			"success":    "#2E7D32",
			"warning":    "#F6BE00",
			"error":      "#C8102E",
			"surface":    "#FFFFFF",
			"text":       "#1F2937",
			"font-sans":  "Inter, Roboto, Arial, sans-serif",
			"font-serif": "Merriweather, 'Times New Roman', serif",
		},
		Templates: map[string]string{
			"forms.form": "templates/form.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/studyform",
			Files: map[string]string{
				"stylesheet": "form.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#111827",
					"text":    "#F9FAFB",
				},
			},
		},
	}
}

// ThemeCatalog is a theme.ThemeSelector over a fixed set of manifests.
// Manifests are checked by registering them with a go-theme registry.
type ThemeCatalog struct {
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*ThemeCatalog)(nil)

// NewThemeCatalog registers manifests; the first becomes the default theme.
// With no manifests the bundled clinic theme is used.
func NewThemeCatalog(manifests ...*theme.Manifest) (*ThemeCatalog, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultThemeManifest()}
	}
	registry := theme.NewRegistry()
	c := &ThemeCatalog{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("render: register theme %q: %w", m.Name, err)
		}
		c.manifests[m.Name] = m
		if c.fallback == "" {
			c.fallback = m.Name
		}
	}
	if c.fallback == "" {
		return nil, fmt.Errorf("render: no themes registered")
	}
	return c, nil
}

// Select resolves name and variant. Empty name picks the default theme; an
// unknown variant is an error, the empty variant means the base palette.
func (c *ThemeCatalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.fallback
	}
	m, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// Names lists registered theme names.
func (c *ThemeCatalog) Names() []string {
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve is Select followed by ThemeConfig.
func (c *ThemeCatalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	sel, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return ThemeConfig(sel), nil
}
