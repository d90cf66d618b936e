package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(_ context.Context, schema *model.FormSchema, _ render.RenderOptions) ([]byte, error) {
	return []byte(s.name + ":" + schema.Fields[0].Name), nil
}

func TestRegistryDefaultAndRender(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "html"})
	registry.MustRegister(stubRenderer{name: "tui"})

	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	schema := &model.FormSchema{Fields: []model.Field{{Name: "weight", Kind: model.FieldKindNumber}}}
	out, contentType, err := registry.Render(context.Background(), "", schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "html:weight" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}

	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	out, _, _ = registry.Render(context.Background(), "", schema, render.RenderOptions{})
	if string(out) != "tui:weight" {
		t.Fatalf("default not applied: %q", out)
	}
	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload(t *testing.T) {
	schema := &model.FormSchema{Fields: []model.Field{
		{Name: "weight", Kind: model.FieldKindNumber},
		{Name: "arm", Kind: model.FieldKindSelect, Options: []string{"l"}},
	}}
	mapping := render.MapErrorPayload(schema, map[string][]string{
		"/procedure_data/weight": {"must be positive", " must be positive "},
		"procedure_data.arm":     {"invalid option"},
		"study_id":               {"study is archived"},
		"":                       {"  "},
	})

	want := render.ErrorMapping{
		Fields: map[string]string{"weight": "must be positive", "arm": "invalid option"},
		Form:   []string{"study is archived"},
	}
	if diff := cmp.Diff(want, mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeCatalogResolvesVariantTokens(t *testing.T) {
	manifest := render.DefaultThemeManifest()
	manifest.Assets = theme.Assets{Prefix: "/assets/clinic", Files: map[string]string{"stylesheet": "form.css"}}

	catalog, err := render.NewThemeCatalog(manifest)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	cfg, err := catalog.Resolve("", "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != render.DefaultThemeName || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--surface"] != "#111827" || cfg.CSSVars["--brand"] != "#024638" {
		t.Fatalf("variant tokens not merged: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/clinic/form.css" {
		t.Fatalf("asset url mismatch: %q", got)
	}
	if _, err := catalog.Select("clinic", "sepia"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}
