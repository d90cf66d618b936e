package html_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/renderers/html"
)

func vitalsSchema() *model.FormSchema {
	return &model.FormSchema{Fields: []model.Field{
		{Name: "weight", Kind: model.FieldKindNumber, Label: "Weight (kg)", Required: true},
		{Name: "arm", Kind: model.FieldKindSelect, Label: "Arm", Options: []string{"left", "right"}},
		{Name: "notes", Kind: model.FieldKindText, Placeholder: "Anything <b>unusual</b>?"},
		{Name: "visit", Kind: model.FieldKindDate, Label: "Visit date"},
	}}
}

func renderForm(t *testing.T, opts render.RenderOptions) string {
	t.Helper()
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), vitalsSchema(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, markup string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(markup, fragment) {
			t.Fatalf("expected markup to contain %q\n%s", fragment, markup)
		}
	}
}

func TestRenderFieldsByKind(t *testing.T) {
	markup := renderForm(t, render.RenderOptions{Action: "/events/1/data"})

	assertContains(t, markup,
		`method="POST" action="/events/1/data"`,
		`<label for="field-weight">Weight (kg) <span class="studyform__required">*</span></label>`,
		`<input type="number" id="field-weight" name="weight" value="" step="any" required>`,
		`<option value="">Select an option</option>`,
		`<option value="left">left</option>`,
		`<label for="field-notes">notes</label>`,
		`<input type="date" id="field-visit" name="visit" value="">`,
		`>Save Data</button>`,
		`value="cancel" formnovalidate>Cancel</button>`,
	)
	if strings.Index(markup, `name="weight"`) > strings.Index(markup, `name="visit"`) {
		t.Fatalf("fields not rendered in schema order")
	}
}

func TestRenderSanitisesSchemaText(t *testing.T) {
	markup := renderForm(t, render.RenderOptions{})
	if strings.Contains(markup, "<b>") {
		t.Fatalf("placeholder markup leaked:\n%s", markup)
	}
	assertContains(t, markup, `placeholder="Anything unusual?"`)
}

func TestRenderTrimsSchemaText(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	schema := &model.FormSchema{Fields: []model.Field{
		{Name: "pulse", Kind: model.FieldKindNumber, Label: "  Pulse  ", Placeholder: " bpm "},
		{Name: "site", Kind: model.FieldKindSelect, Label: "Site", Options: []string{" wrist"}},
	}}
	out, err := r.Render(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out),
		`<label for="field-pulse">Pulse</label>`,
		`placeholder="bpm"`,
		`<option value=" wrist">wrist</option>`,
	)
}

func TestRenderValuesAndErrors(t *testing.T) {
	markup := renderForm(t, render.RenderOptions{
		Values: model.Values{"weight": 72.5, "arm": "right", "notes": `"quoted"`},
		Errors: map[string]string{"weight": "Weight (kg) is required"},
		FormErrors: []string{"Event is locked"},
		Hidden: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok"), render.EventField("e-1")),
	})

	assertContains(t, markup,
		`value="72.5"`,
		`<option value="right" selected>right</option>`,
		`value="&quot;quoted&quot;"`,
		`<p class="studyform__error" id="field-weight-error">Weight (kg) is required</p>`,
		`role="alert">Event is locked</p>`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="event_id" value="e-1">`,
	)
	if strings.Index(markup, `name="_csrf"`) > strings.Index(markup, `name="event_id"`) {
		t.Fatalf("hidden fields not sorted")
	}
}

func TestRenderNaNAsEmpty(t *testing.T) {
	markup := renderForm(t, render.RenderOptions{Values: model.Values{"weight": math.NaN()}})
	assertContains(t, markup, `name="weight" value=""`)
}

func TestRenderCancelLink(t *testing.T) {
	markup := renderForm(t, render.RenderOptions{CancelURL: "/calendar"})
	assertContains(t, markup, `<a class="studyform__cancel" href="/calendar">Cancel</a>`)
}

func TestRenderThemeVariables(t *testing.T) {
	catalog, err := render.NewThemeCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	cfg, err := catalog.Resolve("", "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	markup := renderForm(t, render.RenderOptions{Theme: cfg})
	assertContains(t, markup,
		`<link rel="stylesheet" href="/assets/studyform/form.css">`,
		`data-theme="clinic" data-variant="dark"`,
		`--brand: #024638`,
		`--surface: #111827`,
	)
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, vitalsSchema(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestAssetsIncludeStylesheet(t *testing.T) {
	f, err := html.AssetsFS().Open("form.css")
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	_ = f.Close()
}
