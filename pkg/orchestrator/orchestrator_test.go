package orchestrator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/orchestrator"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/schema"
	"github.com/goliatone/go-studyform/pkg/testsupport"
)

func TestGenerateFromFileSource(t *testing.T) {
	gen := orchestrator.New()

	result, err := gen.Generate(context.Background(), orchestrator.Request{
		Source: schema.SourceFromFile("../../schemas/vital_signs.yaml"),
		RenderOptions: render.RenderOptions{
			Values: model.Values{"weight": 70.0},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Procedure.RefCode != "VITALS" {
		t.Fatalf("unexpected procedure %+v", result.Procedure)
	}
	if !strings.HasPrefix(result.ContentType, "text/html") {
		t.Fatalf("unexpected content type %q", result.ContentType)
	}
	out := string(result.Output)
	for _, fragment := range []string{"Vital Signs", `name="systolic"`, `value="70"`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output\n%s", fragment, out)
		}
	}
}

func TestGenerateResolvesTheme(t *testing.T) {
	catalog, err := render.NewThemeCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	gen := orchestrator.New(orchestrator.WithThemeSelector(catalog, render.DefaultThemeName, ""))

	procedure := testsupport.LoadProcedure(t, "../../schemas/blood_draw.json")
	result, err := gen.Generate(context.Background(), orchestrator.Request{
		Procedure: &procedure,
		Variant:   "dark",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(result.Output), `data-variant="dark"`) {
		t.Fatalf("theme variant not applied\n%s", result.Output)
	}

	if _, err := gen.Generate(context.Background(), orchestrator.Request{Procedure: &procedure, Theme: "missing"}); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestGenerateErrors(t *testing.T) {
	gen := orchestrator.New()
	ctx := context.Background()

	if _, err := gen.Generate(ctx, orchestrator.Request{}); err == nil {
		t.Fatalf("expected missing source error")
	}

	bad := &model.Procedure{FormDataSchema: model.FormSchema{Fields: []model.Field{
		{Name: "a", Kind: model.FieldKindText},
		{Name: "a", Kind: model.FieldKindText},
	}}}
	if _, err := gen.Generate(ctx, orchestrator.Request{Procedure: bad}); err == nil {
		t.Fatalf("expected invalid schema error")
	}

	good := testsupport.LoadProcedure(t, "../../schemas/blood_draw.json")
	if _, err := gen.Generate(ctx, orchestrator.Request{Procedure: &good, Renderer: "pdf"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}
