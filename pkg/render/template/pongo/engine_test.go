package pongo_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-studyform/pkg/render/template/pongo"
	"github.com/goliatone/go-studyform/pkg/testsupport"
)

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()
	engine, err := pongo.New(pongo.WithFS(os.DirFS(filepath.Join("..", "testdata", "templates"))))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineRenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	golden := filepath.Join("..", "testdata", "hello.golden")
	if testsupport.WriteMaybeGolden(t, golden, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if result != want || written != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q / %q", want, result, written)
	}
}

func TestEngineGlobalsAndFilters(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{"settings": map[string]any{"env": "staging"}}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	filter := "shout_" + strings.ReplaceAll(t.Name(), "/", "_")
	err := engine.RegisterFilter(filter, func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter(filter, func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	got, err := engine.RenderString("{{ settings.env }}|{{ name|"+filter+" }}", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "staging|ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineStructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	type view struct {
		FullName string `json:"full_name"`
	}
	got, err := engine.RenderString("{{ full_name|trim }}", view{FullName: "  Mei Chan "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "Mei Chan" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineOptions(t *testing.T) {
	files := fstest.MapFS{
		"greeting.html": {Data: []byte("{{ site }}: Hello {{ name }}!")},
		"greeting.tmpl": {Data: []byte("Hello {{ name }}!")},
	}

	cases := []struct {
		name string
		opts []pongo.Option
		want string
	}{
		{name: "default extension", want: "Hello Ada!"},
		{name: "blank extension keeps default", opts: []pongo.Option{pongo.WithExtension("  ")}, want: "Hello Ada!"},
		{
			name: "extension and globals",
			opts: []pongo.Option{pongo.WithExtension("html"), pongo.WithGlobalData(map[string]any{" site ": "Clinic"})},
			want: "Clinic: Hello Ada!",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, tc.opts...)...)
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}
			got, err := engine.RenderTemplate("greeting", map[string]any{"name": "Ada"})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNewRequiresFS(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without fs")
	}
}
