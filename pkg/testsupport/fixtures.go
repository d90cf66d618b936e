package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/schema"
	"github.com/goliatone/go-studyform/pkg/tz"
)

// LoadProcedure reads a procedure fixture (JSON or YAML).
func LoadProcedure(t *testing.T, path string) model.Procedure {
	t.Helper()

	procedure, err := LoadProcedureFromPath(path)
	if err != nil {
		t.Fatalf("load procedure: %v", err)
	}
	return procedure
}

// LoadProcedureFromPath returns a Procedure without requiring testing.T.
func LoadProcedureFromPath(path string) (model.Procedure, error) {
	if path == "" {
		return model.Procedure{}, errors.New("testsupport: procedure path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Procedure{}, fmt.Errorf("testsupport: read procedure: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return model.Procedure{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return schema.DecodeProcedure(doc)
}

// Converter returns a converter for timezone pinned to a fixed host zone and
// clock so conversions do not depend on the machine running the test.
func Converter(t *testing.T, timezone string, local *time.Location, now time.Time) *tz.Converter {
	t.Helper()

	conv, err := tz.NewConverter(timezone, tz.WithLocal(local), tz.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	return conv
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
