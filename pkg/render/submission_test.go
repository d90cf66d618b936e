package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-studyform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" existing ": "keep", "": "ignored"},
		render.CSRFToken("_csrf", "token123"),
		render.EventField("evt-1"),
		render.ProcedureField("VIT-001"),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing":  "keep",
		"_csrf":     "token123",
		"event_id":  "evt-1",
		"procedure": "VIT-001",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "event_id", Value: "evt-1"},
		{Name: "existing", Value: "keep"},
		{Name: "procedure", Value: "VIT-001"},
	}
	if diff := cmp.Diff(wantSorted, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	if render.MergeHiddenFields(nil) != nil {
		t.Fatalf("expected nil for empty merge")
	}
}
