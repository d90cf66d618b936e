package scheduling_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/scheduling"
	"github.com/goliatone/go-studyform/pkg/sticky"
	"github.com/goliatone/go-studyform/pkg/tz"
)

var (
	studyA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	studyB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	procA  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	procB  = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	subj   = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
)

func procedures() []model.Procedure {
	return []model.Procedure{
		{ID: procA, StudyID: studyA, Name: "Vitals"},
		{ID: procB, StudyID: studyB, Name: "Blood draw"},
	}
}

func newScheduler(t *testing.T, store sticky.Store) *scheduling.Scheduler {
	t.Helper()
	now := time.Date(2024, time.March, 4, 1, 30, 0, 0, time.UTC)
	conv, err := tz.NewConverter("Asia/Hong_Kong",
		tz.WithLocal(time.UTC),
		tz.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	return scheduling.New(conv, scheduling.WithStore(store))
}

func TestNewDraftUsesStickyStudyAndOneHourSlot(t *testing.T) {
	ctx := context.Background()
	store := sticky.NewMemory()
	if err := store.Set(ctx, scheduling.StickyForm, scheduling.StickyFieldStudy, studyA.String()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	draft, err := newScheduler(t, store).NewDraft(ctx)
	if err != nil {
		t.Fatalf("new draft: %v", err)
	}
	want := scheduling.Draft{
		StudyID:       studyA.String(),
		Start:         "2024-03-04T09:30",
		End:           "2024-03-04T10:30",
		Status:        model.EventStatusPending,
		ProcedureData: model.Values{},
	}
	if diff := cmp.Diff(want, draft); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectStudyRestoresProcedureOnlyWithinStudy(t *testing.T) {
	ctx := context.Background()
	store := sticky.NewMemory()
	_ = store.Set(ctx, scheduling.StickyForm, scheduling.StickyFieldProcedure, procA.String())
	s := newScheduler(t, store)

	draft := scheduling.Draft{SubjectID: subj.String()}
	draft, err := s.SelectStudy(ctx, draft, studyA.String(), procedures())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if draft.SubjectID != "" {
		t.Fatalf("subject should be cleared, got %q", draft.SubjectID)
	}
	if draft.ProcedureID != procA.String() {
		t.Fatalf("expected remembered procedure, got %q", draft.ProcedureID)
	}

	draft, err = s.SelectStudy(ctx, draft, studyB.String(), procedures())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if draft.ProcedureID != "" {
		t.Fatalf("procedure from another study must not be restored, got %q", draft.ProcedureID)
	}
}

func TestSelectStudyKeepsPicksWhenEditing(t *testing.T) {
	s := newScheduler(t, sticky.NewMemory())
	draft := scheduling.Draft{EventID: uuid.New(), StudyID: studyA.String(), SubjectID: subj.String(), ProcedureID: procA.String()}
	got, err := s.SelectStudy(context.Background(), draft, studyB.String(), procedures())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.SubjectID != subj.String() || got.ProcedureID != procA.String() {
		t.Fatalf("edit mode should keep picks, got %+v", got)
	}
}

func TestPayloadRequiresSelections(t *testing.T) {
	s := newScheduler(t, nil)
	_, err := s.Payload(scheduling.Draft{StudyID: studyA.String(), Start: "2024-03-04T09:00", End: "2024-03-04T10:00"})
	if !errors.Is(err, scheduling.ErrSelectionRequired) {
		t.Fatalf("expected ErrSelectionRequired, got %v", err)
	}
}

func TestPayloadConvertsToUTC(t *testing.T) {
	s := newScheduler(t, nil)
	draft := scheduling.Draft{
		StudyID:     studyA.String(),
		SubjectID:   subj.String(),
		ProcedureID: procA.String(),
		Start:       "2024-03-04T09:00",
		End:         "2024-03-04T10:15",
		Notes:       "fasting",
	}
	event, err := s.Payload(draft)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	want := model.Event{
		StudyID:       studyA,
		SubjectID:     subj,
		ProcedureID:   procA,
		StartDatetime: "2024-03-04T01:00:00Z",
		EndDatetime:   "2024-03-04T02:15:00Z",
		Status:        model.EventStatusPending,
		Notes:         "fasting",
		ProcedureData: model.Values{},
	}
	if diff := cmp.Diff(want, event); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	draft.End = "2024-03-04T08:00"
	if _, err := s.Payload(draft); !errors.Is(err, scheduling.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestPayloadConversionAcrossDST(t *testing.T) {
	// January clock, July appointment: London is on GMT now and BST then.
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	conv, err := tz.NewConverter("Europe/London",
		tz.WithLocal(time.UTC),
		tz.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	draft := scheduling.Draft{
		StudyID:     studyA.String(),
		SubjectID:   subj.String(),
		ProcedureID: procA.String(),
		Start:       "2024-07-01T10:00",
		End:         "2024-07-01T11:00",
	}

	cases := []struct {
		name      string
		opts      []scheduling.Option
		wantStart string
		wantEnd   string
	}{
		{name: "current offset", wantStart: "2024-07-01T10:00:00Z", wantEnd: "2024-07-01T11:00:00Z"},
		{name: "exact", opts: []scheduling.Option{scheduling.WithExactConversion()}, wantStart: "2024-07-01T09:00:00Z", wantEnd: "2024-07-01T10:00:00Z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := scheduling.New(conv, tc.opts...).Payload(draft)
			if err != nil {
				t.Fatalf("payload: %v", err)
			}
			if event.StartDatetime != tc.wantStart || event.EndDatetime != tc.wantEnd {
				t.Fatalf("got %s..%s want %s..%s", event.StartDatetime, event.EndDatetime, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestEditDraftRoundTrip(t *testing.T) {
	s := newScheduler(t, nil)
	event := model.Event{
		ID:            uuid.New(),
		StudyID:       studyA,
		SubjectID:     subj,
		ProcedureID:   procA,
		StartDatetime: "2024-03-10T02:00:00",
		Status:        model.EventStatusCompleted,
		ProcedureData: model.Values{"weight": 70.0},
	}
	draft, err := s.EditDraft(event)
	if err != nil {
		t.Fatalf("edit draft: %v", err)
	}
	if draft.Start != "2024-03-10T10:00" || draft.End != "2024-03-10T11:00" {
		t.Fatalf("unexpected times %s - %s", draft.Start, draft.End)
	}

	payload, err := s.Payload(draft)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.StartDatetime != "2024-03-10T02:00:00Z" || payload.Status != model.EventStatusCompleted {
		t.Fatalf("round trip mismatch: %+v", payload)
	}
	if payload.ID != event.ID {
		t.Fatalf("event id lost")
	}
}

func TestRememberSkipsEdits(t *testing.T) {
	ctx := context.Background()
	store := sticky.NewMemory()
	s := newScheduler(t, store)

	if err := s.Remember(ctx, scheduling.Draft{EventID: uuid.New(), StudyID: studyB.String()}); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if _, ok, _ := store.Get(ctx, scheduling.StickyForm, scheduling.StickyFieldStudy); ok {
		t.Fatalf("edits must not update sticky defaults")
	}

	if err := s.Remember(ctx, scheduling.Draft{StudyID: studyB.String(), ProcedureID: procB.String()}); err != nil {
		t.Fatalf("remember: %v", err)
	}
	v, _, _ := store.Get(ctx, scheduling.StickyForm, scheduling.StickyFieldProcedure)
	if v != procB.String() {
		t.Fatalf("procedure not remembered, got %q", v)
	}
}

func TestCompleteAndProcedureForm(t *testing.T) {
	procedure := model.Procedure{
		ID:      procA,
		StudyID: studyA,
		FormDataSchema: model.FormSchema{Fields: []model.Field{
			{Name: "weight", Kind: model.FieldKindNumber, Label: "Weight", Required: true},
		}},
	}
	event := model.Event{ID: uuid.New(), ProcedureID: procA, Status: model.EventStatusPending, ProcedureData: model.Values{"weight": 0.0}}

	var captured model.Values
	f, err := scheduling.ProcedureForm(procedure, event)
	if err != nil {
		t.Fatalf("procedure form: %v", err)
	}
	if !f.Submit() {
		t.Fatalf("seeded zero weight should validate: %v", f.Errors())
	}
	captured = f.Values()

	done := scheduling.Complete(event, captured)
	if done.Status != model.EventStatusCompleted {
		t.Fatalf("status not completed: %s", done.Status)
	}
	if event.Status != model.EventStatusPending {
		t.Fatalf("Complete mutated its input")
	}

	other := procedure
	other.ID = procB
	if _, err := scheduling.ProcedureForm(other, event); !errors.Is(err, scheduling.ErrProcedureMismatch) {
		t.Fatalf("expected ErrProcedureMismatch, got %v", err)
	}
}
