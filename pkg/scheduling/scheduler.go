package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-studyform/pkg/form"
	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/sticky"
	"github.com/goliatone/go-studyform/pkg/tz"
)

// Sticky keys used for the event form.
const (
	StickyForm           = "event"
	StickyFieldStudy     = "study"
	StickyFieldProcedure = "procedure"
)

// DefaultDuration is the length given to new drafts and to events without an
// end time.
const DefaultDuration = time.Hour

// Scheduler prepares drafts and API payloads for events.
type Scheduler struct {
	conv  *tz.Converter
	store sticky.Store
	exact bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithStore enables sticky study/procedure defaults.
func WithStore(store sticky.Store) Option {
	return func(s *Scheduler) {
		s.store = store
	}
}

// WithExactConversion converts draft times with tz.ToUTCExact instead of the
// current-offset approximation.
func WithExactConversion() Option {
	return func(s *Scheduler) {
		s.exact = true
	}
}

// New returns a scheduler converting times with conv.
func New(conv *tz.Converter, opts ...Option) *Scheduler {
	s := &Scheduler{conv: conv}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Converter exposes the timezone converter.
func (s *Scheduler) Converter() *tz.Converter { return s.conv }

// NewDraft starts an empty pending draft running from now for one hour. The
// study is pre-selected from the sticky store when one was remembered.
func (s *Scheduler) NewDraft(ctx context.Context) (Draft, error) {
	now := s.conv.Now()
	draft := Draft{
		Start:         s.conv.LocalInput(now),
		End:           s.conv.LocalInput(now.Add(DefaultDuration)),
		Status:        model.EventStatusPending,
		ProcedureData: model.Values{},
	}
	study, err := s.sticky(ctx, StickyFieldStudy)
	if err != nil {
		return Draft{}, err
	}
	draft.StudyID = study
	return draft, nil
}

// EditDraft loads an existing event for editing, converting its UTC times to
// site wall-clock values. A missing end defaults to one hour after start.
func (s *Scheduler) EditDraft(event model.Event) (Draft, error) {
	start, err := s.conv.FromUTCString(event.StartDatetime)
	if err != nil {
		return Draft{}, fmt.Errorf("scheduling: start_datetime: %w", err)
	}
	end := start.Add(DefaultDuration)
	if strings.TrimSpace(event.EndDatetime) != "" {
		if end, err = s.conv.FromUTCString(event.EndDatetime); err != nil {
			return Draft{}, fmt.Errorf("scheduling: end_datetime: %w", err)
		}
	}
	status := event.Status
	if status == "" {
		status = model.EventStatusPending
	}
	data := event.ProcedureData.Clone()
	if data == nil {
		data = model.Values{}
	}
	return Draft{
		EventID:       event.ID,
		StudyID:       idString(event.StudyID),
		SubjectID:     idString(event.SubjectID),
		ProcedureID:   idString(event.ProcedureID),
		Start:         tz.FormatLocalInput(start),
		End:           tz.FormatLocalInput(end),
		Status:        status,
		Notes:         event.Notes,
		ProcedureData: data,
	}, nil
}

// SelectStudy switches the draft to studyID. For new drafts the subject is
// cleared and the remembered procedure is restored only when it belongs to
// the study. Edits of an existing event keep their picks.
func (s *Scheduler) SelectStudy(ctx context.Context, draft Draft, studyID string, procedures []model.Procedure) (Draft, error) {
	changed := draft.StudyID != studyID
	draft.StudyID = studyID
	if draft.Editing() || !changed || studyID == "" {
		return draft, nil
	}

	draft.SubjectID = ""
	draft.ProcedureID = ""

	remembered, err := s.sticky(ctx, StickyFieldProcedure)
	if err != nil {
		return draft, err
	}
	if remembered == "" {
		return draft, nil
	}
	for _, p := range ProceduresForStudy(procedures, studyID) {
		if p.ID.String() == remembered {
			draft.ProcedureID = remembered
			break
		}
	}
	return draft, nil
}

// Payload validates the draft and converts it into the event sent to the API.
func (s *Scheduler) Payload(draft Draft) (model.Event, error) {
	if draft.StudyID == "" || draft.SubjectID == "" || draft.ProcedureID == "" {
		return model.Event{}, ErrSelectionRequired
	}
	studyID, err := parseID("study_id", draft.StudyID)
	if err != nil {
		return model.Event{}, err
	}
	subjectID, err := parseID("subject_id", draft.SubjectID)
	if err != nil {
		return model.Event{}, err
	}
	procedureID, err := parseID("procedure_id", draft.ProcedureID)
	if err != nil {
		return model.Event{}, err
	}

	start, err := s.toUTC(draft.Start)
	if err != nil {
		return model.Event{}, fmt.Errorf("scheduling: start: %w", err)
	}
	end, err := s.toUTC(draft.End)
	if err != nil {
		return model.Event{}, fmt.Errorf("scheduling: end: %w", err)
	}
	// Both values share the layout, so string order is time order.
	if end < start {
		return model.Event{}, ErrEndBeforeStart
	}

	status := draft.Status
	if status == "" {
		status = model.EventStatusPending
	}
	data := draft.ProcedureData.Clone()
	if data == nil {
		data = model.Values{}
	}
	return model.Event{
		ID:            draft.EventID,
		StudyID:       studyID,
		SubjectID:     subjectID,
		ProcedureID:   procedureID,
		StartDatetime: start,
		EndDatetime:   end,
		Status:        status,
		Notes:         draft.Notes,
		ProcedureData: data,
	}, nil
}

// Remember stores the study and procedure of a newly created event as the
// next defaults. Updates of existing events are not remembered.
func (s *Scheduler) Remember(ctx context.Context, draft Draft) error {
	if s.store == nil || draft.Editing() {
		return nil
	}
	if draft.StudyID != "" {
		if err := s.store.Set(ctx, StickyForm, StickyFieldStudy, draft.StudyID); err != nil {
			return err
		}
	}
	if draft.ProcedureID != "" {
		if err := s.store.Set(ctx, StickyForm, StickyFieldProcedure, draft.ProcedureID); err != nil {
			return err
		}
	}
	return nil
}

// Complete records captured procedure data on a copy of event and marks it
// completed.
func Complete(event model.Event, data model.Values) model.Event {
	out := event
	out.ProcedureData = data.Clone()
	if out.ProcedureData == nil {
		out.ProcedureData = model.Values{}
	}
	out.Status = model.EventStatusCompleted
	return out
}

// ProcedureForm builds the data capture form for procedure seeded with the
// event's previously recorded data.
func ProcedureForm(procedure model.Procedure, event model.Event, opts ...form.Option) (*form.Form, error) {
	if event.ProcedureID != uuid.Nil && event.ProcedureID != procedure.ID {
		return nil, fmt.Errorf("%w: event %s uses %s, got %s", ErrProcedureMismatch, event.ID, event.ProcedureID, procedure.ID)
	}
	schema := procedure.FormDataSchema
	return form.New(&schema, event.ProcedureData, opts...), nil
}

func (s *Scheduler) toUTC(local string) (string, error) {
	if s.exact {
		return s.conv.ToUTCExact(local)
	}
	return s.conv.ToUTC(local)
}

func (s *Scheduler) sticky(ctx context.Context, field string) (string, error) {
	if s.store == nil {
		return "", nil
	}
	v, _, err := s.store.Get(ctx, StickyForm, field)
	return v, err
}

func parseID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("scheduling: %s: %w", name, err)
	}
	return id, nil
}
