// Package calendar lays scheduled events out on a Monday-start week in the
// site timezone.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/tz"
)

// Visible hour rows.
const (
	FirstHour = 8
	LastHour  = 21
)

// UntitledEvent is shown when an event's procedure is unknown.
const UntitledEvent = "Procedure Event"

// Hour is one row label of the grid.
type Hour struct {
	Value int
	Label string
}

// Entry is an event positioned on a day column. Offset and Span are measured
// in hours from FirstHour.
type Entry struct {
	ID      uuid.UUID
	Title   string
	Subject string
	Study   string
	Status  model.EventStatus
	Start   time.Time
	End     time.Time
	Offset  float64
	Span    float64
}

// Day is one column of the week.
type Day struct {
	Date    time.Time
	Weekday string
	Number  string
	Today   bool
	Entries []Entry
}

// Week is a seven day view starting on Monday.
type Week struct {
	Start time.Time
	Title string
	Days  [7]Day
	Hours []Hour

	conv *tz.Converter
}

// Lookups resolves entity IDs into display names.
type Lookups struct {
	Studies    []model.Study
	Subjects   []model.Subject
	Procedures []model.Procedure
}

// NewWeek returns the week containing anchor, as seen in the converter's zone.
func NewWeek(anchor time.Time, conv *tz.Converter) Week {
	loc := conv.Location()
	a := anchor.In(loc)
	back := (int(a.Weekday()) + 6) % 7
	start := time.Date(a.Year(), a.Month(), a.Day()-back, 0, 0, 0, 0, loc)
	today := conv.Today()

	w := Week{
		Start: start,
		Title: conv.Format(start, tz.FormatOptions{Month: tz.StyleLong, Year: tz.StyleNumeric}),
		Hours: hours(),
		conv:  conv,
	}
	for i := range w.Days {
		date := time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, loc)
		w.Days[i] = Day{
			Date:    date,
			Weekday: conv.Format(date, tz.FormatOptions{Weekday: tz.StyleShort}),
			Number:  conv.Format(date, tz.FormatOptions{Day: tz.StyleNumeric}),
			Today:   date.Equal(today),
		}
	}
	return w
}

// Next returns the following week.
func (w Week) Next() Week {
	return NewWeek(w.Start.AddDate(0, 0, 7), w.conv)
}

// Prev returns the preceding week.
func (w Week) Prev() Week {
	return NewWeek(w.Start.AddDate(0, 0, -7), w.conv)
}

// End is the exclusive upper bound of the week.
func (w Week) End() time.Time {
	return w.Start.AddDate(0, 0, 7)
}

// Place returns a copy of the week with events assigned to the day their
// start falls on. Events outside the week are ignored; events whose times
// cannot be parsed are skipped and reported in the joined error.
func (w Week) Place(events []model.Event, lookups Lookups) (Week, error) {
	out := w
	for i := range out.Days {
		out.Days[i].Entries = nil
	}
	loc := w.conv.Location()
	names := index(lookups)

	var errs []error
	for _, event := range events {
		entry, err := names.entry(event, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if entry.Start.Before(w.Start) || !entry.Start.Before(w.End()) {
			continue
		}
		day := dayIndex(w.Start, entry.Start)
		out.Days[day].Entries = append(out.Days[day].Entries, entry)
	}
	for i := range out.Days {
		entries := out.Days[i].Entries
		sort.SliceStable(entries, func(a, b int) bool { return entries[a].Start.Before(entries[b].Start) })
	}
	return out, errors.Join(errs...)
}

func dayIndex(weekStart, t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, weekStart.Location())
	for i := 0; i < 7; i++ {
		if weekStart.AddDate(0, 0, i).Equal(d) {
			return i
		}
	}
	return 6
}

func hours() []Hour {
	out := make([]Hour, 0, LastHour-FirstHour+1)
	for h := FirstHour; h <= LastHour; h++ {
		out = append(out, Hour{Value: h, Label: hourLabel(h)})
	}
	return out
}

func hourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

type nameIndex struct {
	studies    map[uuid.UUID]model.Study
	subjects   map[uuid.UUID]model.Subject
	procedures map[uuid.UUID]model.Procedure
}

func index(l Lookups) nameIndex {
	idx := nameIndex{
		studies:    make(map[uuid.UUID]model.Study, len(l.Studies)),
		subjects:   make(map[uuid.UUID]model.Subject, len(l.Subjects)),
		procedures: make(map[uuid.UUID]model.Procedure, len(l.Procedures)),
	}
	for _, s := range l.Studies {
		idx.studies[s.ID] = s
	}
	for _, s := range l.Subjects {
		idx.subjects[s.ID] = s
	}
	for _, p := range l.Procedures {
		idx.procedures[p.ID] = p
	}
	return idx
}

func (n nameIndex) entry(event model.Event, loc *time.Location) (Entry, error) {
	start, err := tz.ParseInstant(event.StartDatetime)
	if err != nil {
		return Entry{}, fmt.Errorf("calendar: event %s: %w", event.ID, err)
	}
	end := start.Add(time.Hour)
	if event.EndDatetime != "" {
		if end, err = tz.ParseInstant(event.EndDatetime); err != nil {
			return Entry{}, fmt.Errorf("calendar: event %s: %w", event.ID, err)
		}
	}
	start, end = start.In(loc), end.In(loc)

	entry := Entry{
		ID:      event.ID,
		Title:   UntitledEvent,
		Subject: event.SubjectID.String(),
		Study:   event.StudyID.String(),
		Status:  event.Status,
		Start:   start,
		End:     end,
		Offset:  float64(start.Hour()-FirstHour) + float64(start.Minute())/60,
		Span:    end.Sub(start).Hours(),
	}
	if p, ok := n.procedures[event.ProcedureID]; ok && p.Name != "" {
		entry.Title = p.Name
	}
	if s, ok := n.subjects[event.SubjectID]; ok {
		entry.Subject = s.DisplayName()
	}
	if s, ok := n.studies[event.StudyID]; ok {
		if s.Title != "" {
			entry.Study = s.Title
		} else if s.RefCode != "" {
			entry.Study = s.RefCode
		}
	}
	return entry, nil
}
