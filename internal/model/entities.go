package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EventStatus tracks the lifecycle of a scheduled procedure.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusNoShow    EventStatus = "no_show"
)

// ParseEventStatus accepts the wire names; an empty value means pending.
func ParseEventStatus(raw string) (EventStatus, error) {
	status := EventStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status == "" {
		return EventStatusPending, nil
	}
	if !status.Valid() {
		return "", fmt.Errorf("model: unknown event status %q", raw)
	}
	return status, nil
}

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusPending, EventStatusCompleted, EventStatusCancelled, EventStatusNoShow:
		return true
	default:
		return false
	}
}

func (s *EventStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: event status must be a string: %w", err)
	}
	parsed, err := ParseEventStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Study is a clinical research project.
type Study struct {
	ID                    uuid.UUID `json:"id"`
	RefCode               string    `json:"ref_code,omitempty"`
	Title                 string    `json:"title"`
	Description           string    `json:"description,omitempty"`
	PrincipalInvestigator string    `json:"principal_investigator"`
	IsActive              bool      `json:"is_active"`
}

// Subject is a research participant.
type Subject struct {
	ID         uuid.UUID `json:"id"`
	RefCode    string    `json:"ref_code,omitempty"`
	Lastname   string    `json:"lastname"`
	Firstname  string    `json:"firstname"`
	Middlename string    `json:"middlename,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Birthdate  string    `json:"birthdate,omitempty"`
	Gender     string    `json:"gender,omitempty"`
}

// DisplayName renders "Lastname, Firstname".
func (s Subject) DisplayName() string {
	last := strings.TrimSpace(s.Lastname)
	first := strings.TrimSpace(s.Firstname)
	switch {
	case last == "":
		return first
	case first == "":
		return last
	default:
		return last + ", " + first
	}
}

// Procedure is a protocol step of a study; its schema drives the data
// capture form.
type Procedure struct {
	ID             uuid.UUID  `json:"id"`
	StudyID        uuid.UUID  `json:"study_id"`
	RefCode        string     `json:"ref_code,omitempty"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	FormDataSchema FormSchema `json:"form_data_schema"`
}

// Event records a procedure performed (or to be performed) on a subject.
// Datetimes are UTC ISO-8601 strings as exchanged with the API.
type Event struct {
	ID            uuid.UUID   `json:"id,omitempty"`
	RefCode       string      `json:"ref_code,omitempty"`
	StudyID       uuid.UUID   `json:"study_id"`
	SubjectID     uuid.UUID   `json:"subject_id"`
	ProcedureID   uuid.UUID   `json:"procedure_id"`
	StartDatetime string      `json:"start_datetime"`
	EndDatetime   string      `json:"end_datetime,omitempty"`
	Status        EventStatus `json:"status"`
	Notes         string      `json:"notes,omitempty"`
	ProcedureData Values      `json:"procedure_data"`
}
