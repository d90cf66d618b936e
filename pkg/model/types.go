package model

import (
	"github.com/google/uuid"

	internalmodel "github.com/goliatone/go-studyform/internal/model"
)

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText   = internalmodel.FieldKindText
	FieldKindNumber = internalmodel.FieldKindNumber
	FieldKindDate   = internalmodel.FieldKindDate
	FieldKindSelect = internalmodel.FieldKindSelect
)

// EventStatus re-exports the internal EventStatus enumeration.
type EventStatus = internalmodel.EventStatus

const (
	EventStatusPending   = internalmodel.EventStatusPending
	EventStatusCompleted = internalmodel.EventStatusCompleted
	EventStatusCancelled = internalmodel.EventStatusCancelled
	EventStatusNoShow    = internalmodel.EventStatusNoShow
)

type Field = internalmodel.Field
type FormSchema = internalmodel.FormSchema
type Values = internalmodel.Values

type Study = internalmodel.Study
type Subject = internalmodel.Subject
type Procedure = internalmodel.Procedure
type Event = internalmodel.Event

// ParseFieldKind validates a raw kind name.
func ParseFieldKind(raw string) (FieldKind, error) {
	return internalmodel.ParseFieldKind(raw)
}

// FieldKinds lists the supported kinds.
func FieldKinds() []FieldKind {
	return internalmodel.FieldKinds()
}

// ParseEventStatus validates a raw status; empty means pending.
func ParseEventStatus(raw string) (EventStatus, error) {
	return internalmodel.ParseEventStatus(raw)
}

// RefCodeAlphabet is the character set of generated reference codes.
const RefCodeAlphabet = internalmodel.RefCodeAlphabet

// NewID returns a time-ordered identifier for a new entity.
func NewID() (uuid.UUID, error) {
	return internalmodel.NewID()
}

// NewRefCode returns a readable reference code like "A9X-2M4".
func NewRefCode(length int) (string, error) {
	return internalmodel.NewRefCode(length)
}
