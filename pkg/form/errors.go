package form

import "errors"

var (
	// ErrUnknownField is returned when input targets a name the schema does
	// not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrUnknownKind is returned when a field declares a kind outside the
	// enumeration.
	ErrUnknownKind = errors.New("form: unknown field kind")
	// ErrNilSchema is returned by helpers that require a schema.
	ErrNilSchema = errors.New("form: schema is nil")
)
