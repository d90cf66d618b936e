package sticky

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("sticky: store closed")
	// ErrInvalidKey is returned when form or field is blank.
	ErrInvalidKey = errors.New("sticky: form and field are required")
	// ErrUnknownBackend is returned by Open for unsupported backends.
	ErrUnknownBackend = errors.New("sticky: unknown backend")
)

// Store reads and writes sticky defaults. Get reports found=false without an
// error when nothing was stored.
type Store interface {
	Get(ctx context.Context, form, field string) (string, bool, error)
	Set(ctx context.Context, form, field, value string) error
	Delete(ctx context.Context, form, field string) error
	Close() error
}

// Key joins form and field into the canonical "<len(form)>:form:field" key.
// The length prefix keeps pairs whose names contain ':' from colliding.
func Key(form, field string) string {
	form = strings.TrimSpace(form)
	return strconv.Itoa(len(form)) + ":" + form + ":" + strings.TrimSpace(field)
}

func checkKey(form, field string) error {
	if strings.TrimSpace(form) == "" || strings.TrimSpace(field) == "" {
		return fmt.Errorf("%w (form=%q field=%q)", ErrInvalidKey, form, field)
	}
	return nil
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

// Open builds a store for backend. target is the file path, SQLite DSN or
// Redis URL; it is ignored for the memory backend.
func Open(ctx context.Context, backend Backend, target string) (Store, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(string(backend)))) {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return NewFile(target)
	case BackendSQLite:
		return NewSQLite(ctx, target)
	case BackendRedis:
		return OpenRedis(ctx, target)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}
}
