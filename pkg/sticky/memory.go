package sticky

import (
	"context"
	"sync"
)

// Memory keeps defaults for the lifetime of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, form, field string) (string, bool, error) {
	if err := checkKey(form, field); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.values[Key(form, field)]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, form, field, value string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.values[Key(form, field)] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, form, field string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.values, Key(form, field))
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
