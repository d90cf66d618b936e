package sticky

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// File stores defaults as a YAML document of form -> field -> value. Every
// write rewrites the document through a temporary file and rename.
type File struct {
	path string

	mu     sync.Mutex
	data   map[string]map[string]string
	closed bool
}

var _ Store = (*File)(nil)

// NewFile opens (or lazily creates) the YAML document at path.
func NewFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sticky: file path is required")
	}
	f := &File{path: path, data: make(map[string]map[string]string)}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("sticky: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return f, nil
	}
	if err := yaml.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("sticky: decode %s: %w", path, err)
	}
	if f.data == nil {
		f.data = make(map[string]map[string]string)
	}
	return f, nil
}

// Path returns the backing document path.
func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, form, field string) (string, bool, error) {
	if err := checkKey(form, field); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.data[strings.TrimSpace(form)][strings.TrimSpace(field)]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, form, field, value string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	form, field = strings.TrimSpace(form), strings.TrimSpace(field)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	bucket := f.data[form]
	if bucket == nil {
		bucket = make(map[string]string)
		f.data[form] = bucket
	}
	prev, had := bucket[field]
	bucket[field] = value
	if err := f.flush(); err != nil {
		if had {
			bucket[field] = prev
		} else {
			delete(bucket, field)
		}
		return err
	}
	return nil
}

func (f *File) Delete(_ context.Context, form, field string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	form, field = strings.TrimSpace(form), strings.TrimSpace(field)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	bucket := f.data[form]
	prev, ok := bucket[field]
	if !ok {
		return nil
	}
	delete(bucket, field)
	if len(bucket) == 0 {
		delete(f.data, form)
	}
	if err := f.flush(); err != nil {
		bucket[field] = prev
		f.data[form] = bucket
		return err
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *File) flush() error {
	out, err := yaml.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("sticky: encode: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sticky: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sticky-*.yaml")
	if err != nil {
		return fmt.Errorf("sticky: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sticky: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sticky: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sticky: replace %s: %w", f.path, err)
	}
	return nil
}
