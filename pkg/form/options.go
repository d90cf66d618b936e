package form

import "github.com/goliatone/go-studyform/pkg/model"

// SubmitFunc receives a copy of the captured values after a successful
// validation pass.
type SubmitFunc func(model.Values)

// CancelFunc is invoked when the user abandons the form.
type CancelFunc func()

// Option configures a Form.
type Option func(*Form)

// WithSubmit registers the accept callback.
func WithSubmit(fn SubmitFunc) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// WithCancel registers the cancel callback.
func WithCancel(fn CancelFunc) Option {
	return func(f *Form) {
		f.onCancel = fn
	}
}

// WithStrictNumbers adds a "<label> must be a number" rule for number fields
// holding a non-finite value. Without it NaN only counts as missing when the
// field is required.
func WithStrictNumbers() Option {
	return func(f *Form) {
		f.strictNumbers = true
	}
}
