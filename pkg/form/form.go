package form

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-studyform/pkg/model"
)

// Form holds the editing state for one procedure form. It is owned by a
// single screen or session and is not safe for concurrent use.
type Form struct {
	schema  *model.FormSchema
	initial model.Values
	values  model.Values
	errors  map[string]string

	onSubmit      SubmitFunc
	onCancel      CancelFunc
	strictNumbers bool
}

// New builds a form over schema seeded with a copy of initial.
func New(schema *model.FormSchema, initial model.Values, opts ...Option) *Form {
	f := &Form{}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.Reset(schema, initial)
	return f
}

// Reset discards edits and errors and reinitialises from initial. Nothing is
// merged from the previous state.
func (f *Form) Reset(schema *model.FormSchema, initial model.Values) {
	f.schema = schema
	f.initial = initial
	f.values = initial.Clone()
	if f.values == nil {
		f.values = model.Values{}
	}
	f.errors = map[string]string{}
}

// Bind resets the form when schema or initial is a different reference than
// the one currently bound and reports whether it did. Passing the same
// pointer and map again keeps in-progress edits.
func (f *Form) Bind(schema *model.FormSchema, initial model.Values) bool {
	if f.schema == schema && sameMap(f.initial, initial) {
		return false
	}
	f.Reset(schema, initial)
	return true
}

func sameMap(a, b model.Values) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Set stores value verbatim under name and clears that field's error only.
func (f *Form) Set(name string, value any) {
	f.values[name] = value
	delete(f.errors, name)
}

// Input coerces raw according to the field kind and stores it.
func (f *Form) Input(name, raw string) error {
	field, ok := f.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	value, err := Coerce(field, raw)
	if err != nil {
		return err
	}
	f.Set(name, value)
	return nil
}

// Submit validates all fields and calls the submit callback with a copy of the
// values when none failed. It reports whether the submission went through.
// Errors from the pass replace the previous error set.
func (f *Form) Submit() bool {
	f.errors = validate(f.schema, f.values, f.strictNumbers)
	if len(f.errors) > 0 {
		return false
	}
	if f.onSubmit != nil {
		f.onSubmit(f.values.Clone())
	}
	return true
}

// Cancel calls the cancel callback. It never validates or submits.
func (f *Form) Cancel() {
	if f.onCancel != nil {
		f.onCancel()
	}
}

// Schema returns the bound schema.
func (f *Form) Schema() *model.FormSchema {
	return f.schema
}

// Values returns a copy of the current values.
func (f *Form) Values() model.Values {
	return f.values.Clone()
}

// Value returns the stored value for name.
func (f *Form) Value(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Errors returns a copy of the current error set.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Error returns the message for name, or "" when the field is clean.
func (f *Form) Error(name string) string {
	return f.errors[name]
}

// Valid reports whether the last validation pass left no errors.
func (f *Form) Valid() bool {
	return len(f.errors) == 0
}
