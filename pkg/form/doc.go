// Package form implements the schema-driven data capture engine used to
// record procedure results. A Form owns the values and errors of one editing
// session: Input coerces raw strings by field kind, Submit validates every
// field in schema order and hands a copy of the values to the submit callback
// only when nothing failed, and Cancel never submits. The engine performs no
// I/O; renderers (HTML, terminal) drive it.
package form
