// Package sticky persists "sticky" field defaults: the last study or
// procedure a coordinator picked is offered again the next time the same form
// opens. The Store interface is keyed by (form, field) and has in-memory,
// YAML file, SQLite and Redis implementations.
package sticky
