// Package model defines the procedure form schema and the scheduling entities
// shared by the form engine, renderers and the scheduling helpers. Field kinds
// form a closed enumeration (text, number, date, select); decoding a schema
// with any other kind fails instead of degrading to a text input. Values maps
// carry strings, float64 numbers or nil, and encode NaN as null on the wire.
// Definitions live in internal/model and are re-exported here.
package model
