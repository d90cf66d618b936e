// Package validation expresses procedure form schemas as OpenAPI 3 schemas so
// the procedure_data payload contract can be published to API consumers and
// checked independently of the form engine.
package validation
