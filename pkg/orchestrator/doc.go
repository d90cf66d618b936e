// Package orchestrator coordinates the procedure form pipeline: load a
// schema document, decode the procedure, resolve the theme and render the
// form with a registered renderer.
package orchestrator
