package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed assets/*
var assetsFS embed.FS

// TemplatesFS exposes the bundled templates. Names are rooted at the module
// directory, e.g. "templates/form.tmpl".
func TemplatesFS() fs.FS {
	return templatesFS
}

// AssetsFS exposes the stylesheet referenced by the clinic theme manifest.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return assetsFS
	}
	return sub
}
