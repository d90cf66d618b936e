package schema

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches raw documents for a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures the default loader.
type LoaderOptions struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

// WithFileSystem lets fs sources resolve against fsys.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileSystem = fsys
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(o *LoaderOptions) {
		o.HTTPClient = client
	}
}

// WithDefaultHTTP enables URL sources with a plain client.
func WithDefaultHTTP() LoaderOption {
	return func(o *LoaderOptions) {
		o.AllowHTTPFallback = true
	}
}

// WithRequestTimeout bounds each HTTP fetch.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		o.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies opts over the zero value.
func NewLoaderOptions(opts ...LoaderOption) LoaderOptions {
	var o LoaderOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
