// Package preview serves procedure forms over HTTP so schema authors can try
// them in a browser: GET renders the form, POST runs the form engine and the
// procedure_data contract and either re-renders with errors or echoes the
// payload.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-studyform/components/timezones"
	"github.com/goliatone/go-studyform/pkg/form"
	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/renderers/html"
	"github.com/goliatone/go-studyform/pkg/schema"
	"github.com/goliatone/go-studyform/pkg/sticky"
	"github.com/goliatone/go-studyform/pkg/validation"
)

// AssetsPath is where the bundled stylesheet is mounted.
const AssetsPath = "/assets/studyform/"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStickyStore pre-fills forms with the last submitted answers.
func WithStickyStore(store sticky.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithTheme resolves name/variant through the catalog for every render.
func WithTheme(catalog *render.ThemeCatalog, name, variant string) Option {
	return func(s *Server) {
		s.themes = catalog
		s.theme = name
		s.variant = variant
	}
}

// WithStrictNumbers turns on the form engine's number check.
func WithStrictNumbers() Option {
	return func(s *Server) {
		s.strict = true
	}
}

// WithTimezones mounts the timezone picker endpoint.
func WithTimezones(component *timezones.Component) Option {
	return func(s *Server) {
		s.timezones = component
	}
}

// Server is the preview HTTP handler set.
type Server struct {
	catalog   *schema.Catalog
	renderer  render.Renderer
	themes    *render.ThemeCatalog
	theme     string
	variant   string
	store     sticky.Store
	strict    bool
	timezones *timezones.Component
	logger    *slog.Logger
}

// New builds a server over catalog.
func New(catalog *schema.Catalog, opts ...Option) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("preview: catalog is required")
	}
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	s := &Server{
		catalog:  catalog,
		renderer: renderer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/procedures", s.handleList)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /forms/{key}", s.handleForm)
	mux.HandleFunc("POST /forms/{key}", s.handleSubmit)
	mux.Handle(AssetsPath, http.StripPrefix(AssetsPath, http.FileServerFS(html.AssetsFS())))
	if s.timezones != nil {
		if _, err := s.timezones.RegisterRoutes(mux, ""); err != nil {
			s.logger.Error("timezone routes not mounted", "error", err)
		}
	}
	return s.logRequests(mux)
}

type procedureSummary struct {
	Key    string   `json:"key"`
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Fields []string `json:"fields"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	out := make([]procedureSummary, 0, len(s.catalog.Keys()))
	for _, key := range s.catalog.Keys() {
		p, _ := s.catalog.Get(key)
		out = append(out, procedureSummary{
			Key:    key,
			Name:   p.Name,
			URL:    "/forms/" + key,
			Fields: p.FormDataSchema.Names(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, validation.Document("", "", s.catalog.Procedures()))
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	procedure, ok := s.catalog.Get(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	values, err := s.remembered(r.Context(), key, &procedure.FormDataSchema)
	if err != nil {
		s.logger.Warn("sticky defaults unavailable", "procedure", key, "error", err)
	}
	s.renderForm(w, r, http.StatusOK, key, procedure, render.RenderOptions{Values: values})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	procedure, ok := s.catalog.Get(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		submitted model.Values
		cancelled bool
	)
	opts := []form.Option{
		form.WithSubmit(func(values model.Values) { submitted = values }),
		form.WithCancel(func() { cancelled = true }),
	}
	if s.strict {
		opts = append(opts, form.WithStrictNumbers())
	}
	f := form.New(&procedure.FormDataSchema, nil, opts...)
	for _, field := range procedure.FormDataSchema.Fields {
		if err := f.Input(field.Name, r.PostForm.Get(field.Name)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if r.PostForm.Get(html.ActionField) == html.CancelAction {
		f.Cancel()
	} else {
		f.Submit()
	}
	if cancelled {
		writeJSON(w, http.StatusOK, map[string]any{"status": "cancelled"})
		return
	}
	if submitted == nil {
		s.renderForm(w, r, http.StatusUnprocessableEntity, key, procedure, render.RenderOptions{
			Values: f.Values(),
			Errors: f.Errors(),
		})
		return
	}

	result := validation.ValidateProcedureData(r.Context(), &procedure.FormDataSchema, submitted)
	if !result.Valid {
		mapping := render.MapErrorPayload(&procedure.FormDataSchema, issuePayload(result.Issues))
		s.renderForm(w, r, http.StatusUnprocessableEntity, key, procedure, render.RenderOptions{
			Values:     submitted,
			Errors:     mapping.Fields,
			FormErrors: mapping.Form,
		})
		return
	}

	if err := s.remember(r.Context(), key, &procedure.FormDataSchema, submitted); err != nil {
		s.logger.Warn("sticky defaults not saved", "procedure", key, "error", err)
	}
	s.logger.Info("procedure data accepted", "procedure", key, "fields", len(submitted))
	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "procedure_data": submitted})
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, key string, procedure model.Procedure, opts render.RenderOptions) {
	opts.Title = procedure.Name
	opts.Action = "/forms/" + key
	opts.Hidden = render.MergeHiddenFields(opts.Hidden, render.ProcedureField(key))
	if s.themes != nil {
		cfg, err := s.themes.Resolve(s.theme, s.variant)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		opts.Theme = cfg
	}

	out, err := s.renderer.Render(r.Context(), &procedure.FormDataSchema, opts)
	if err != nil {
		s.logger.Error("render failed", "procedure", key, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) remembered(ctx context.Context, key string, fs *model.FormSchema) (model.Values, error) {
	if s.store == nil {
		return nil, nil
	}
	values := model.Values{}
	for _, field := range fs.Fields {
		raw, ok, err := s.store.Get(ctx, stickyForm(key), field.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if values[field.Name], err = form.Coerce(field, raw); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (s *Server) remember(ctx context.Context, key string, fs *model.FormSchema, values model.Values) error {
	if s.store == nil {
		return nil
	}
	for _, field := range fs.Fields {
		value := values[field.Name]
		if form.IsMissing(value) {
			continue
		}
		if err := s.store.Set(ctx, stickyForm(key), field.Name, fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}

func stickyForm(key string) string {
	return "procedure/" + key
}

// issuePayload keys contract issues by field name, falling back to the JSON
// pointer for issues not tied to a field.
func issuePayload(issues []validation.SchemaIssue) map[string][]string {
	out := make(map[string][]string, len(issues))
	for _, issue := range issues {
		key := issue.Field
		if key == "" {
			key = issue.Path
		}
		out[key] = append(out[key], issue.Message)
	}
	return out
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// Addr normalises a listen address, defaulting the host to loopback.
func Addr(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, ":") {
		return "127.0.0.1" + raw
	}
	return raw
}
