package timezones

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-studyform/pkg/tz"
)

// HTTPError lets a guard pick the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a guard error with an explicit status code.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type searchResponse struct {
	Data []Option `json:"data"`
	Site *Option  `json:"site,omitempty"`
	At   string   `json:"at"`
}

type zoneResponse struct {
	Data  Option `json:"data"`
	Local string `json:"local"`
	At    string `json:"at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds a handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions serves two shapes under the route path:
//
//	GET <route>?q=hong&limit=10&at=2024-07-01T00:00:00Z   search
//	GET <route>/Asia/Hong_Kong?at=...                       one zone
//
// Offsets are those in force at "at" (now when absent). The single zone form
// also returns the wall-clock time there as an editing value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			writeError(w, r, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeError(w, r, guardStatus(err), "")
				return
			}
		}

		at := opts.now()
		if raw := r.URL.Query().Get(opts.AtParam); raw != "" {
			parsed, err := tz.ParseInstant(raw)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "invalid "+opts.AtParam+": "+raw)
				return
			}
			at = parsed
		}

		zones, err := opts.zones()
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "")
			return
		}

		if zone := zoneFromPath(r.URL.Path, opts.RoutePath); zone != "" {
			serveZone(w, r, zones, zone, at)
			return
		}

		opts.Now = func() time.Time { return at }
		results := SearchOptions(zones, r.URL.Query().Get(opts.SearchParam), parseInt(r.URL.Query().Get(opts.LimitParam)), opts)
		if results == nil {
			results = []Option{}
		}
		resp := searchResponse{Data: results, At: at.UTC().Format(time.RFC3339)}
		if opts.Site != "" {
			site := newOption(opts.Site, at)
			resp.Site = &site
		}
		writeJSON(w, r, http.StatusOK, resp)
	})
}

func serveZone(w http.ResponseWriter, r *http.Request, zones []string, zone string, at time.Time) {
	if !slices.Contains(zones, zone) {
		writeError(w, r, http.StatusNotFound, "unknown zone "+zone)
		return
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "unknown zone "+zone)
		return
	}
	writeJSON(w, r, http.StatusOK, zoneResponse{
		Data:  newOption(zone, at),
		Local: at.In(loc).Format(tz.LocalInputLayout),
		At:    at.UTC().Format(time.RFC3339),
	})
}

// zoneFromPath extracts "Area/City" from ".../<route>/Area/City".
func zoneFromPath(path, route string) string {
	route = "/" + strings.Trim(route, "/") + "/"
	idx := strings.LastIndex(path, route)
	if idx < 0 {
		return ""
	}
	return strings.Trim(path[idx+len(route):], "/")
}

func guardStatus(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode() > 0 {
		return httpErr.StatusCode()
	}
	return http.StatusForbidden
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if msg == "" {
		msg = http.StatusText(code)
	}
	writeJSON(w, r, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
