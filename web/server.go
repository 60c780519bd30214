// Package web serves the browse pages over HTTP.
package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/erwansetyobudi/browseby/catalog"
)

// Options configures a Server.
type Options struct {
	// BaseURL prefixes every link; it is the SLiMS web base (SWB). When it is
	// an absolute path the routes are mounted under it.
	BaseURL string
	Logger  zerolog.Logger
	// Health adds fields to the /health response.
	Health func() map[string]any
}

// Server renders the five browse pages from a Catalog.
type Server struct {
	catalog catalog.Catalog
	baseURL string
	mount   string
	logger  zerolog.Logger
	health  func() map[string]any
	tmpl    *template.Template
	printer *message.Printer
}

// New creates a Server over cat.
func New(cat catalog.Catalog, opts Options) (*Server, error) {
	base := opts.BaseURL
	if base == "" {
		base = "./"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	mount := "/"
	if strings.HasPrefix(base, "/") {
		mount = base
	}

	s := &Server{
		catalog: cat,
		baseURL: base,
		mount:   mount,
		logger:  opts.Logger,
		health:  opts.Health,
		printer: message.NewPrinter(language.Indonesian),
	}

	tmpl, err := parseTemplates(s.printer)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.tmpl = tmpl
	return s, nil
}

// Handler returns the routes wrapped in the request id, access log and
// recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+s.mount+"index.php", s.handleIndex)
	mux.HandleFunc("GET "+s.mount+"browse/{page}", s.handleBrowse)
	mux.HandleFunc("GET "+s.mount+"health", s.handleHealth)

	var h http.Handler = mux
	h = recoverMiddleware(s.logger)(h)
	h = loggingMiddleware(s.logger)(h)
	h = requestIDMiddleware(h)
	return h
}

// handleIndex dispatches "index.php?p=<page>" the way the OPAC does.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, r.URL.Query().Get("p"))
}

// handleBrowse serves "/browse/{page}", where page is "author" or "browse_author".
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("page")
	if !strings.HasPrefix(id, "browse_") {
		id = "browse_" + id
	}
	s.serve(w, r, id)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, id string) {
	def, ok := lookupPage(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if def.ID == PageYear {
		s.yearPage(w, r, def)
		return
	}
	s.facetPage(w, r, def)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.health != nil {
		for k, v := range s.health() {
			body[k] = v
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn().Err(err).Msg("write health response")
	}
}

// fail logs err and answers 500 without any page content.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().
		Err(err).
		Str("request_id", GetRequestID(r.Context())).
		Str("query", r.URL.RawQuery).
		Msg("browse page failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
