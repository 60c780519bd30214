package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parseTemplates(p *message.Printer) (*template.Template, error) {
	funcs := template.FuncMap{
		// count prints n with Indonesian digit grouping (12.345).
		"count": func(n int) string {
			return p.Sprintf("%d", n)
		},
	}
	return template.New("browse").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// render executes the page into a buffer first, so a template error never
// leaves a partial page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, v view) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page", v); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("write page")
	}
}
