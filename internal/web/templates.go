package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gu00col/ross-sub000/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// renderPage writes a full HTML page. Template failures surface as 500s;
// by that point part of the body may be gone, so errors are logged rather
// than re-rendered.
func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		logging.Log.Errorf("rendering %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
