package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"yatube/errs"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.Format("2 Jan 2006 15:04")
	},
}).ParseFS(templatesFS, "templates/*.html"))

// Context is the named mapping a template consumes.
type Context map[string]interface{}

// render executes the named template into a buffer and writes it out with
// status 200. The viewer and the CSRF field are added to every context.
// Template output is deterministic for a given database state, which the
// index cache relies on.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, ctx Context) {
	if ctx == nil {
		ctx = Context{}
	}
	ctx["viewer"] = getUserFromContext(r.Context())
	ctx["csrf_field"] = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, ctx); err != nil {
		errs.LogError(r, err)
		http.Error(w, "An internal error has occurred.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
