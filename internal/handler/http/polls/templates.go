package polls

import (
	"embed"
	"html/template"

	"mysite/internal/handler/http/pathutil"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates. The "url" function
// reverses a named route.
func Templates() *template.Template {
	return template.Must(template.New("polls").
		Funcs(template.FuncMap{"url": pathutil.MustReverse}).
		ParseFS(templateFS, "templates/*.html"))
}
