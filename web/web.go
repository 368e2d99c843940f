package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded landing and result pages
func Templates() *template.Template {
	return template.Must(template.ParseFS(files, "templates/*.html"))
}
