package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderOrders renders the limit orders view to a markdown string.
func RenderOrders(o *Orders) string {
	partials := map[string]string{
		"orders_table": "orders_table.md",
	}
	return renderTemplate("orders", "orders.md", partials, o)
}

// RenderWatchlist renders the watchlist view to a markdown string.
func RenderWatchlist(w *Watchlist) string {
	return renderTemplate("watchlist", "watchlist.md", nil, w)
}

// RenderTPList renders the take profit view to a markdown string.
func RenderTPList(l *TPList) string {
	partials := map[string]string{
		"tplist_warning": "tplist_warning.md",
	}
	return renderTemplate("tplist", "tplist.md", partials, l)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
