package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/shopspring/decimal"

	"rentalsBack/internal/uploads"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates maps a page file name to the page parsed together with the layout.
type Templates map[string]*template.Template

// NewTemplates parses every page once. Image references are rendered as URLs
// of the given store.
func NewTemplates(media uploads.Store) (Templates, error) {
	funcs := template.FuncMap{
		"media": media.URL,
		"price": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	cache := Templates{}
	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}
		ts, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		cache[name] = ts
	}
	return cache, nil
}
