// Package templates embeds the server-rendered pages of the dashboard.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"mondedesparfum.com/admin/templates/shared"
)

//go:embed layout.html pages/*.html
var files embed.FS

// Set holds one parsed template per page, each bundled with the layout.
type Set struct {
	pages map[string]*template.Template
}

func Load() (*Set, error) {
	names, err := fs.Glob(files, "pages/*.html")
	if err != nil {
		return nil, err
	}

	s := &Set{pages: make(map[string]*template.Template, len(names))}
	for _, file := range names {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(shared.Funcs()).ParseFS(files, "layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

func (s *Set) Has(name string) bool {
	_, ok := s.pages[name]
	return ok
}

// Render executes the layout with the content block of page name.
func (s *Set) Render(w io.Writer, name string, data any) error {
	t, ok := s.pages[name]
	if !ok {
		return fmt.Errorf("templates: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Pages is the parsed set built into the binary.
var Pages = mustLoad()

func mustLoad() *Set {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}
