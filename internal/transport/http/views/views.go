// Package views renders the portal's HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"deptportal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Refresh makes the page navigate to URL after Delay.
type Refresh struct {
	URL   string
	Delay time.Duration
}

func (r Refresh) Seconds() int {
	return int(r.Delay.Round(time.Second) / time.Second)
}

// Page is the data every template receives.
type Page struct {
	Title     string
	Flashes   []session.Flash
	Refresh   *Refresh
	SignedIn  bool
	Role      string
	RequestID string
	Data      any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"selected": func(current, value string) bool {
		return current == value
	},
	"contains": func(list []string, value string) bool {
		for _, item := range list {
			if item == value {
				return true
			}
		}
		return false
	},
}

// New parses every page against the shared layout.
func New() (*Renderer, error) {
	return NewFromFS(templateFS, "templates")
}

func NewFromFS(fsys fs.FS, dir string) (*Renderer, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == layoutFile || path.Ext(name) != ".html" {
			continue
		}
		tmpl, err := template.New(layoutFile).Funcs(funcs).ParseFS(fsys, path.Join(dir, layoutFile), path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
