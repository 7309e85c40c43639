// Package theme holds the HTML templates a page is composed into. A site
// may override the embedded defaults by providing its own template folder;
// the registry is populated once at startup and is read-only afterwards.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
)

//go:embed templates/*.html
var defaults embed.FS

// UnknownComponentError reports a lookup of a template name that no
// loaded template defines.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown template %q", e.Name)
}

// Registry maps template names to parsed templates. Lookups of unknown
// names fail loudly rather than falling back silently.
type Registry struct {
	tpl *template.Template
}

// Load parses the embedded default templates and, when root contains dir,
// the site's own templates on top of them. A site template that defines an
// existing name overrides the default.
func Load(root fs.FS, dir string) (*Registry, error) {
	tpl, err := template.New("kele").Funcs(FuncMap()).ParseFS(defaults, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("theme: parse default templates: %w", err)
	}
	if root != nil && dir != "" {
		fi, err := fs.Stat(root, dir)
		if err == nil && fi.IsDir() {
			tpl, err = tpl.ParseFS(root, path.Join(dir, "*.html"))
			if err != nil {
				return nil, fmt.Errorf("theme: parse site templates: %w", err)
			}
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("theme: %w", err)
		}
	}
	return &Registry{tpl: tpl}, nil
}

// Has reports whether a template with the given name is defined.
func (r *Registry) Has(name string) bool {
	return r.tpl.Lookup(name) != nil
}

// Lookup returns the named template or an *UnknownComponentError.
func (r *Registry) Lookup(name string) (*template.Template, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, &UnknownComponentError{Name: name}
	}
	return t, nil
}

// Execute renders the named template with the given data.
func (r *Registry) Execute(w io.Writer, name string, data any) error {
	t, err := r.Lookup(name)
	if err != nil {
		return err
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("theme: execute %q: %w", name, err)
	}
	return nil
}
