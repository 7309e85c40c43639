package site

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Aaronwn/kele/content"
	"github.com/Aaronwn/kele/render"
	"github.com/Aaronwn/kele/theme"
)

// PageData is what page templates are executed with.
type PageData struct {
	Site    *Site
	Page    *content.Post
	Path    string        // URL path of the current page
	Content template.HTML // rendered markdown body
}

// RenderPage renders one route into a complete HTML document: the markdown
// body through r, composed into the template picked for the route.
func RenderPage(reg *theme.Registry, r *render.Renderer, s *Site, rt Route) ([]byte, error) {
	data := PageData{
		Site:    s,
		Page:    rt.Page,
		Path:    rt.Path,
		Content: template.HTML(r.Render(rt.Page.Body)),
	}
	name, err := pickTemplate(reg, rt)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := reg.Execute(&buf, name, data); err != nil {
		return nil, fmt.Errorf("%s: %w", rt.Source, err)
	}
	return buf.Bytes(), nil
}

// pickTemplate decides which template composes the route. A template named
// in front matter must exist; conventional names fall back to "default".
func pickTemplate(reg *theme.Registry, rt Route) (string, error) {
	if name := rt.Page.Template; name != "" {
		if !reg.Has(name) {
			return "", fmt.Errorf("%s: %w", rt.Source, &theme.UnknownComponentError{Name: name})
		}
		return name, nil
	}
	switch {
	case rt.IsPost() && reg.Has("post"):
		return "post", nil
	case rt.Path == "/" && reg.Has("index"):
		return "index", nil
	}
	return "default", nil
}
