package site

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	slug "github.com/goliatone/go-slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Aaronwn/kele/content"
)

// Route maps one URL path to the content file that renders it. The route
// table is computed once per build by a lexical walk of the content tree
// and is immutable afterwards.
type Route struct {
	Path   string // URL path, e.g. "/posts/hello-world"
	Source string // content-relative source file, e.g. "posts/hello-world.md"
	Page   *content.Post
}

// IsPost reports whether the route lives in the posts section.
func (r Route) IsPost() bool {
	return strings.HasPrefix(r.Path, "/posts/")
}

// Materialize walks the content tree and computes the full route table.
// Drafts are skipped. Any malformed file, post missing its required title
// or date, or route collision is fatal.
func Materialize(fsys fs.FS, logger *log.Logger) ([]Route, error) {
	return materialize(fsys, logger, true)
}

// Scan is the lenient variant used by the development server: files that
// fail to load are logged and skipped, and drafts are kept visible.
func Scan(fsys fs.FS, logger *log.Logger) []Route {
	routes, _ := materialize(fsys, logger, false)
	return routes
}

func materialize(fsys fs.FS, logger *log.Logger, strict bool) ([]Route, error) {
	if logger == nil {
		logger = log.Default()
	}
	var routes []Route
	seen := make(map[string]string) // URL path -> first source file
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || path.Ext(name) != ".md" {
			return nil
		}
		p, err := content.Load(fsys, name)
		if err != nil {
			if strict {
				return err
			}
			logger.Error("skipping unreadable page", "file", name, "error", err)
			return nil
		}
		if p.Draft && strict {
			logger.Debug("skipping draft", "file", name)
			return nil
		}
		urlPath := RoutePath(name)
		if first, ok := seen[urlPath]; ok {
			dup := &DuplicateRouteError{Path: urlPath, Sources: [2]string{first, name}}
			if strict {
				return dup
			}
			logger.Error("skipping colliding page", "error", dup)
			return nil
		}
		seen[urlPath] = name
		finishPost(p, urlPath, logger)
		if strict && strings.HasPrefix(urlPath, "/posts/") {
			if p.Title == "" {
				return fmt.Errorf("%s: missing required title", name)
			}
			if p.Date.IsZero() {
				return fmt.Errorf("%s: missing required date", name)
			}
		}
		routes = append(routes, Route{Path: urlPath, Source: name, Page: p})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// RoutePath converts a content-relative file path into its URL path.
// Directory nesting maps to URL segments and an index file maps to the
// path of its own directory.
func RoutePath(rel string) string {
	p := strings.TrimSuffix(rel, ".md")
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." {
		return "/"
	}
	return "/" + p
}

var titleCaser = cases.Title(language.English)

// finishPost derives the slug, validates it, and fills a fallback title
// for pages that declare none.
func finishPost(p *content.Post, urlPath string, logger *log.Logger) {
	s := path.Base(urlPath)
	if s == "/" {
		s = "index"
	}
	if !slug.IsValid(s) {
		if norm, err := slug.Normalize(s); err == nil {
			logger.Warn("file name is not a clean slug", "file", p.Source, "slug", s, "suggestion", norm)
		} else {
			logger.Warn("file name is not a clean slug", "file", p.Source, "slug", s)
		}
	}
	p.Slug = s
	if p.Title == "" && !strings.HasPrefix(urlPath, "/posts/") {
		p.Title = titleCaser.String(strings.ReplaceAll(s, "-", " "))
	}
}
