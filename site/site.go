package site

import (
	"sort"
	"strings"
	"time"

	"github.com/Aaronwn/kele/content"
)

// Site is the fully materialized model handed to templates: the route
// table plus derived, read-only views of it.
type Site struct {
	Config  Config
	Routes  []Route
	Posts   []*content.Post // articles, newest first
	Pages   []*content.Post // everything that is not an article
	Tags    map[string][]*content.Post
	Updated time.Time // most recent declared date across all routes

	paths map[string]bool
}

// NewSite derives the site model from a route table.
func NewSite(cfg Config, routes []Route) *Site {
	s := &Site{
		Config: cfg,
		Routes: routes,
		Tags:   make(map[string][]*content.Post),
		paths:  make(map[string]bool, len(routes)),
	}
	for _, rt := range routes {
		s.paths[rt.Path] = true
		if rt.Page.Date.After(s.Updated) {
			s.Updated = rt.Page.Date
		}
		if rt.IsPost() {
			s.Posts = append(s.Posts, rt.Page)
			for _, tag := range rt.Page.Tags {
				s.Tags[tag] = append(s.Tags[tag], rt.Page)
			}
		} else {
			s.Pages = append(s.Pages, rt.Page)
		}
	}
	// newest first; undated posts sink to the end
	sort.SliceStable(s.Posts, func(i, j int) bool {
		if s.Posts[i].Date.IsZero() {
			return false
		}
		if s.Posts[j].Date.IsZero() {
			return true
		}
		return s.Posts[j].Date.Before(s.Posts[i].Date)
	})
	return s
}

// HasRoute reports whether the URL path maps to a known route. Trailing
// slashes are ignored so "/posts/a/" and "/posts/a" are the same route.
func (s *Site) HasRoute(urlPath string) bool {
	if urlPath != "/" {
		urlPath = strings.TrimSuffix(urlPath, "/")
	}
	return s.paths[urlPath]
}
