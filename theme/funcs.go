package theme

import (
	"html/template"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Aaronwn/kele/content"
)

// FuncMap returns the helper functions available inside templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatdate": formatDate,
		"sortbytime": sortByTime,
		"reverse":    reverse,
		"filter":     filter,
		"match":      match,
		"prev":       prevPost,
		"next":       nextPost,
		"join":       path.Join,
		"ext":        path.Ext,
		"trimsuffix": strings.TrimSuffix,
		"trimprefix": strings.TrimPrefix,
		"trimspace":  strings.TrimSpace,
		"now":        time.Now,
	}
}

func formatDate(layout string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// sortByTime returns a copy of the posts sorted newest first.
func sortByTime(posts []*content.Post) []*content.Post {
	out := append([]*content.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Before(out[i].Date) })
	return out
}

// reverse returns the posts in reverse order.
func reverse(posts []*content.Post) []*content.Post {
	out := make([]*content.Post, len(posts))
	for i := range posts {
		out[len(posts)-1-i] = posts[i]
	}
	return out
}

// filter trims out posts whose slug matches none of the patterns.
func filter(posts []*content.Post, pat ...string) []*content.Post {
	var out []*content.Post
	for _, p := range posts {
		if match(p.Slug, pat...) {
			out = append(out, p)
		}
	}
	return out
}

// match uses path.Match to test s against the patterns.
func match(s string, pat ...string) bool {
	for i := range pat {
		ok, err := path.Match(pat[i], s)
		if err != nil {
			log.Warn("bad match pattern", "pattern", pat[i], "error", err)
		}
		if ok {
			return true
		}
	}
	return false
}

// next returns the post after current (one step newer), or nil.
func nextPost(posts []*content.Post, current string) *content.Post {
	for i := range posts {
		if posts[i].Slug == current {
			if i > 0 {
				return posts[i-1]
			}
			return nil
		}
	}
	return nil
}

// prev returns the post before current (one step older), or nil.
func prevPost(posts []*content.Post, current string) *content.Post {
	for i := range posts {
		if posts[i].Slug == current {
			if i < len(posts)-1 {
				return posts[i+1]
			}
			return nil
		}
	}
	return nil
}
