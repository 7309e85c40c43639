/*
Package virtual presents a site directory as the website it renders to.

The underlying file system is a kele site root (content, static, and
template folders plus kele.yaml); the virtual view is the URL namespace.
Opening "posts/hello-world.html" (or the extensionless form the server
uses for pretty URLs) renders content/posts/hello-world.md through the
markdown pipeline and the site templates, and returns the result as a
read-only in-memory file. Static assets and non-markdown content files are
passed through at their own paths, and "sitemap.txt" and "feed.xml" are
materialized from the route table.

The route table is re-scanned on a short interval, so the development
server picks up added, removed, and edited files without restarting.
Wrap the FS in a caching layer (see cachefs) to avoid re-rendering every
page on every request.
*/
package virtual

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Aaronwn/kele/render"
	"github.com/Aaronwn/kele/site"
	"github.com/Aaronwn/kele/theme"
)

// snapshotTTL is how long a route table scan stays valid.
const snapshotTTL = 2 * time.Second

// FS provides a virtual website view over a site root.
type FS struct {
	root      fs.FS
	contentFS fs.FS
	cfg       site.Config
	reg       *theme.Registry
	log       *log.Logger

	mu   sync.Mutex
	snap *snapshot
}

// snapshot is one scan of the content tree: the site model, a renderer
// bound to its route set, and a path index for page lookups.
type snapshot struct {
	site     *site.Site
	renderer *render.Renderer
	byPath   map[string]site.Route
	expires  time.Time
}

// New returns a virtual FS over the given site root.
func New(root fs.FS, cfg site.Config, reg *theme.Registry, logger *log.Logger) (*FS, error) {
	if logger == nil {
		logger = log.Default()
	}
	contentFS, err := fs.Sub(root, cfg.ContentDir)
	if err != nil {
		return nil, err
	}
	return &FS{root: root, contentFS: contentFS, cfg: cfg, reg: reg, log: logger}, nil
}

// Open opens the named file in the virtual URL namespace.
func (vfs *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name != "." && containsHiddenSegment(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	switch name {
	case "sitemap.txt":
		snap := vfs.snapshot()
		return newMemFile("sitemap.txt", site.Sitemap(snap.site), time.Now()), nil
	case "feed.xml":
		snap := vfs.snapshot()
		feed, err := site.Feed(snap.site)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return newMemFile("feed.xml", feed, time.Now()), nil
	}

	// static assets and raw content files win over page rendering
	if name != "." {
		if f, err := vfs.openPassthrough(name); err == nil {
			return f, nil
		}
	}

	switch {
	case name == ".":
		return vfs.openDir(".")
	case strings.HasSuffix(name, ".html"):
		return vfs.openPage(strings.TrimSuffix(name, ".html") + ".md")
	case path.Ext(name) == "":
		if fi, err := fs.Stat(vfs.contentFS, name); err == nil && fi.IsDir() {
			return vfs.openDir(name)
		}
		if f, err := vfs.openPage(name + ".md"); err == nil {
			return f, nil
		}
		if f, err := vfs.openPage(path.Join(name, "index.md")); err == nil {
			return f, nil
		}
		return vfs.openStaticDir(name)
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// openPassthrough serves files that need no rendering: static assets and
// non-markdown files inside the content tree.
func (vfs *FS) openPassthrough(name string) (fs.File, error) {
	if f, err := vfs.root.Open(path.Join(vfs.cfg.StaticDir, name)); err == nil {
		if fi, err := f.Stat(); err == nil && !fi.IsDir() {
			return f, nil
		}
		f.Close()
	}
	if path.Ext(name) != "" && path.Ext(name) != ".md" && path.Ext(name) != ".html" {
		if f, err := vfs.contentFS.Open(name); err == nil {
			if fi, err := f.Stat(); err == nil && !fi.IsDir() {
				return f, nil
			}
			f.Close()
		}
	}
	return nil, fs.ErrNotExist
}

// openPage renders the markdown file at the given content-relative path.
func (vfs *FS) openPage(mdPath string) (fs.File, error) {
	snap := vfs.snapshot()
	rt, ok := snap.byPath[site.RoutePath(mdPath)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: mdPath, Err: fs.ErrNotExist}
	}
	page, err := site.RenderPage(vfs.reg, snap.renderer, snap.site, rt)
	if err != nil {
		vfs.log.Error("render failed", "source", rt.Source, "error", err)
		return nil, &fs.PathError{Op: "open", Path: mdPath, Err: err}
	}
	modTime := time.Now()
	if fi, err := fs.Stat(vfs.contentFS, rt.Source); err == nil {
		modTime = fi.ModTime()
	}
	base := strings.TrimSuffix(path.Base(rt.Source), ".md") + ".html"
	return newMemFile(base, page, modTime), nil
}

// openDir lists a content directory in its virtual form: markdown files
// appear as .html files, hidden entries are dropped, and the root also
// shows top-level static assets.
func (vfs *FS) openDir(dir string) (fs.File, error) {
	entries, err := fs.ReadDir(vfs.contentFS, dir)
	if err != nil {
		return nil, err
	}
	var out []fs.DirEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		name := entry.Name()
		if !entry.IsDir() && path.Ext(name) == ".md" {
			name = strings.TrimSuffix(name, ".md") + ".html"
		}
		out = append(out, dirEntry{info: fileInfo{
			name:    name,
			size:    info.Size(),
			mode:    info.Mode(),
			modTime: info.ModTime(),
		}})
	}
	if dir == "." {
		out = append(out, vfs.staticRootEntries(out)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	dirName := path.Base(dir)
	if dir == "." {
		dirName = "."
	}
	return &virtualDir{
		info:    fileInfo{name: dirName, mode: fs.ModeDir | 0o555, modTime: time.Now()},
		entries: out,
	}, nil
}

// openStaticDir lists a directory that exists only in the static tree.
func (vfs *FS) openStaticDir(dir string) (fs.File, error) {
	full := path.Join(vfs.cfg.StaticDir, dir)
	fi, err := fs.Stat(vfs.root, full)
	if err != nil || !fi.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrNotExist}
	}
	entries, err := fs.ReadDir(vfs.root, full)
	if err != nil {
		return nil, err
	}
	var out []fs.DirEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, dirEntry{info: fileInfo{
			name:    entry.Name(),
			size:    info.Size(),
			mode:    info.Mode(),
			modTime: info.ModTime(),
		}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return &virtualDir{
		info:    fileInfo{name: path.Base(dir), mode: fs.ModeDir | 0o555, modTime: time.Now()},
		entries: out,
	}, nil
}

// staticRootEntries merges top-level static assets into the root listing,
// skipping names the content tree already claims.
func (vfs *FS) staticRootEntries(existing []fs.DirEntry) []fs.DirEntry {
	entries, err := fs.ReadDir(vfs.root, vfs.cfg.StaticDir)
	if err != nil {
		return nil
	}
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[e.Name()] = true
	}
	var out []fs.DirEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || taken[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, dirEntry{info: fileInfo{
			name:    entry.Name(),
			size:    info.Size(),
			mode:    info.Mode(),
			modTime: info.ModTime(),
		}})
	}
	return out
}

// snapshot returns the current route table scan, refreshing it when the
// TTL has passed.
func (vfs *FS) snapshot() *snapshot {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()
	if vfs.snap != nil && time.Now().Before(vfs.snap.expires) {
		return vfs.snap
	}
	routes := site.Scan(vfs.contentFS, vfs.log)
	model := site.NewSite(vfs.cfg, routes)
	byPath := make(map[string]site.Route, len(routes))
	for _, rt := range routes {
		byPath[rt.Path] = rt
	}
	vfs.snap = &snapshot{
		site: model,
		renderer: render.New(render.Config{
			BasePath: vfs.cfg.BasePath(),
			Style:    vfs.cfg.Highlight,
			Resolve:  model.HasRoute,
			Logger:   vfs.log,
		}),
		byPath:  byPath,
		expires: time.Now().Add(snapshotTTL),
	}
	return vfs.snap
}

// containsHiddenSegment reports whether any path element starts with a
// period. The name is slash-delimited per the fs.FS contract.
func containsHiddenSegment(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
