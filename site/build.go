package site

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Aaronwn/kele/render"
	"github.com/Aaronwn/kele/theme"
)

// Builder materializes a site into static output. Root is the site
// directory containing the content, static, and template folders.
type Builder struct {
	Root   fs.FS
	Config Config
	Logger *log.Logger
	Theme  *theme.Registry
}

// Build regenerates the static site under outDir. The output directory is
// removed and rebuilt from scratch; two builds over an unchanged tree
// produce byte-identical output.
func (b *Builder) Build(outDir string) error {
	logger := b.Logger
	if logger == nil {
		logger = log.Default()
	}

	contentFS, err := fs.Sub(b.Root, b.Config.ContentDir)
	if err != nil {
		return fmt.Errorf("build: content directory %q: %w", b.Config.ContentDir, err)
	}
	if _, err := fs.Stat(contentFS, "."); err != nil {
		return fmt.Errorf("build: content directory %q: %w", b.Config.ContentDir, err)
	}

	routes, err := Materialize(contentFS, logger)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	s := NewSite(b.Config, routes)
	renderer := render.New(render.Config{
		BasePath: b.Config.BasePath(),
		Style:    b.Config.Highlight,
		Resolve:  s.HasRoute,
		Logger:   logger,
	})

	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("build: clean %q: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if err := b.copyStatic(outDir); err != nil {
		return err
	}
	if err := copyAssets(contentFS, outDir); err != nil {
		return err
	}
	if err := b.renderAll(s, renderer, routes, outDir, logger); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(outDir, "sitemap.txt"), Sitemap(s), 0o644); err != nil {
		return fmt.Errorf("build: write sitemap: %w", err)
	}
	feed, err := Feed(s)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "feed.xml"), feed, 0o644); err != nil {
		return fmt.Errorf("build: write feed: %w", err)
	}

	logger.Info("site built", "pages", len(routes), "output", outDir)
	return nil
}

// renderAll fans page rendering out over a bounded worker pool. The route
// table and site model are read-only at this point, so pages need no
// coordination beyond error collection.
func (b *Builder) renderAll(s *Site, renderer *render.Renderer, routes []Route, outDir string, logger *log.Logger) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	jobs := make(chan Route)
	workers := runtime.GOMAXPROCS(0)
	if workers > len(routes) && len(routes) > 0 {
		workers = len(routes)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rt := range jobs {
				page, err := RenderPage(b.Theme, renderer, s, rt)
				if err == nil {
					err = writePage(outDir, rt.Path, page)
				}
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				logger.Debug("rendered", "route", rt.Path, "source", rt.Source)
			}
		}()
	}
	for _, rt := range routes {
		jobs <- rt
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return fmt.Errorf("build: %w", firstErr)
	}
	return nil
}

// writePage stores a rendered page at <outDir><urlPath>/index.html.
func writePage(outDir, urlPath string, page []byte) error {
	out := filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(urlPath, "/")), "index.html")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, page, 0o644)
}

// copyStatic copies the static folder verbatim into the output root.
func (b *Builder) copyStatic(outDir string) error {
	fi, err := fs.Stat(b.Root, b.Config.StaticDir)
	if err != nil || !fi.IsDir() {
		return nil // no static assets
	}
	staticFS, err := fs.Sub(b.Root, b.Config.StaticDir)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return copyTree(staticFS, outDir, func(string) bool { return true })
}

// copyAssets copies non-markdown files from the content tree (images and
// the like referenced by posts) into the output at their own paths.
func copyAssets(contentFS fs.FS, outDir string) error {
	return copyTree(contentFS, outDir, func(name string) bool {
		return path.Ext(name) != ".md"
	})
}

func copyTree(src fs.FS, outDir string, keep func(name string) bool) error {
	return fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && name != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !keep(name) {
			return nil
		}
		data, err := fs.ReadFile(src, name)
		if err != nil {
			return fmt.Errorf("build: read %q: %w", name, err)
		}
		dst := filepath.Join(outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
}
