package virtual

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/Aaronwn/kele/site"
	"github.com/Aaronwn/kele/theme"
)

func testFS(t *testing.T) *FS {
	t.Helper()
	root := fstest.MapFS{
		"content/index.md": {Data: []byte("---\ntitle: Home\n---\nWelcome to the dev server.\n")},
		"content/posts/hello-world.md": {Data: []byte(
			"---\ntitle: Hello\ndate: 2024-01-01\n---\nBody of *hello*.\n")},
		"content/posts/wip.md":      {Data: []byte("---\ntitle: WIP\ndraft: true\n---\nnot done\n")},
		"content/posts/diagram.png": {Data: []byte("png bytes")},
		"static/css/site.css":       {Data: []byte("body { margin: 0 }")},
		"static/robots.txt":         {Data: []byte("User-agent: *\n")},
	}
	reg, err := theme.Load(root, "templates")
	if err != nil {
		t.Fatalf("theme.Load: %v", err)
	}
	vfs, err := New(root, site.DefaultConfig(), reg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return vfs
}

func readAll(t *testing.T, vfs *FS, name string) []byte {
	t.Helper()
	f, err := vfs.Open(name)
	if err != nil {
		t.Fatalf("Open(%q): %v", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %q: %v", name, err)
	}
	return data
}

func TestOpenPage(t *testing.T) {
	vfs := testFS(t)
	for _, name := range []string{
		"posts/hello-world.html",
		"posts/hello-world",
	} {
		page := readAll(t, vfs, name)
		if !bytes.Contains(page, []byte("<em>hello</em>")) {
			t.Errorf("Open(%q) did not render the body:\n%s", name, page)
		}
		if !bytes.Contains(page, []byte("Hello")) {
			t.Errorf("Open(%q) missing title", name)
		}
	}
	home := readAll(t, vfs, "index.html")
	if !bytes.Contains(home, []byte("Welcome to the dev server.")) {
		t.Error("home page did not render")
	}
}

func TestOpenDraft(t *testing.T) {
	// drafts stay visible during development
	vfs := testFS(t)
	page := readAll(t, vfs, "posts/wip")
	if !bytes.Contains(page, []byte("not done")) {
		t.Error("draft not served by the dev view")
	}
}

func TestOpenPassthrough(t *testing.T) {
	vfs := testFS(t)
	if got := readAll(t, vfs, "css/site.css"); !bytes.Contains(got, []byte("margin")) {
		t.Errorf("static asset = %q", got)
	}
	if got := readAll(t, vfs, "robots.txt"); !bytes.Contains(got, []byte("User-agent")) {
		t.Errorf("robots.txt = %q", got)
	}
	if got := readAll(t, vfs, "posts/diagram.png"); string(got) != "png bytes" {
		t.Errorf("content asset = %q", got)
	}
}

func TestOpenGenerated(t *testing.T) {
	vfs := testFS(t)
	sitemap := readAll(t, vfs, "sitemap.txt")
	if !bytes.Contains(sitemap, []byte("/posts/hello-world")) {
		t.Errorf("sitemap = %s", sitemap)
	}
	feed := readAll(t, vfs, "feed.xml")
	if !bytes.Contains(feed, []byte("<title>Hello</title>")) {
		t.Errorf("feed = %s", feed)
	}
}

func TestOpenErrors(t *testing.T) {
	vfs := testFS(t)
	for _, name := range []string{
		"missing",
		"posts/missing.html",
		".git/config",
		"posts/.hidden",
	} {
		_, err := vfs.Open(name)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Open(%q) err = %v, want fs.ErrNotExist", name, err)
		}
	}
	if _, err := vfs.Open("../escape"); !errors.Is(err, fs.ErrInvalid) {
		t.Errorf("Open(../escape) err = %v, want fs.ErrInvalid", err)
	}
	// markdown sources are not exposed raw
	if _, err := vfs.Open("posts/hello-world.md"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(.md) err = %v, want fs.ErrNotExist", err)
	}
}

func TestReadDirRoot(t *testing.T) {
	vfs := testFS(t)
	entries, err := fs.ReadDir(vfs, ".")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}
	for _, want := range []string{"index.html", "posts", "css", "robots.txt"} {
		if !names[want] {
			t.Errorf("root listing missing %q, have %v", want, names)
		}
	}
	if names["index.md"] {
		t.Error("root listing leaks the markdown source name")
	}
}

func TestReadDirPaging(t *testing.T) {
	vfs := testFS(t)
	f, err := vfs.Open("posts")
	if err != nil {
		t.Fatalf("Open(posts): %v", err)
	}
	defer f.Close()
	dir, ok := f.(fs.ReadDirFile)
	if !ok {
		t.Fatal("directory does not implement fs.ReadDirFile")
	}
	var names []string
	for {
		chunk, err := dir.ReadDir(2)
		for _, e := range chunk {
			names = append(names, e.Name())
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadDir(2): %v", err)
		}
	}
	// diagram.png, hello-world.html, wip.html in sorted order
	if len(names) != 3 || names[1] != "hello-world.html" {
		t.Errorf("paged names = %v", names)
	}
}

func TestOpenStaticDir(t *testing.T) {
	vfs := testFS(t)
	f, err := vfs.Open("css")
	if err != nil {
		t.Fatalf("Open(css): %v", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || !fi.IsDir() {
		t.Fatalf("css Stat = %v, %v, want a directory", fi, err)
	}
	entries, err := fs.ReadDir(vfs, "css")
	if err != nil {
		t.Fatalf("ReadDir(css): %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "site.css" {
		t.Errorf("css listing = %v", entries)
	}
}

func TestWalkable(t *testing.T) {
	vfs := testFS(t)
	var seen []string
	err := fs.WalkDir(vfs, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		seen = append(seen, name)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}
	found := make(map[string]bool, len(seen))
	for _, s := range seen {
		found[s] = true
	}
	for _, want := range []string{"posts/hello-world.html", "css/site.css"} {
		if !found[want] {
			t.Errorf("walk missed %q: %v", want, seen)
		}
	}
}
