package content

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/hello.md": {Data: []byte("---\ntitle: Hello\ndate: 2024-01-01\n---\nSome words here.\n")},
	}
	p, err := Load(fsys, "posts/hello.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Title != "Hello" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Source != "posts/hello.md" {
		t.Errorf("Source = %q", p.Source)
	}
	if p.Slug != "" {
		t.Errorf("Slug = %q, want empty before route materialization", p.Slug)
	}
	if p.Minutes != 1 {
		t.Errorf("Minutes = %d, want estimated 1", p.Minutes)
	}
	if !p.HasBody() {
		t.Error("HasBody = false")
	}
}

func TestLoadDeclaredDuration(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("---\ntitle: A\nduration: 25min\n---\nshort\n")},
	}
	p, err := Load(fsys, "a.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Minutes != 25 {
		t.Errorf("Minutes = %d, want declared 25", p.Minutes)
	}
}

func TestLoadEmptyBody(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("---\ntitle: A\n---\n")},
	}
	p, err := Load(fsys, "a.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.HasBody() {
		t.Error("HasBody = true for empty body")
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", 1},
		{"few words", "just a few words", 1},
		{"two minutes", strings.Repeat("word ", 300), 2},
		{"cjk", strings.Repeat("字", 250), 2},
	}
	for _, tt := range tests {
		if got := ReadingTime([]byte(tt.body)); got != tt.want {
			t.Errorf("%s: ReadingTime = %d, want %d", tt.name, got, tt.want)
		}
	}
}
