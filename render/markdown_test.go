package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func testRenderer(t *testing.T, cfg Config) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Logger = log.New(&buf)
	return New(cfg), &buf
}

func TestRenderHighlight(t *testing.T) {
	r, logs := testRenderer(t, Config{Style: "github"})
	out := string(r.Render([]byte("```typescript\nconst x = 1\n```\n")))
	if !strings.Contains(out, "<pre") {
		t.Fatalf("no code block in output: %q", out)
	}
	if !strings.Contains(out, "<span style=") {
		t.Errorf("expected highlighted spans, got %q", out)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %s", logs.String())
	}
}

func TestRenderUnknownLanguage(t *testing.T) {
	r, logs := testRenderer(t, Config{})
	out := string(r.Render([]byte("```made-up-lang\nhello()\n```\n")))
	if !strings.Contains(out, `<pre><code class="language-made-up-lang">`) {
		t.Errorf("expected plain fallback, got %q", out)
	}
	if strings.Contains(out, "<span style=") {
		t.Errorf("unknown language should not be highlighted: %q", out)
	}
	if !strings.Contains(logs.String(), "no highlighting grammar") {
		t.Errorf("expected a warning, logs: %s", logs.String())
	}
}

func TestRenderNoLanguage(t *testing.T) {
	r, logs := testRenderer(t, Config{})
	out := string(r.Render([]byte("```\nplain\n```\n")))
	if !strings.Contains(out, "<pre><code>plain\n</code></pre>") {
		t.Errorf("output = %q", out)
	}
	if logs.Len() != 0 {
		t.Errorf("plain blocks should not warn: %s", logs.String())
	}
}

func TestRenderHeadingAnchors(t *testing.T) {
	r, _ := testRenderer(t, Config{})
	out := string(r.Render([]byte("## Getting Started\n\ntext\n\n## Getting Started\n")))
	if !strings.Contains(out, `id="getting-started"`) {
		t.Errorf("missing anchor id, got %q", out)
	}
	if !strings.Contains(out, `id="getting-started-1"`) {
		t.Errorf("duplicate headings should get distinct ids, got %q", out)
	}
}

func TestRenderLinks(t *testing.T) {
	known := map[string]bool{"/posts/a": true, "/about": true}
	r, logs := testRenderer(t, Config{
		BasePath: "/blog",
		Resolve:  func(p string) bool { return known[p] },
	})
	body := strings.Join([]string{
		"[a](/posts/a.md)",
		"[about](/about)",
		"[missing](/nope)",
		"[ext](https://example.com/x)",
		"[frag](#section)",
		"[rel](sibling)",
	}, " ")
	out := string(r.Render([]byte(body)))

	for _, want := range []string{
		`href="/blog/posts/a"`,
		`href="/blog/about"`,
		`href="/blog/nope"`,
		`href="https://example.com/x"`,
		`href="#section"`,
		`href="sibling"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}
	if !strings.Contains(logs.String(), "unresolved internal link") || !strings.Contains(logs.String(), "/nope") {
		t.Errorf("expected warning about /nope, logs: %s", logs.String())
	}
	if strings.Contains(logs.String(), "/posts/a") || strings.Contains(logs.String(), "/about") {
		t.Errorf("known routes should not warn, logs: %s", logs.String())
	}
}

func TestRenderIndexLinkCollapses(t *testing.T) {
	r, _ := testRenderer(t, Config{Resolve: func(p string) bool { return p == "/guides" }})
	out := string(r.Render([]byte("[g](/guides/index.md)")))
	if !strings.Contains(out, `href="/guides"`) {
		t.Errorf("index link should collapse to directory route, got %q", out)
	}
}

func TestRenderEmptyBody(t *testing.T) {
	r, _ := testRenderer(t, Config{})
	if out := r.Render(nil); len(out) != 0 {
		t.Errorf("Render(nil) = %q, want empty", out)
	}
	if out := r.Render([]byte("  \n\t\n")); len(out) != 0 {
		t.Errorf("whitespace body should render empty, got %q", out)
	}
}
