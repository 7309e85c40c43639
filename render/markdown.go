// Package render converts markdown bodies into HTML fragments: fenced code
// blocks are syntax highlighted, headings receive stable anchor ids, and
// internal links are resolved against the site's base path.
package render

import (
	"bytes"
	"html"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/log"
	"github.com/russross/blackfriday/v2"
)

// Config controls how markdown is rendered.
type Config struct {
	// BasePath is prefixed onto root-relative link and image destinations.
	BasePath string
	// Style names the chroma style used for highlighted code.
	Style string
	// Resolve reports whether an internal URL path maps to a known route.
	// When nil, internal links are not checked.
	Resolve func(urlPath string) bool
	// Logger receives non-fatal rendering warnings. When nil the default
	// logger is used.
	Logger *log.Logger
}

// Renderer renders markdown bodies. It is stateless and safe for
// concurrent use.
type Renderer struct {
	cfg   Config
	style *chroma.Style
}

// New returns a Renderer for the given configuration. An unknown style
// name falls back to the chroma default.
func New(cfg Config) *Renderer {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	style := styles.Get(cfg.Style)
	if style == nil {
		style = styles.Fallback
	}
	return &Renderer{cfg: cfg, style: style}
}

// Render converts a markdown body into an HTML fragment. An empty body
// yields an empty fragment.
func (r *Renderer) Render(src []byte) []byte {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil
	}
	hr := &htmlRenderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags,
		}),
		cfg:   r.cfg,
		style: r.style,
	}
	return blackfriday.Run(src,
		blackfriday.WithRenderer(hr),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.AutoHeadingIDs|blackfriday.Footnotes))
}

// htmlRenderer customizes blackfriday's HTML output for code blocks and
// link destinations. Everything else is delegated.
type htmlRenderer struct {
	*blackfriday.HTMLRenderer
	cfg   Config
	style *chroma.Style
}

func (hr *htmlRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	switch node.Type {
	case blackfriday.CodeBlock:
		hr.codeBlock(w, node)
		return blackfriday.GoToNext
	case blackfriday.Link, blackfriday.Image:
		if entering {
			node.LinkData.Destination = hr.destination(node.LinkData.Destination, node.Type == blackfriday.Link)
		}
	}
	return hr.HTMLRenderer.RenderNode(w, node, entering)
}

// codeBlock writes a fenced code block, highlighted when a grammar for the
// declared language exists. Unknown languages degrade to plain preformatted
// text with a logged warning.
func (hr *htmlRenderer) codeBlock(w io.Writer, node *blackfriday.Node) {
	lang := blockLanguage(node.CodeBlockData.Info)
	code := string(node.Literal)
	if lang == "" {
		plainCode(w, "", code)
		return
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		hr.cfg.Logger.Warn("no highlighting grammar, rendering plain", "language", lang)
		plainCode(w, lang, code)
		return
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		hr.cfg.Logger.Warn("tokenize failed, rendering plain", "language", lang, "error", err)
		plainCode(w, lang, code)
		return
	}
	if err := chromahtml.New().Format(w, hr.style, it); err != nil {
		hr.cfg.Logger.Warn("highlight failed, rendering plain", "language", lang, "error", err)
		plainCode(w, lang, code)
	}
}

// blockLanguage returns the first word of the fence info string.
func blockLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func plainCode(w io.Writer, lang, code string) {
	if lang != "" {
		io.WriteString(w, `<pre><code class="language-`+html.EscapeString(lang)+`">`)
	} else {
		io.WriteString(w, "<pre><code>")
	}
	io.WriteString(w, html.EscapeString(code))
	io.WriteString(w, "</code></pre>\n")
}

// destination rewrites an internal link or image destination: markdown
// source suffixes are trimmed, root-relative paths are checked against the
// known routes and prefixed with the base path. External and fragment-only
// destinations pass through untouched.
func (hr *htmlRenderer) destination(dest []byte, isLink bool) []byte {
	d := string(dest)
	if d == "" || strings.HasPrefix(d, "#") {
		return dest
	}
	u, err := url.Parse(d)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return dest
	}
	if !strings.HasPrefix(u.Path, "/") {
		return dest
	}
	p := u.Path
	if strings.HasSuffix(p, ".md") {
		p = strings.TrimSuffix(p, ".md")
		if path.Base(p) == "index" {
			p = path.Dir(p)
		}
	}
	if isLink && hr.cfg.Resolve != nil && path.Ext(p) == "" && !hr.cfg.Resolve(p) {
		hr.cfg.Logger.Warn("unresolved internal link", "target", p)
	}
	u.Path = hr.cfg.BasePath + p
	return []byte(u.String())
}
