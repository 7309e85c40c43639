// Package content loads markdown source files and splits them into
// structured front matter and a raw markdown body.
package content

import (
	"fmt"
	"io/fs"
	"strings"
	"time"
	"unicode"
)

// wordsPerMinute is the reading speed assumed when no duration is declared.
const wordsPerMinute = 200

// Post holds one content file: metadata scraped from its front matter
// plus the raw markdown body.
type Post struct {
	Slug        string    // last URL segment, set during route materialization
	Title       string    // title of this page
	Description string    // short summary used for metadata
	Subtitle    string    // secondary line, typically author attribution
	Lang        string    // language tag, e.g. "zh"
	Tags        []string  // tags assigned to this article
	Template    string    // override the template used to render this file
	Date        time.Time // date the article appears
	Minutes     int       // estimated reading time in minutes
	Draft       bool      // drafts are excluded from builds
	Body        []byte    // markdown body without the front matter block
	Source      string    // path of the source file
}

// Load reads the named file from fsys and builds a Post from it.
// The Slug field is left empty; it is derived from the route, not the file.
func Load(fsys fs.FS, name string) (*Post, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	meta, body, err := Extract(name, b)
	if err != nil {
		return nil, err
	}
	p := &Post{
		Title:       meta.Title,
		Description: meta.Description,
		Subtitle:    meta.Subtitle,
		Lang:        meta.Lang,
		Tags:        meta.Tags,
		Template:    meta.Template,
		Date:        meta.Date,
		Minutes:     int(meta.Duration),
		Draft:       meta.Draft,
		Body:        body,
		Source:      name,
	}
	if p.Minutes <= 0 {
		p.Minutes = ReadingTime(body)
	}
	return p, nil
}

// ReadingTime estimates how many minutes it takes to read body,
// assuming roughly 200 words per minute. It never returns less than 1.
func ReadingTime(body []byte) int {
	words := 0
	inWord := false
	for _, r := range string(body) {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		// CJK text has no word spacing; count each ideograph.
		if unicode.Is(unicode.Han, r) {
			words++
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	m := (words + wordsPerMinute - 1) / wordsPerMinute
	if m < 1 {
		m = 1
	}
	return m
}

// HasBody reports whether the post has any body text besides whitespace.
func (p *Post) HasBody() bool {
	return len(strings.TrimSpace(string(p.Body))) > 0
}
