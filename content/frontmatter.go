package content

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Meta holds data scraped from the front matter block of a content file.
// YAML blocks are delimited by "---" and TOML blocks by "+++"; the first
// line of the file decides the format.
type Meta struct {
	Title       string    `yaml:"title" toml:"title"`
	Description string    `yaml:"description" toml:"description"`
	Subtitle    string    `yaml:"subtitle" toml:"subtitle"`
	Lang        string    `yaml:"lang" toml:"lang"`
	Tags        []string  `yaml:"tags" toml:"tags"`
	Template    string    `yaml:"template" toml:"template"`
	Date        time.Time `yaml:"date" toml:"date"`
	Duration    Minutes   `yaml:"duration" toml:"duration"`
	Draft       bool      `yaml:"draft" toml:"draft"`
}

// formats are the front matter styles accepted in content files.
var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// Extract splits src into front matter and markdown body. A file with no
// leading delimiter has empty metadata and the whole input as body. A block
// that is opened but never closed is a *MalformedMetadataError. The returned
// body is exactly the input minus the delimited block, so concatenating the
// block back in front of it reproduces the original bytes.
func Extract(name string, src []byte) (Meta, []byte, error) {
	var meta Meta
	delim, openLine := openingDelimiter(src)
	if delim == "" {
		return meta, src, nil
	}
	body, ok := splitBody(src, delim)
	if !ok {
		return meta, nil, &MalformedMetadataError{Path: name, Line: openLine}
	}
	if _, err := frontmatter.Parse(bytes.NewReader(src), &meta, formats...); err != nil {
		return Meta{}, nil, fmt.Errorf("%s: parse front matter: %w", name, err)
	}
	return meta, body, nil
}

// openingDelimiter reports the delimiter opening a front matter block, if any.
// The block must start on the first line of the file.
func openingDelimiter(src []byte) (delim string, line int) {
	s := bufio.NewScanner(bytes.NewReader(src))
	if !s.Scan() {
		return "", 0
	}
	switch strings.TrimRight(s.Text(), " \t\r") {
	case "---":
		return "---", 1
	case "+++":
		return "+++", 1
	}
	return "", 0
}

// splitBody returns everything after the line closing the front matter block.
func splitBody(src []byte, delim string) ([]byte, bool) {
	pos := len(delim) // skip the opening delimiter on line one
	for pos < len(src) {
		nl := bytes.IndexByte(src[pos:], '\n')
		if nl < 0 {
			return nil, false
		}
		lineStart := pos + nl + 1
		end := bytes.IndexByte(src[lineStart:], '\n')
		var line []byte
		if end < 0 {
			line = src[lineStart:]
			pos = len(src)
		} else {
			line = src[lineStart : lineStart+end]
			pos = lineStart + end
		}
		if string(bytes.TrimRight(line, " \t\r")) == delim {
			if end < 0 {
				return []byte{}, true
			}
			return src[lineStart+end+1:], true
		}
	}
	return nil, false
}

// Minutes is a reading duration in minutes. Front matter may declare it
// either as a bare number or as a string like "12min".
type Minutes int

func (m Minutes) String() string {
	return strconv.Itoa(int(m)) + "min"
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML front matter.
func (m *Minutes) UnmarshalText(text []byte) error {
	return m.parse(string(text))
}

// UnmarshalYAML implements yaml.Unmarshaler for YAML front matter.
func (m *Minutes) UnmarshalYAML(value *yaml.Node) error {
	return m.parse(value.Value)
}

func (m *Minutes) parse(s string) error {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, suffix := range []string{"minutes", "minute", "mins", "min", "m"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	if s == "" {
		*m = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*m = Minutes(n)
	return nil
}
