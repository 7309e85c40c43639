// Package site materializes routes from a content tree and builds the
// static output for a kele site.
package site

import (
	"net/url"
	"strings"
)

// Config holds the site-wide settings loaded from kele.yaml. It is
// established once at startup and never mutated afterwards; rendering
// code receives it by value.
type Config struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Author      string `mapstructure:"author"`
	BaseURL     string `mapstructure:"baseURL"`
	Lang        string `mapstructure:"lang"`
	ContentDir  string `mapstructure:"contentDir"`
	StaticDir   string `mapstructure:"staticDir"`
	TemplateDir string `mapstructure:"templateDir"`
	OutputDir   string `mapstructure:"outputDir"`
	Highlight   string `mapstructure:"highlight"`
	FeedSize    int    `mapstructure:"feedSize"`
}

// DefaultConfig returns the conventional settings used when kele.yaml is
// absent or partial.
func DefaultConfig() Config {
	return Config{
		Title:       "My Site",
		Lang:        "en",
		ContentDir:  "content",
		StaticDir:   "static",
		TemplateDir: "template",
		OutputDir:   "public",
		Highlight:   "github",
		FeedSize:    20,
	}
}

// BasePath returns the path component of the base URL, without a trailing
// slash. Root-relative links are prefixed with it.
func (c Config) BasePath() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(u.Path, "/")
}

// AbsoluteURL joins an URL path onto the base URL for use in feeds and
// the sitemap.
func (c Config) AbsoluteURL(urlPath string) string {
	base := strings.TrimSuffix(c.BaseURL, "/")
	if urlPath == "/" {
		return base + "/"
	}
	return base + urlPath
}
