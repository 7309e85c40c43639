package site

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// Feed builds the RSS 2.0 feed of the most recent posts. The output is
// deterministic: no build timestamp is injected.
func Feed(s *Site) ([]byte, error) {
	posts := make([]Route, 0, len(s.Routes))
	for _, rt := range s.Routes {
		if rt.IsPost() {
			posts = append(posts, rt)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Page.Date.IsZero() {
			return false
		}
		if posts[j].Page.Date.IsZero() {
			return true
		}
		return posts[j].Page.Date.Before(posts[i].Page.Date)
	})
	max := s.Config.FeedSize
	if max <= 0 || max > len(posts) {
		max = len(posts)
	}

	items := make([]rssItem, 0, max)
	for _, rt := range posts[:max] {
		link := s.Config.AbsoluteURL(rt.Path)
		item := rssItem{
			Title:       rt.Page.Title,
			Link:        link,
			Description: rt.Page.Description,
			GUID:        link,
		}
		if !rt.Page.Date.IsZero() {
			item.PubDate = rt.Page.Date.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.Config.Title,
			Link:        s.Config.AbsoluteURL("/"),
			Description: s.Config.Description,
			Language:    s.Config.Lang,
			Items:       items,
		},
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Sitemap lists the URL of every route, one per line, in route table order.
func Sitemap(s *Site) []byte {
	var buf bytes.Buffer
	for _, rt := range s.Routes {
		buf.WriteString(s.Config.AbsoluteURL(rt.Path))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
