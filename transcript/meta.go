package transcript

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Meta is what an episode page says about itself.
type Meta struct {
	Title       string    `json:"title,omitempty"`
	Episode     int       `json:"episode,omitempty"`
	Published   time.Time `json:"published,omitzero"`
	Description string    `json:"description,omitempty"`
}

// Label is a short human name for the episode, empty when the page has no title.
func (m Meta) Label() string {
	switch {
	case m.Title == "":
		return ""
	case m.Episode > 0:
		return fmt.Sprintf("#%d %s", m.Episode, m.Title)
	default:
		return m.Title
	}
}

// extractMeta reads the page title, the description meta tags and any JSON-LD
// blocks. Missing or malformed pieces are left empty.
func extractMeta(doc *goquery.Document) Meta {
	var m Meta

	title := doc.Find("title").First().Text()
	if title == "" {
		title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	}
	// "Episode name | Site name"
	m.Title = collapse(strings.Split(title, "|")[0])

	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if v, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(v) != "" {
			m.Description = collapse(v)
			break
		}
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		walkLD(v, &m)
	})

	return m
}

// walkLD fills unset fields from a JSON-LD value, descending into arrays and @graph.
func walkLD(v any, m *Meta) {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			walkLD(item, m)
		}
	case map[string]any:
		if m.Published.IsZero() {
			if raw, ok := node["datePublished"].(string); ok {
				m.Published = parseDate(raw)
			}
		}
		if m.Episode == 0 {
			m.Episode = episodeNumber(node["episodeNumber"])
		}
		if m.Description == "" {
			if raw, ok := node["description"].(string); ok {
				m.Description = collapse(raw)
			}
		}
		if graph, ok := node["@graph"]; ok {
			walkLD(graph, m)
		}
	}
}

func parseDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t
		}
	}
	return time.Time{}
}

func episodeNumber(v any) int {
	switch n := v.(type) {
	case float64:
		if n > 0 && n == float64(int(n)) {
			return int(n)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && i > 0 {
			return i
		}
	}
	return 0
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
