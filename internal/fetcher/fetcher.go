// Package fetcher retrieves URL metadata for link captures: the page
// title, a description, and a readable-text excerpt.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Metadata is what a link capture stores alongside the URL.
type Metadata struct {
	Title       string
	Description string
	Text        string
}

// Fetch retrieves the URL and extracts its metadata.
func Fetch(rawURL string) (*Metadata, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "fleeting/1.0 (thought-capture)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	// Read body with size limit (5MB)
	limited := io.LimitReader(resp.Body, 5*1024*1024)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return Parse(string(body))
}

// IsURL checks if a string looks like a URL.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// Parse extracts metadata from raw HTML.
func Parse(htmlContent string) (*Metadata, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := &Metadata{}
	collectMeta(doc, meta)
	meta.Text = extractText(doc)

	if meta.Title == "" && meta.Text == "" {
		return nil, fmt.Errorf("no content found")
	}
	return meta, nil
}

// collectMeta walks the document for <title> and description meta tags.
// An explicit meta description wins over an OpenGraph one.
func collectMeta(n *html.Node, meta *Metadata) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if meta.Title == "" && n.FirstChild != nil {
				meta.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			var name, property, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					name = attr.Val
				case "property":
					property = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if name == "description" && content != "" {
				meta.Description = strings.TrimSpace(content)
			}
			if property == "og:description" && content != "" && meta.Description == "" {
				meta.Description = strings.TrimSpace(content)
			}
			if property == "og:title" && content != "" && meta.Title == "" {
				meta.Title = strings.TrimSpace(content)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectMeta(c, meta)
	}
}

// extractText returns the readable text content of the document.
func extractText(doc *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)

	// Tags to skip (non-content)
	skipTags := map[string]bool{
		"script": true, "style": true, "nav": true,
		"header": true, "footer": true, "aside": true,
		"noscript": true, "iframe": true, "title": true,
	}

	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)

	// Collapse whitespace, cap at 10KB of text.
	result := strings.Join(strings.Fields(sb.String()), " ")
	if len(result) > 10*1024 {
		result = result[:10*1024] + "..."
	}

	return strings.TrimSpace(result)
}
