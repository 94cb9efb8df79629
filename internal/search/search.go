// Package search runs a dork against a web search engine and extracts the
// result titles.
package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/0x6d61/dorkgen/internal/transport"
)

// SearchError reports a failed search for one query.
type SearchError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *SearchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search %q: HTTP %d", e.Query, e.StatusCode)
	}
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// Client queries {baseURL}/search?q=...
type Client struct {
	http    transport.Client
	baseURL string
}

// New returns a search client. Pacing, proxy and User-Agent rotation are
// properties of the transport.
func New(client transport.Client, baseURL string) *Client {
	return &Client{http: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Search fetches the result page for query and returns the text of every
// h3 element, in document order. Empty titles are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	resp, err := c.http.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/search",
		Query:  url.Values{"q": {query}},
	})
	if err != nil {
		return nil, &SearchError{Query: query, Err: err}
	}
	if !resp.OK() {
		return nil, &SearchError{Query: query, StatusCode: resp.StatusCode}
	}
	return ExtractTitles(resp.Body)
}

// ExtractTitles returns the trimmed text of each h3 in an HTML document.
func ExtractTitles(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: parse html: %w", err)
	}
	var titles []string
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			titles = append(titles, t)
		}
	})
	return titles, nil
}
