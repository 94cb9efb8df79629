// Package shodan queries the Shodan host search API.
package shodan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/0x6d61/dorkgen/internal/transport"
)

// APIError is any failure reported by, or on the way to, the Shodan API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return "shodan: " + e.Message
	}
	return fmt.Sprintf("shodan: HTTP %d: %s", e.StatusCode, e.Message)
}

// Match is one host banner.
type Match struct {
	IPStr     string   `json:"ip_str"`
	Port      int      `json:"port"`
	Org       string   `json:"org"`
	Hostnames []string `json:"hostnames"`
	Data      string   `json:"data"`
}

// SearchResult is the decoded /shodan/host/search response.
type SearchResult struct {
	Total   int     `json:"total"`
	Matches []Match `json:"matches"`
}

// Client talks to {baseURL}/shodan/host/search.
type Client struct {
	http    transport.Client
	baseURL string
}

func New(client transport.Client, baseURL string) *Client {
	return &Client{http: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Search runs query with apiKey.
func (c *Client) Search(ctx context.Context, apiKey, query string) (*SearchResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &APIError{Message: "no API key (save one under \"Shodan\")"}
	}

	resp, err := c.http.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/shodan/host/search",
		Query:  url.Values{"key": {apiKey}, "query": {query}},
	})
	if err != nil {
		// The request URL carries the key; keep it out of the message.
		return nil, &APIError{Message: redact(err.Error(), apiKey)}
	}
	if !resp.OK() {
		var body struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if resp.DecodeJSON(&body) == nil && body.Error != "" {
			msg = body.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out SearchResult
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	return &out, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(secret), "REDACTED")
	return strings.ReplaceAll(s, secret, "REDACTED")
}
