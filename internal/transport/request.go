// Package transport provides the HTTP client shared by the generation,
// search and index-search collaborators.
package transport

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Request represents an HTTP request to be sent by the transport client.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string

	// URL is the target URL. Query values are merged into it.
	URL string

	// Query holds extra query parameters.
	Query url.Values

	// Headers contains custom HTTP headers to include.
	Headers map[string]string

	// Body is the request body content.
	Body []byte

	// ContentType is the Content-Type header value.
	ContentType string
}

// NewJSONRequest builds a request whose body is v encoded as JSON.
func NewJSONRequest(method, rawURL string, v any) (*Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return &Request{
		Method:      method,
		URL:         rawURL,
		Body:        body,
		ContentType: "application/json",
	}, nil
}

// FullURL returns URL with Query merged in.
func (r *Request) FullURL() (string, error) {
	if len(r.Query) == 0 {
		return r.URL, nil
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	q := u.Query()
	for k, vs := range r.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
