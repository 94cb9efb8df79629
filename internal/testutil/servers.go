// Package testutil provides fake versions of the external services dorkgen
// talks to: the Gemini generateContent API, a web search results page and
// the Shodan host search API.
//
// All user-derived values embedded in HTML responses are escaped via
// html/template.
package testutil

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
)

const (
	// GeminiAPIKey is the only key the fake Gemini server accepts.
	GeminiAPIKey = "test-gemini-key"

	// ShodanAPIKey is the only key the fake Shodan server accepts.
	ShodanAPIKey = "test-shodan-key"

	// FailingCategoryMarker makes the fake Gemini server reject any prompt
	// whose category contains it.
	FailingCategoryMarker = "Vulnerabilities"

	// BlockedQueryMarker makes the fake search server answer 429.
	BlockedQueryMarker = "blocked"
)

var tmplSearch = template.Must(template.New("search").Parse(
	`<html><head><title>{{.Query}} - Search</title></head><body>
<div id="search">
{{range .Titles}}<div class="g"><a href="https://example.com/"><h3>{{.}}</h3></a><span>snippet</span></div>
{{end}}</div></body></html>`))

// promptPattern pulls the count and the category out of a generation prompt.
var promptPattern = regexp.MustCompile(`exactly (\d+) best Google dorks for: (.+)\. Only return`)

// ---------------------------------------------------------------------------
// Gemini
// ---------------------------------------------------------------------------

// NewGeminiServer fakes POST /v1beta/models/{model}:generateContent.
//
//   - Wrong or missing x-goog-api-key: 400 with a Google-style error body
//   - Category containing FailingCategoryMarker: 400 "simulated failure"
//   - Otherwise: N dorks for the category, wrapped in a markdown code fence
func NewGeminiServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1beta/models/{call}", handleGenerateContent)
	return httptest.NewServer(mux)
}

func handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.PathValue("call"), ":generateContent") {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("x-goog-api-key") != GeminiAPIKey {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid. Please pass a valid API key.", "status": "INVALID_ARGUMENT"},
		})
		return
	}

	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "malformed request"}})
		return
	}

	m := promptPattern.FindStringSubmatch(req.Contents[0].Parts[0].Text)
	if m == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "unexpected prompt"}})
		return
	}
	n, _ := strconv.Atoi(m[1])
	category := m[2]
	if strings.Contains(category, FailingCategoryMarker) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "simulated failure"}})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": "```\n" + strings.Join(DorksFor(category, n), "\n") + "\n```"}},
			},
			"finishReason": "STOP",
		}},
	})
}

// DorksFor returns the n dorks the fake Gemini server produces for category.
func DorksFor(category string, n int) []string {
	dorks := make([]string, n)
	for i := range dorks {
		dorks[i] = fmt.Sprintf("intext:%q site:example%d.com", category, i+1)
	}
	return dorks
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

// NewSearchServer fakes GET /search?q=... with an HTML page holding two h3
// titles that echo the query. Queries containing BlockedQueryMarker get 429.
func NewSearchServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if strings.Contains(q, BlockedQueryMarker) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct {
			Query  string
			Titles []string
		}{q, SearchTitles(q)}
		tmplSearch.Execute(w, data) //nolint:errcheck
	})
	return httptest.NewServer(mux)
}

// SearchTitles returns the titles the fake search server lists for q.
func SearchTitles(q string) []string {
	return []string{"First result for " + q, "Second result for " + q}
}

// ---------------------------------------------------------------------------
// Shodan
// ---------------------------------------------------------------------------

// NewShodanServer fakes GET /shodan/host/search?key=...&query=...
// Any key other than ShodanAPIKey gets 401.
func NewShodanServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /shodan/host/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != ShodanAPIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid API key"})
			return
		}
		q := r.URL.Query().Get("query")
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Empty search query"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total": 2,
			"matches": []any{
				map[string]any{"ip_str": "192.0.2.10", "port": 80, "org": "Example Org", "hostnames": []string{"a.example"}, "data": "HTTP/1.1 200 OK\r\nServer: " + q},
				map[string]any{"ip_str": "192.0.2.11", "port": 443, "hostnames": []string{}, "data": "Server: " + q},
			},
		})
	})
	return httptest.NewServer(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
