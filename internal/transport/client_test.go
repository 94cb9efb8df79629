package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Helper: create a default test client
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T) *DefaultClient {
	t.Helper()
	c, err := NewClient(ClientOptions{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// Basic GET with query
// ---------------------------------------------------------------------------

func TestGETWithQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		fmt.Fprintf(w, "q=%s page=%s", r.URL.Query().Get("q"), r.URL.Query().Get("page"))
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp, err := c.Do(context.Background(), &Request{
		URL:   srv.URL + "/search?page=2",
		Query: url.Values{"q": {`intitle:"index of" ftp`}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.OK() {
		t.Errorf("StatusCode = %d, want 2xx", resp.StatusCode)
	}
	want := `q=intitle:"index of" ftp page=2`
	if string(resp.Body) != want {
		t.Errorf("Body = %q, want %q", resp.Body, want)
	}
}

// ---------------------------------------------------------------------------
// JSON POST
// ---------------------------------------------------------------------------

func TestJSONRequestRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"echo":%s}`, body)
	}))
	defer srv.Close()

	req, err := NewJSONRequest(http.MethodPost, srv.URL, map[string]string{"prompt": "hi"})
	if err != nil {
		t.Fatalf("NewJSONRequest: %v", err)
	}

	resp, err := newTestClient(t).Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	var out struct {
		Echo struct {
			Prompt string `json:"prompt"`
		} `json:"echo"`
	}
	if err := resp.DecodeJSON(&out); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if out.Echo.Prompt != "hi" {
		t.Errorf("echo.prompt = %q, want %q", out.Echo.Prompt, "hi")
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	resp := &Response{Body: []byte("<html>")}
	var v map[string]any
	if err := resp.DecodeJSON(&v); err == nil {
		t.Error("DecodeJSON on HTML body returned nil error")
	}
}

// ---------------------------------------------------------------------------
// Custom headers and User-Agent policy
// ---------------------------------------------------------------------------

func TestCustomHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "secret" {
			t.Errorf("x-goog-api-key = %q, want %q", got, "secret")
		}
	}))
	defer srv.Close()

	_, err := newTestClient(t).Do(context.Background(), &Request{
		URL:     srv.URL,
		Headers: map[string]string{"x-goog-api-key": "secret"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestUserAgentPolicy(t *testing.T) {
	var receivedUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		opts   ClientOptions
		header string
		check  func(ua string) bool
	}{
		{"default", ClientOptions{}, "", func(ua string) bool { return ua == DefaultUserAgent }},
		{"configured", ClientOptions{UserAgent: "custom/2"}, "", func(ua string) bool { return ua == "custom/2" }},
		{"random", ClientOptions{RandomUserAgent: true}, "", func(ua string) bool {
			return strings.HasPrefix(ua, "Mozilla/5.0")
		}},
		{"explicit header wins", ClientOptions{RandomUserAgent: true}, "custom/1", func(ua string) bool { return ua == "custom/1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.opts)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			req := &Request{URL: srv.URL}
			if tt.header != "" {
				req.Headers = map[string]string{"User-Agent": tt.header}
			}
			if _, err := c.Do(context.Background(), req); err != nil {
				t.Fatalf("Do: %v", err)
			}
			if !tt.check(receivedUA) {
				t.Errorf("User-Agent = %q", receivedUA)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Status code handling
// ---------------------------------------------------------------------------

func TestStatusCodeHandling(t *testing.T) {
	codes := []int{200, 401, 404, 429, 500}
	for _, code := range codes {
		t.Run(fmt.Sprintf("status_%d", code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			defer srv.Close()

			resp, err := newTestClient(t).Do(context.Background(), &Request{URL: srv.URL})
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if resp.StatusCode != code {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, code)
			}
			if resp.OK() != (code == 200) {
				t.Errorf("OK() = %v for status %d", resp.OK(), code)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Timeouts
// ---------------------------------------------------------------------------

func TestTimeoutHandling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c, _ := NewClient(ClientOptions{Timeout: 100 * time.Millisecond})
	if _, err := c.Do(context.Background(), &Request{URL: srv.URL}); err == nil {
		t.Error("expected timeout error, got nil")
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient(t).Do(ctx, &Request{URL: srv.URL}); err == nil {
		t.Error("expected context cancellation error, got nil")
	}
}

// ---------------------------------------------------------------------------
// Proxy configuration
// ---------------------------------------------------------------------------

func TestNewClient_Proxy(t *testing.T) {
	for _, proxy := range []string{"http://127.0.0.1:8080", "socks5://127.0.0.1:1080"} {
		c, err := NewClient(ClientOptions{ProxyURL: proxy})
		if err != nil {
			t.Errorf("NewClient(%q): %v", proxy, err)
			continue
		}
		tr := c.httpClient.Transport.(*http.Transport)
		req, _ := http.NewRequest(http.MethodGet, "https://www.google.com/search?q=x", nil)
		got, err := tr.Proxy(req)
		if err != nil || got == nil || got.String() != proxy {
			t.Errorf("proxy for %q = %v, %v", proxy, got, err)
		}
	}
}

func TestNewClient_InvalidProxy(t *testing.T) {
	if _, err := NewClient(ClientOptions{ProxyURL: "127.0.0.1"}); err == nil {
		t.Error("NewClient with schemeless proxy returned nil error")
	}
}

// ---------------------------------------------------------------------------
// Rate limiting and stats
// ---------------------------------------------------------------------------

func TestSetRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := newTestClient(t)
	c.SetRateLimit(10) // 10 RPS

	start := time.Now()
	for i := 0; i < 5; i++ {
		if _, err := c.Do(context.Background(), &Request{URL: srv.URL}); err != nil {
			t.Fatalf("Do #%d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	// First request is immediate, then 4 waits of ~100ms.
	if elapsed < 300*time.Millisecond {
		t.Errorf("5 requests at 10 RPS took %v, expected at least ~400ms", elapsed)
	}

	c.SetRateLimit(0)
	start = time.Now()
	for i := 0; i < 5; i++ {
		if _, err := c.Do(context.Background(), &Request{URL: srv.URL}); err != nil {
			t.Fatalf("Do #%d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Errorf("unlimited client took %v for 5 local requests", elapsed)
	}
}

func TestRateForInterval(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want float64
	}{
		{0, 0},
		{-time.Second, 0},
		{2 * time.Second, 0.5},
		{100 * time.Millisecond, 10},
	}
	for _, tt := range tests {
		if got := RateForInterval(tt.in); got != tt.want {
			t.Errorf("RateForInterval(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStatsTracking(t *testing.T) {
	var reqCount atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqCount.Add(1)
		time.Sleep(10 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(t)
	for i := 0; i < 5; i++ {
		if _, err := c.Do(context.Background(), &Request{URL: srv.URL}); err != nil {
			t.Fatalf("Do #%d: %v", i, err)
		}
	}

	stats := c.Stats()
	if stats.TotalRequests != 5 || reqCount.Load() != 5 {
		t.Errorf("TotalRequests = %d (server saw %d), want 5", stats.TotalRequests, reqCount.Load())
	}
	if stats.AvgDuration <= 0 {
		t.Errorf("AvgDuration = %v, want > 0", stats.AvgDuration)
	}
	if stats.TotalDuration < 50*time.Millisecond {
		t.Errorf("TotalDuration = %v, want >= 50ms", stats.TotalDuration)
	}
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func TestRequestFullURL_Invalid(t *testing.T) {
	r := &Request{URL: "://bad", Query: url.Values{"a": {"b"}}}
	if _, err := r.FullURL(); err == nil {
		t.Error("FullURL with malformed base returned nil error")
	}
}
