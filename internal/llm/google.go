package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/0x6d61/dorkgen/internal/transport"
)

const (
	defaultGoogleBaseURL = "https://generativelanguage.googleapis.com"
	defaultGoogleModel   = "gemini-1.5-pro-latest"
)

// GoogleProvider calls the Gemini generateContent endpoint.
type GoogleProvider struct {
	client  transport.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGoogle returns a Gemini provider. Empty baseURL and model select the
// public endpoint and gemini-1.5-pro-latest.
func NewGoogle(client transport.Client, baseURL, apiKey, model string) *GoogleProvider {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	if model == "" {
		model = defaultGoogleModel
	}
	return &GoogleProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

func (g *GoogleProvider) Name() string { return "google" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate sends prompt as a single user turn and returns the concatenated
// text parts of the first candidate.
func (g *GoogleProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	apiURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)

	req, err := transport.NewJSONRequest(http.MethodPost, apiURL, body)
	if err != nil {
		return "", err
	}
	// Key goes in a header, not the URL, so it never lands in access logs.
	req.Headers = map[string]string{"x-goog-api-key": g.apiKey}

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return "", &NetworkError{Provider: "google", Err: err}
	}
	if !resp.OK() {
		return "", newProviderError("google", resp.StatusCode, resp.Body)
	}

	var out geminiResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return "", fmt.Errorf("google: %w", err)
	}
	if len(out.Candidates) == 0 {
		if out.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("google: prompt blocked: %s", out.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("google: response has no candidates")
	}

	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
