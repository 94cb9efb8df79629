package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/0x6d61/dorkgen/internal/transport"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIProvider calls any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client  transport.Client
	baseURL string
	apiKey  string
	model   string
}

// NewOpenAI returns an OpenAI-compatible provider. A Gemini model name left
// over from the defaults is replaced with the OpenAI default model.
func NewOpenAI(client transport.Client, baseURL, apiKey, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

func (o *OpenAIProvider) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// Generate sends prompt as a single user message.
func (o *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	req, err := transport.NewJSONRequest(http.MethodPost, o.baseURL+"/chat/completions", chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	req.Headers = map[string]string{"Authorization": "Bearer " + o.apiKey}

	resp, err := o.client.Do(ctx, req)
	if err != nil {
		return "", &NetworkError{Provider: "openai", Err: err}
	}
	if !resp.OK() {
		return "", newProviderError("openai", resp.StatusCode, resp.Body)
	}

	var out struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := resp.DecodeJSON(&out); err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}
