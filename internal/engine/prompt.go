package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TextGenerator turns a prompt into freeform text. llm providers satisfy it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt returns the generation prompt for cat asking for n dorks.
func BuildPrompt(cat Category, n int) string {
	if n <= 0 {
		n = DefaultBatchSize
	}
	return fmt.Sprintf("Generate exactly %d best Google dorks for: %s. Only return the dorks, nothing else.", n, cat)
}

// ParseLines splits a generation response into dorks: a wrapping markdown
// code fence is removed, each line is trimmed and blank lines are dropped.
// The count is passed through unchanged.
func ParseLines(text string) []string {
	text = stripCodeFence(text)
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = ""
	}
	if end := strings.LastIndex(trimmed, "```"); end != -1 {
		trimmed = trimmed[:end]
	}
	return strings.TrimSpace(trimmed)
}

// errEmptyResponse is returned when a response yields no dorks.
var errEmptyResponse = errors.New("empty response")

// LLMGenerator adapts a TextGenerator into a GenerateFunc that asks for n
// dorks per category.
func LLMGenerator(gen TextGenerator, n int) GenerateFunc {
	return func(ctx context.Context, cat Category) ([]string, error) {
		text, err := gen.Generate(ctx, BuildPrompt(cat, n))
		if err != nil {
			return nil, err
		}
		lines := ParseLines(text)
		if len(lines) == 0 {
			return nil, errEmptyResponse
		}
		return lines, nil
	}
}
