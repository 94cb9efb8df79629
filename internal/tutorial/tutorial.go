// Package tutorial holds the built-in dork tutorials and renders them for
// the terminal.
package tutorial

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Topic is one tutorial page.
type Topic struct {
	Title    string
	Markdown string
}

// Topics in menu order.
var Topics = []Topic{
	{
		Title: "What are Google Dorks?",
		Markdown: `# What are Google Dorks?

Google Dorks are advanced search operators used to find specific information on the web.
They narrow a query to one site, file type, URL fragment or page title, which
surfaces pages an ordinary keyword search buries.
`,
	},
	{
		Title: "How to Use Google Dorks Effectively",
		Markdown: "# How to Use Google Dorks Effectively\n\n" +
			"To use Google Dorks effectively, combine operators like `site:`, `intitle:`, and `filetype:` with specific keywords.\n\n" +
			"- Start broad, then add one operator at a time.\n" +
			"- Quote multi-word phrases: `intitle:\"index of\"`.\n" +
			"- Exclude noise with a leading minus: `site:example.com -www`.\n" +
			"- Only search targets you are authorised to assess.\n",
	},
	{
		Title: "Examples of Common Google Dorks",
		Markdown: "# Examples of Common Google Dorks\n\n" +
			"1. `site:example.com filetype:pdf`\n" +
			"2. `intitle:\"index of\"`\n" +
			"3. `inurl:admin`\n",
	},
}

// Lookup returns the topic for a 1-based menu index.
func Lookup(index int) (Topic, bool) {
	if index < 1 || index > len(Topics) {
		return Topic{}, false
	}
	return Topics[index-1], true
}

// Renderer turns tutorial markdown into styled terminal text.
type Renderer struct {
	tr *glamour.TermRenderer
}

// NewRenderer builds a renderer that wraps at width columns. An empty style
// picks light or dark from the terminal background; "notty" renders
// without colour.
func NewRenderer(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("tutorial: renderer: %w", err)
	}
	return &Renderer{tr: tr}, nil
}

// Render returns the styled topic. On a rendering failure the raw markdown
// is returned with the error.
func (r *Renderer) Render(t Topic) (string, error) {
	if r == nil || r.tr == nil {
		return t.Markdown, nil
	}
	out, err := r.tr.Render(t.Markdown)
	if err != nil {
		return t.Markdown, fmt.Errorf("tutorial: render %q: %w", t.Title, err)
	}
	return out, nil
}
