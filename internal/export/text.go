package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// TextExporter writes the human-readable report: a heading per category,
// one dork per line, a blank line after each group.
type TextExporter struct{}

func (e *TextExporter) Format() string {
	return "text"
}

func (e *TextExporter) Export(ctx context.Context, results *engine.Results, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if results == nil {
		return nil
	}

	b := &strings.Builder{}
	for _, cat := range results.Categories() {
		dorks, _ := results.Get(cat)
		fmt.Fprintf(b, "Generated Dorks for '%s':\n", cat)
		for _, d := range dorks {
			fmt.Fprintln(b, d)
		}
		fmt.Fprintln(b)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
