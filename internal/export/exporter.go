// Package export renders generated dorks to flat files.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// Exporter writes results in one file format.
type Exporter interface {
	// Format returns the format name (e.g., "text", "csv").
	Format() string

	// Export writes results to w.
	Export(ctx context.Context, results *engine.Results, w io.Writer) error
}

// Formats lists the names accepted by New.
var Formats = []string{"text", "csv", "json", "xlsx"}

// New creates an exporter by format name. The name is case-insensitive.
func New(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "text", "txt":
		return &TextExporter{}, nil
	case "csv":
		return &CSVExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "xlsx", "excel":
		return &XLSXExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// header is the column header shared by the tabular formats.
var header = []string{"Choice", "Generated Google Dorks"}

// rows flattens results into (category, dork) pairs in order.
func rows(results *engine.Results) [][]string {
	if results == nil {
		return nil
	}
	out := make([][]string, 0, results.Total())
	for _, cat := range results.Categories() {
		dorks, _ := results.Get(cat)
		for _, d := range dorks {
			out = append(out, []string{string(cat), d})
		}
	}
	return out
}
