package export

import (
	"context"
	"encoding/json"
	"io"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// JSONExporter writes the category to dorks mapping, preserving category
// order.
type JSONExporter struct{}

func (e *JSONExporter) Format() string {
	return "json"
}

func (e *JSONExporter) Export(ctx context.Context, results *engine.Results, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if results == nil {
		results = engine.NewResults()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(results)
}
