package export

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// CSVExporter writes one (category, dork) row per dork under the
// "Choice,Generated Google Dorks" header.
type CSVExporter struct{}

func (e *CSVExporter) Format() string {
	return "csv"
}

func (e *CSVExporter) Export(ctx context.Context, results *engine.Results, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows(results)); err != nil {
		return err
	}
	return cw.Error()
}
