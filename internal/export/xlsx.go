package export

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// SheetName is the worksheet the XLSX exporter writes to.
const SheetName = "Dorks"

// XLSXExporter writes the CSV layout into a single Excel worksheet.
type XLSXExporter struct{}

func (e *XLSXExporter) Format() string {
	return "xlsx"
}

func (e *XLSXExporter) Export(ctx context.Context, results *engine.Results, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	all := append([][]string{header}, rows(results)...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 45); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 60); err != nil {
		return err
	}
	return f.Write(w)
}
