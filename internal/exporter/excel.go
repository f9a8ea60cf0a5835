package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salesdash/pkg/contracts/domain"
)

// ExcelContentType is the MIME type for xlsx downloads
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelExporter writes filtered sales rows into an xlsx workbook
type ExcelExporter struct {
	sheetName string
	logger    *slog.Logger
}

// NewExcelExporter creates an exporter writing to the named sheet
func NewExcelExporter(sheetName string, logger *slog.Logger) *ExcelExporter {
	if sheetName == "" {
		sheetName = "Filtered_Sales_Data"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{sheetName: sheetName, logger: logger}
}

// Export builds an in-memory workbook with the header row followed by
// one row per record and returns the serialized bytes. Numeric columns
// are written as numbers so spreadsheet tools can aggregate them.
func (e *ExcelExporter) Export(ctx context.Context, columns []string, records []domain.SaleRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(e.sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if e.sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("removing default sheet: %w", err)
		}
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(e.sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for rowIdx, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return nil, fmt.Errorf("computing cell name: %w", err)
		}

		row := cellValues(record, columns)
		if err := f.SetSheetRow(e.sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", rowIdx+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}

	e.logger.InfoContext(ctx, "xlsx export generated",
		slog.String("sheet", e.sheetName),
		slog.Int("rows", len(records)),
		slog.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// cellValues maps a record onto the column order, writing amounts and
// quantities as numbers and everything else as the normalized text.
func cellValues(record domain.SaleRecord, columns []string) []interface{} {
	row := make([]interface{}, len(columns))
	for i, col := range columns {
		switch col {
		case "total_sales":
			row[i] = record.Amount
		case "quantity":
			if record.Quantity != nil {
				row[i] = *record.Quantity
			} else {
				row[i] = ""
			}
		default:
			if i < len(record.Fields) {
				row[i] = record.Fields[i]
			} else {
				row[i] = ""
			}
		}
	}
	return row
}
