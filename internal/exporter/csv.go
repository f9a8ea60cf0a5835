package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"salesdash/pkg/contracts/domain"
)

// CSVContentType is the MIME type for csv downloads
const CSVContentType = "text/csv; charset=utf-8"

// utf8BOM makes Excel detect UTF-8 when opening the file directly
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes filtered sales rows as UTF-8 CSV
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{logger: logger}
}

// Export renders the header row and the normalized cell values of each
// record, prefixed with a UTF-8 BOM.
func (e *CSVExporter) Export(ctx context.Context, columns []string, records []domain.SaleRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.Write(record.Fields); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	e.logger.InfoContext(ctx, "csv export generated",
		slog.Int("rows", len(records)),
		slog.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}
