package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	apierrors "salesdash/internal/errors"
	"salesdash/pkg/contracts/domain"
)

// Column names the loader requires after header normalization
const (
	ColumnOrderID   = "order_id"
	ColumnOrderDate = "order_date"
	ColumnRegion    = "region"
	ColumnCategory  = "category"
	ColumnProduct   = "product"
	ColumnQuantity  = "quantity"
	ColumnAmount    = "total_sales"
)

var requiredColumns = []string{
	ColumnOrderID,
	ColumnOrderDate,
	ColumnRegion,
	ColumnCategory,
	ColumnProduct,
	ColumnQuantity,
	ColumnAmount,
}

// amountCleanPattern strips currency symbols and thousands separators
// before numeric parsing.
var amountCleanPattern = regexp.MustCompile(`[^0-9.]+`)

// Loader reads and cleans the delimited sales file
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader with the given logger
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the sales file at path, cleans each row, and returns the
// admitted records together with drop statistics. Rows that fail
// cleaning are dropped silently from the dataset but counted and
// logged. A missing file, unreadable content, or absent required
// column yields an error matching apierrors.ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.DataUnavailableError(path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	// Rows with a deviant column count are dropped, not fatal
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apierrors.DataUnavailableError(path, fmt.Errorf("reading header: %w", err))
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, apierrors.DataUnavailableError(path, err)
	}

	ds := &Dataset{
		Columns:  normalizeHeader(header),
		LoadedAt: time.Now(),
		Stats: LoadStats{
			DroppedByReason: make(map[string]int),
		},
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ds.Stats.RowsRead++
			ds.drop(DropParseError)
			continue
		}
		ds.Stats.RowsRead++

		if len(raw) != len(header) {
			ds.drop(DropColumnCount)
			continue
		}

		record, reason := cleanRow(raw, index, ds.Columns)
		if reason != "" {
			ds.drop(reason)
			continue
		}

		ds.Records = append(ds.Records, record)
		ds.Stats.RowsKept++
	}

	l.logger.InfoContext(ctx, "sales dataset loaded",
		slog.String("path", path),
		slog.Int("rows_read", ds.Stats.RowsRead),
		slog.Int("rows_kept", ds.Stats.RowsKept),
		slog.Int("rows_dropped", ds.Stats.RowsDropped),
		slog.Any("dropped_by_reason", ds.Stats.DroppedByReason),
	)

	return ds, nil
}

func (ds *Dataset) drop(reason string) {
	ds.Stats.RowsDropped++
	ds.Stats.DroppedByReason[reason]++
}

// cleanRow converts a raw CSV row into a SaleRecord. Returns a drop
// reason instead of a record when a required field fails cleaning.
func cleanRow(raw []string, index map[string]int, columns []string) (domain.SaleRecord, string) {
	date, ok := parseDate(raw[index[ColumnOrderDate]])
	if !ok {
		return domain.SaleRecord{}, DropBadDate
	}

	amount, ok := parseAmount(raw[index[ColumnAmount]])
	if !ok {
		return domain.SaleRecord{}, DropBadAmount
	}

	region := strings.TrimSpace(raw[index[ColumnRegion]])
	if region == "" {
		return domain.SaleRecord{}, DropBlankRegion
	}

	category := strings.TrimSpace(raw[index[ColumnCategory]])
	if category == "" {
		return domain.SaleRecord{}, DropBlankCategory
	}

	record := domain.SaleRecord{
		OrderID:   strings.TrimSpace(raw[index[ColumnOrderID]]),
		OrderDate: date,
		Region:    region,
		Category:  category,
		Product:   strings.TrimSpace(raw[index[ColumnProduct]]),
		Quantity:  parseQuantity(raw[index[ColumnQuantity]]),
		Amount:    amount,
	}
	record.Fields = normalizedFields(record, raw, index, columns)

	return record, ""
}

// normalizedFields builds the cell values aligned with columns, using
// the cleaned representations for typed fields so search and export
// see the same text.
func normalizedFields(record domain.SaleRecord, raw []string, index map[string]int, columns []string) []string {
	fields := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case ColumnOrderID:
			fields[i] = record.OrderID
		case ColumnOrderDate:
			fields[i] = record.OrderDate.Format(domain.DateFormat)
		case ColumnRegion:
			fields[i] = record.Region
		case ColumnCategory:
			fields[i] = record.Category
		case ColumnProduct:
			fields[i] = record.Product
		case ColumnQuantity:
			if record.Quantity != nil {
				fields[i] = strconv.FormatFloat(*record.Quantity, 'f', -1, 64)
			}
		case ColumnAmount:
			fields[i] = strconv.FormatFloat(record.Amount, 'f', -1, 64)
		default:
			fields[i] = strings.TrimSpace(raw[i])
		}
	}
	return fields
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(domain.DateFormat, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseAmount(value string) (float64, bool) {
	cleaned := amountCleanPattern.ReplaceAllString(value, "")
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// parseQuantity is lenient: an unparseable quantity becomes nil rather
// than dropping the row.
func parseQuantity(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	q, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &q
}

// normalizeHeader lowercases headers and replaces spaces with
// underscores so files exported from spreadsheets still match.
func normalizeHeader(header []string) []string {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
	}
	return normalized
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range normalizeHeader(header) {
		index[h] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("required column %q not found", col)
		}
	}
	return index, nil
}
