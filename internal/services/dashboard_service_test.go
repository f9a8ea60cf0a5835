package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesdash/internal/dataset"
	apierrors "salesdash/internal/errors"
	"salesdash/internal/exporter"
	"salesdash/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const salesFile = "Order ID,Order Date,Region,Category,Product,Quantity,Total Sales\n" +
	"1001,2024-01-05,North,Electronics,Laptop,2,1999.98\n" +
	"1002,2024-01-20,South,Furniture,Desk,1,350.00\n" +
	"1003,2024-02-10,North,Furniture,Chair,4,480.00\n" +
	"bad-row,not-a-date,North,Furniture,Chair,4,480.00\n"

func newTestService(t *testing.T) *DashboardService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(salesFile), 0644))

	logger := testLogger()
	store := dataset.NewStore(dataset.NewLoader(logger), logger)
	svc := NewDashboardService(store, path,
		exporter.NewExcelExporter("Filtered_Sales_Data", logger),
		exporter.NewCSVExporter(logger),
		logger)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func yearSelection() domain.FilterSelection {
	return domain.FilterSelection{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestDashboardService_Options(t *testing.T) {
	svc := newTestService(t)

	opts, err := svc.Options(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-01-05", opts.MinDate)
	assert.Equal(t, "2024-02-10", opts.MaxDate)
	assert.Equal(t, []string{"North", "South"}, opts.Regions)
	assert.Equal(t, []string{"Electronics", "Furniture"}, opts.Categories)
}

func TestDashboardService_Query(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.Query(context.Background(), yearSelection())
	require.NoError(t, err)

	assert.InDelta(t, 2829.98, view.Summary.TotalRevenue, 1e-9)
	assert.Equal(t, 3, view.Summary.OrderCount)
	assert.Equal(t, 3, view.Summary.RowCount)
	assert.Equal(t, "Laptop", view.Summary.TopProduct)
	assert.Len(t, view.MonthlyTrend, 2)
	assert.Len(t, view.Rows, 3)
	assert.Equal(t, []string{"order_id", "order_date", "region", "category", "product", "quantity", "total_sales"}, view.Columns)
}

func TestDashboardService_Query_FilteredByRegion(t *testing.T) {
	svc := newTestService(t)

	sel := yearSelection()
	sel.Regions = []string{"South"}
	view, err := svc.Query(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, 350.0, view.Summary.TotalRevenue)
	assert.Equal(t, "Desk", view.Summary.TopProduct)
}

func TestDashboardService_Query_IncompleteRange(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Query(context.Background(), domain.FilterSelection{})
	assert.ErrorIs(t, err, apierrors.ErrIncompleteRange)
}

func TestDashboardService_Query_EmptyResult(t *testing.T) {
	svc := newTestService(t)

	sel := yearSelection()
	sel.Search = "nothing-matches-this"
	_, err := svc.Query(context.Background(), sel)
	assert.ErrorIs(t, err, apierrors.ErrEmptyResult)
}

func TestDashboardService_Query_MissingFile(t *testing.T) {
	logger := testLogger()
	store := dataset.NewStore(dataset.NewLoader(logger), logger)
	svc := NewDashboardService(store, filepath.Join(t.TempDir(), "absent.csv"),
		exporter.NewExcelExporter("Filtered_Sales_Data", logger),
		exporter.NewCSVExporter(logger),
		logger)

	_, err := svc.Query(context.Background(), yearSelection())
	assert.ErrorIs(t, err, apierrors.ErrDataUnavailable)
}

func TestDashboardService_Export_XLSX(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Export(context.Background(), yearSelection(), FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, "Sales_Dashboard_Export_20240615.xlsx", result.Filename)
	assert.Equal(t, exporter.ExcelContentType, result.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Filtered_Sales_Data")
	require.NoError(t, err)
	// Header plus three admitted rows
	assert.Len(t, rows, 4)
}

func TestDashboardService_Export_CSV(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Export(context.Background(), yearSelection(), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "Sales_Dashboard_Export_20240615.csv", result.Filename)
	assert.Equal(t, exporter.CSVContentType, result.ContentType)
	assert.NotEmpty(t, result.Data)
}

func TestDashboardService_Export_DefaultsToXLSX(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Export(context.Background(), yearSelection(), "")
	require.NoError(t, err)
	assert.Equal(t, exporter.ExcelContentType, result.ContentType)
}

func TestDashboardService_Stats(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.RowsRead)
	assert.Equal(t, 3, stats.RowsKept)
	assert.Equal(t, 1, stats.RowsDropped)
}
