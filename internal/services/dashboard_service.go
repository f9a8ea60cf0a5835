package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salesdash/internal/dataset"
	apierrors "salesdash/internal/errors"
	"salesdash/internal/exporter"
	"salesdash/internal/pipeline"
	"salesdash/pkg/contracts/domain"
)

// ExportFormat names for the export operation
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ExportResult carries a rendered export file and the HTTP metadata
// needed to serve it as a download.
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// DashboardService computes dashboard views and exports from the
// cached sales dataset.
type DashboardService struct {
	store  *dataset.Store
	path   string
	excel  *exporter.ExcelExporter
	csv    *exporter.CSVExporter
	logger *slog.Logger
	tracer trace.Tracer

	// now is swappable in tests for deterministic export filenames
	now func() time.Time
}

// NewDashboardService creates the dashboard service reading from the
// sales file at path.
func NewDashboardService(store *dataset.Store, path string, excel *exporter.ExcelExporter, csv *exporter.CSVExporter, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:  store,
		path:   path,
		excel:  excel,
		csv:    csv,
		logger: logger,
		tracer: otel.Tracer("salesdash.services.dashboard"),
		now:    time.Now,
	}
}

// Options returns the selectable filter space of the full dataset
func (s *DashboardService) Options(ctx context.Context) (domain.FilterOptions, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.options")
	defer span.End()

	ds, err := s.store.Get(ctx, s.path)
	if err != nil {
		return domain.FilterOptions{}, err
	}

	opts := pipeline.Options(ds.Records)
	span.SetAttributes(
		attribute.Int("dataset.rows", len(ds.Records)),
		attribute.Int("options.regions", len(opts.Regions)),
		attribute.Int("options.categories", len(opts.Categories)),
	)
	return opts, nil
}

// Query applies the selection and computes the full dashboard view
func (s *DashboardService) Query(ctx context.Context, sel domain.FilterSelection) (*domain.DashboardView, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.query")
	defer span.End()

	ds, err := s.store.Get(ctx, s.path)
	if err != nil {
		return nil, err
	}

	matched, err := pipeline.Filter(ds.Records, sel)
	if err != nil {
		return nil, err
	}

	view := &domain.DashboardView{
		Summary:           pipeline.Summarize(matched),
		MonthlyTrend:      pipeline.MonthlyTrend(matched),
		RevenueByRegion:   pipeline.RevenueByRegion(matched),
		RevenueByCategory: pipeline.RevenueByCategory(matched),
		Columns:           ds.Columns,
		Rows:              matched,
	}

	span.SetAttributes(
		attribute.Int("query.rows_matched", len(matched)),
		attribute.Float64("query.total_revenue", view.Summary.TotalRevenue),
	)
	s.logger.InfoContext(ctx, "dashboard query computed",
		slog.Int("rows_matched", len(matched)),
		slog.Int("rows_total", len(ds.Records)),
	)

	return view, nil
}

// Export renders the filtered rows in the requested format. An empty
// format defaults to xlsx.
func (s *DashboardService) Export(ctx context.Context, sel domain.FilterSelection, format string) (*ExportResult, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.export")
	defer span.End()

	if format == "" {
		format = FormatXLSX
	}

	ds, err := s.store.Get(ctx, s.path)
	if err != nil {
		return nil, err
	}

	matched, err := pipeline.Filter(ds.Records, sel)
	if err != nil {
		return nil, err
	}

	stamp := s.now().Format("20060102")
	var result *ExportResult

	switch format {
	case FormatXLSX:
		data, err := s.excel.Export(ctx, ds.Columns, matched)
		if err != nil {
			return nil, err
		}
		result = &ExportResult{
			Data:        data,
			Filename:    fmt.Sprintf("Sales_Dashboard_Export_%s.xlsx", stamp),
			ContentType: exporter.ExcelContentType,
		}
	case FormatCSV:
		data, err := s.csv.Export(ctx, ds.Columns, matched)
		if err != nil {
			return nil, err
		}
		result = &ExportResult{
			Data:        data,
			Filename:    fmt.Sprintf("Sales_Dashboard_Export_%s.csv", stamp),
			ContentType: exporter.CSVContentType,
		}
	default:
		return nil, apierrors.NewWithDetails(400, "INVALID_PARAMETER", "Unsupported export format", format)
	}

	span.SetAttributes(
		attribute.String("export.format", format),
		attribute.Int("export.rows", len(matched)),
		attribute.Int("export.bytes", len(result.Data)),
	)
	s.logger.InfoContext(ctx, "export generated",
		slog.String("format", format),
		slog.String("filename", result.Filename),
		slog.Int("rows", len(matched)),
	)

	return result, nil
}

// Stats reports the cleaning statistics of the current dataset
func (s *DashboardService) Stats(ctx context.Context) (dataset.LoadStats, error) {
	ds, err := s.store.Get(ctx, s.path)
	if err != nil {
		return dataset.LoadStats{}, err
	}
	return ds.Stats, nil
}
