package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salesdash/internal/errors"
	"salesdash/internal/services"
	"salesdash/pkg/contracts/domain"
)

type stubDashboardService struct {
	options    domain.FilterOptions
	optionsErr error

	view     *domain.DashboardView
	queryErr error
	querySel domain.FilterSelection

	export    *services.ExportResult
	exportErr error
	format    string
}

func (s *stubDashboardService) Options(ctx context.Context) (domain.FilterOptions, error) {
	return s.options, s.optionsErr
}

func (s *stubDashboardService) Query(ctx context.Context, sel domain.FilterSelection) (*domain.DashboardView, error) {
	s.querySel = sel
	return s.view, s.queryErr
}

func (s *stubDashboardService) Export(ctx context.Context, sel domain.FilterSelection, format string) (*services.ExportResult, error) {
	s.querySel = sel
	s.format = format
	return s.export, s.exportErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(stub *stubDashboardService) *DashboardHandler {
	return NewDashboardHandler(stub, testLogger())
}

func TestHandleOptions(t *testing.T) {
	stub := &stubDashboardService{
		options: domain.FilterOptions{
			MinDate:    "2024-01-05",
			MaxDate:    "2024-03-01",
			Regions:    []string{"East", "North"},
			Categories: []string{"Electronics"},
		},
	}
	handler := newTestHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/options", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string               `json:"status"`
		Data   domain.FilterOptions `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, stub.options, resp.Data)
}

func TestHandleOptions_DataUnavailable(t *testing.T) {
	stub := &stubDashboardService{optionsErr: apierrors.ErrDataUnavailable}
	handler := newTestHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/options", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestHandleQuery(t *testing.T) {
	stub := &stubDashboardService{
		view: &domain.DashboardView{
			Summary: domain.Summary{TotalRevenue: 1400, OrderCount: 3, RowCount: 4, TopProduct: "Laptop"},
		},
	}
	handler := newTestHandler(stub)

	body := `{"from":"2024-01-01","to":"2024-12-31","regions":["North"],"search":"laptop"}`
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "2024-01-01", stub.querySel.From.Format(domain.DateFormat))
	assert.Equal(t, "2024-12-31", stub.querySel.To.Format(domain.DateFormat))
	assert.Equal(t, []string{"North"}, stub.querySel.Regions)
	assert.Nil(t, stub.querySel.Categories)
	assert.Equal(t, "laptop", stub.querySel.Search)

	var resp struct {
		Status string                `json:"status"`
		Data   *domain.DashboardView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Laptop", resp.Data.Summary.TopProduct)
}

func TestHandleQuery_MalformedBody(t *testing.T) {
	handler := newTestHandler(&stubDashboardService{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_InvalidDateFormat(t *testing.T) {
	handler := newTestHandler(&stubDashboardService{})

	body := `{"from":"01/05/2024","to":"2024-12-31"}`
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "VALIDATION_FAILED", m["error_code"])
}

func TestHandleQuery_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"incomplete range", apierrors.ErrIncompleteRange, http.StatusBadRequest},
		{"empty result", apierrors.ErrEmptyResult, http.StatusNotFound},
		{"data unavailable", apierrors.ErrDataUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&stubDashboardService{queryErr: tt.err})

			body := `{"from":"2024-01-01","to":"2024-12-31"}`
			req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleExport(t *testing.T) {
	stub := &stubDashboardService{
		export: &services.ExportResult{
			Data:        []byte("xlsx-bytes"),
			Filename:    "Sales_Dashboard_Export_20240615.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
	}
	handler := newTestHandler(stub)

	body := `{"from":"2024-01-01","to":"2024-12-31"}`
	req := httptest.NewRequest(http.MethodPost, "/export?format=xlsx", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "xlsx", stub.format)
	assert.Equal(t, stub.export.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Sales_Dashboard_Export_20240615.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.Equal([]byte("xlsx-bytes"), rec.Body.Bytes()))
}

func TestHandleExport_InvalidFormat(t *testing.T) {
	handler := newTestHandler(&stubDashboardService{})

	body := `{"from":"2024-01-01","to":"2024-12-31"}`
	req := httptest.NewRequest(http.MethodPost, "/export?format=pdf", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExport_FormatFromBody(t *testing.T) {
	stub := &stubDashboardService{
		export: &services.ExportResult{Data: []byte("csv"), Filename: "f.csv", ContentType: "text/csv; charset=utf-8"},
	}
	handler := newTestHandler(stub)

	body := `{"from":"2024-01-01","to":"2024-12-31","format":"csv"}`
	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", stub.format)
}
