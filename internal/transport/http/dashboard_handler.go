package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "salesdash/internal/errors"
	"salesdash/internal/services"
	api "salesdash/pkg/contracts/api/v1"
	"salesdash/pkg/contracts/domain"
)

// DashboardService is the service interface the handler depends on
type DashboardService interface {
	Options(ctx context.Context) (domain.FilterOptions, error)
	Query(ctx context.Context, sel domain.FilterSelection) (*domain.DashboardView, error)
	Export(ctx context.Context, sel domain.FilterSelection, format string) (*services.ExportResult, error)
}

// DashboardHandler serves the dashboard API endpoints
type DashboardHandler struct {
	service      DashboardService
	logger       *slog.Logger
	validate     *validator.Validate
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(service DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		logger:       logger,
		validate:     validator.New(),
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// Routes returns the chi router for dashboard endpoints
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/options", h.HandleOptions)
	r.Post("/query", h.HandleQuery)
	r.Post("/export", h.HandleExport)
	return r
}

// HandleOptions returns the selectable filter space of the dataset
func (h *DashboardHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.OptionsResponse{Status: "success", Data: opts})
}

// HandleQuery applies a filter selection and returns the dashboard view
func (h *DashboardHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	sel, err := toSelection(req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Query(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.QueryResponse{Status: "success", Data: view})
}

// HandleExport renders the filtered rows as a downloadable file. The
// format comes from the format query parameter, falling back to the
// body, defaulting to xlsx.
func (h *DashboardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if format := r.URL.Query().Get("format"); format != "" {
		req.Format = format
	}

	if err := h.validateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	sel, err := toSelection(req.QueryRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Export(r.Context(), sel, req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write export body",
			slog.String("error", err.Error()))
	}
}

// validateRequest runs struct validation and converts failures to a
// field-level API error.
func (h *DashboardHandler) validateRequest(req interface{}) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	fields := make([]apierrors.ValidationError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return apierrors.NewValidationErrors(fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "datetime":
		return fmt.Sprintf("must be a date in %s form", domain.DateFormat)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// toSelection converts the request's string dates to a filter
// selection. Validation already guarantees the layout, so absent
// values become zero times for the pipeline to judge.
func toSelection(req api.QueryRequest) (domain.FilterSelection, error) {
	sel := domain.FilterSelection{
		Regions:    req.Regions,
		Categories: req.Categories,
		Search:     req.Search,
	}

	if req.From != "" {
		from, err := time.Parse(domain.DateFormat, req.From)
		if err != nil {
			return sel, apierrors.ErrValidation("from", "invalid date")
		}
		sel.From = from
	}
	if req.To != "" {
		to, err := time.Parse(domain.DateFormat, req.To)
		if err != nil {
			return sel, apierrors.ErrValidation("to", "invalid date")
		}
		sel.To = to
	}

	return sel, nil
}
