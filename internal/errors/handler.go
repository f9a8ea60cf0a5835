package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// ErrorHandler provides centralized error handling for HTTP handlers
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new centralized error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger}
}

// HandleError converts an error to an RFC 7807 problem response and
// writes it. Domain sentinels are mapped to their API errors; anything
// unrecognized becomes a 500 without leaking internals.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.ErrorToProblem(r.Context(), err)
	problem.Instance = r.URL.Path

	if reqID := requestIDFromContext(r.Context()); reqID != "" {
		problem = problem.WithExtension("request_id", reqID)
	}

	level := slog.LevelWarn
	if problem.Status >= 500 {
		level = slog.LevelError
	}
	h.logger.LogAttrs(r.Context(), level, "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("title", problem.Title),
		slog.String("error", err.Error()),
	)

	if writeErr := problem.Write(w); writeErr != nil {
		h.logger.Error("failed to write error response", slog.String("error", writeErr.Error()))
	}
}

// ErrorToProblem maps an error to RFC 7807 problem details
func (h *ErrorHandler) ErrorToProblem(ctx context.Context, err error) *ProblemDetails {
	if apiErr := DashboardErrorToAPI(err); apiErr != nil {
		return apiErrorToProblem(apiErr)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewProblem(http.StatusGatewayTimeout, "Request Timeout", "The request took too long to process")
	}
	if errors.Is(err, context.Canceled) {
		return NewProblem(499, "Client Closed Request", "The client closed the request before completion")
	}

	return NewProblem(http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
}

// HandlePanic recovers from a panic and writes a 500 problem response
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("panic", fmt.Sprintf("%v", recovered)),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblem(http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred").
		WithInstance(r.URL.Path)
	_ = problem.Write(w)
}

// NotFound handles requests to unknown routes
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblem(http.StatusNotFound, "Not Found",
		fmt.Sprintf("The requested resource %s was not found", r.URL.Path)).
		WithInstance(r.URL.Path)
	_ = problem.Write(w)
}

// MethodNotAllowed handles requests with unsupported methods
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblem(http.StatusMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for %s", r.Method, r.URL.Path)).
		WithInstance(r.URL.Path)
	_ = problem.Write(w)
}

// apiErrorToProblem converts an APIError to ProblemDetails
func apiErrorToProblem(apiErr *APIError) *ProblemDetails {
	problem := NewProblem(apiErr.StatusCode, apiErr.Message, "").
		WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		problem = problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores a request ID in the context for error responses
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
