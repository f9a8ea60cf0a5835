package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain sentinel errors for the dashboard pipeline. Services and
// handlers test against these with errors.Is and map them to the
// corresponding APIError.
var (
	// ErrDataUnavailable indicates the sales dataset could not be
	// loaded or parsed from disk.
	ErrDataUnavailable = errors.New("sales dataset unavailable")

	// ErrIncompleteRange indicates the query supplied only one end of
	// the date range, or the range is inverted.
	ErrIncompleteRange = errors.New("incomplete date range")

	// ErrEmptyResult indicates the active filters matched no rows.
	ErrEmptyResult = errors.New("no rows match the selected filters")
)

// Dashboard-specific API errors keyed to the sentinels above.
var (
	ErrAPIDataUnavailable = New(http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "Sales dataset is unavailable")
	ErrAPIIncompleteRange = New(http.StatusBadRequest, "INCOMPLETE_RANGE", "Both start and end dates are required, and start must not be after end")
	ErrAPIEmptyResult     = New(http.StatusNotFound, "EMPTY_RESULT", "No sales rows match the selected filters")
)

// DataUnavailableError wraps a load failure with the underlying cause
// while remaining matchable against ErrDataUnavailable.
func DataUnavailableError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, path, cause)
}

// IncompleteRangeError describes which end of the range is at fault.
func IncompleteRangeError(detail string) error {
	return fmt.Errorf("%w: %s", ErrIncompleteRange, detail)
}

// DashboardErrorToAPI maps a domain error to its APIError. Returns nil
// when the error is not one of the dashboard sentinels.
func DashboardErrorToAPI(err error) *APIError {
	switch {
	case errors.Is(err, ErrDataUnavailable):
		return NewWithDetails(http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "Sales dataset is unavailable", err.Error())
	case errors.Is(err, ErrIncompleteRange):
		return NewWithDetails(http.StatusBadRequest, "INCOMPLETE_RANGE", "Both start and end dates are required, and start must not be after end", err.Error())
	case errors.Is(err, ErrEmptyResult):
		return NewWithDetails(http.StatusNotFound, "EMPTY_RESULT", "No sales rows match the selected filters", err.Error())
	default:
		return nil
	}
}
