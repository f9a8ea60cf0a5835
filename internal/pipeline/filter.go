package pipeline

import (
	"strings"

	apierrors "salesdash/internal/errors"
	"salesdash/pkg/contracts/domain"
)

// ValidateSelection checks the date range of a filter selection. Both
// ends must be present and start must not be after end.
func ValidateSelection(sel domain.FilterSelection) error {
	switch {
	case sel.From.IsZero() && sel.To.IsZero():
		return apierrors.IncompleteRangeError("start and end dates are missing")
	case sel.From.IsZero():
		return apierrors.IncompleteRangeError("start date is missing")
	case sel.To.IsZero():
		return apierrors.IncompleteRangeError("end date is missing")
	case sel.From.After(sel.To):
		return apierrors.IncompleteRangeError("start date is after end date")
	}
	return nil
}

// Filter returns the records matching the selection, preserving file
// order. The date range is inclusive at day granularity. A nil region
// or category slice leaves that dimension unfiltered; an empty non-nil
// slice matches nothing, mirroring a dashboard multiselect with every
// option deselected. Returns an error matching ErrEmptyResult when no
// records survive.
func Filter(records []domain.SaleRecord, sel domain.FilterSelection) ([]domain.SaleRecord, error) {
	if err := ValidateSelection(sel); err != nil {
		return nil, err
	}

	regions := toSet(sel.Regions)
	categories := toSet(sel.Categories)
	search := strings.ToLower(strings.TrimSpace(sel.Search))

	var matched []domain.SaleRecord
	for _, r := range records {
		if r.OrderDate.Before(sel.From) || r.OrderDate.After(sel.To) {
			continue
		}
		if sel.Regions != nil {
			if _, ok := regions[r.Region]; !ok {
				continue
			}
		}
		if sel.Categories != nil {
			if _, ok := categories[r.Category]; !ok {
				continue
			}
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		matched = append(matched, r)
	}

	if len(matched) == 0 {
		return nil, apierrors.ErrEmptyResult
	}
	return matched, nil
}

// matchesSearch reports whether any cell of the record contains the
// lowercased needle.
func matchesSearch(r domain.SaleRecord, needle string) bool {
	for _, f := range r.Fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
