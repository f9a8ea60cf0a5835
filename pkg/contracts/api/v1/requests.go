// Package api contains API contract definitions for the sales dashboard.
// Version v1 represents the current stable API version.
package api

import (
	"salesdash/pkg/contracts/domain"
)

// Dashboard API Requests

// QueryRequest represents one filter selection submitted by the dashboard.
// Dates use the 2006-01-02 layout; both endpoints must be present for the
// pipeline to filter (an incomplete range is rejected, never defaulted).
// An empty regions or categories set matches no records.
type QueryRequest struct {
	From       string   `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string   `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
	Search     string   `json:"search" validate:"omitempty,max=256"`
}

// ExportRequest is a QueryRequest plus the requested export format.
type ExportRequest struct {
	QueryRequest
	Format string `json:"format" validate:"omitempty,oneof=xlsx csv"`
}

// Dashboard API Responses

// QueryResponse wraps a DashboardView with the standard response envelope.
type QueryResponse struct {
	Status string                `json:"status"`
	Data   *domain.DashboardView `json:"data"`
}

// OptionsResponse wraps the selectable filter space.
type OptionsResponse struct {
	Status string               `json:"status"`
	Data   domain.FilterOptions `json:"data"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]interface{} `json:"checks,omitempty"`
}
