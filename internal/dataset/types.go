package dataset

import (
	"time"

	"salesdash/pkg/contracts/domain"
)

// Dataset is the cleaned, in-memory form of the sales file
type Dataset struct {
	// Columns holds the normalized header names in file order
	Columns []string

	// Records holds the admitted rows in file order
	Records []domain.SaleRecord

	// Stats describes what the cleaning pass kept and dropped
	Stats LoadStats

	// LoadedAt is when the file was read from disk
	LoadedAt time.Time
}

// LoadStats counts the outcome of a cleaning pass over the raw file
type LoadStats struct {
	RowsRead        int            `json:"rows_read"`
	RowsKept        int            `json:"rows_kept"`
	RowsDropped     int            `json:"rows_dropped"`
	DroppedByReason map[string]int `json:"dropped_by_reason,omitempty"`
}

// Drop reasons reported in LoadStats.DroppedByReason
const (
	DropBadDate       = "bad_date"
	DropBadAmount     = "bad_amount"
	DropBlankRegion   = "blank_region"
	DropBlankCategory = "blank_category"
	DropColumnCount   = "column_count"
	DropParseError    = "parse_error"
)
