package domain

import (
	"time"
)

// DateFormat is the canonical day-granularity date layout used across the
// dataset, the API, and exports.
const DateFormat = "2006-01-02"

// SaleRecord represents one cleaned row from the sales dataset.
// A record only exists after cleaning, so OrderDate, Amount, Region and
// Category are always valid; Quantity stays nil when the raw value could
// not be parsed (the row is still retained).
type SaleRecord struct {
	OrderID   string    `json:"order_id"`
	OrderDate time.Time `json:"order_date"`
	Region    string    `json:"region"`
	Category  string    `json:"category"`
	Product   string    `json:"product"`
	Quantity  *float64  `json:"quantity"`
	Amount    float64   `json:"amount" validate:"min=0"`

	// Fields holds the normalized cell values for every column of the row,
	// aligned with the dataset column order. Used for export and free-text
	// search so passthrough columns survive the pipeline untouched.
	Fields []string `json:"fields"`
}

// Month returns the calendar month of the order date in "2006-01" form.
func (r SaleRecord) Month() string {
	return r.OrderDate.Format("2006-01")
}

// FilterSelection is the immutable filter tuple applied to the cleaned
// record set: an inclusive date range, a set of regions, a set of
// categories, and an optional free-text search term.
type FilterSelection struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Regions    []string  `json:"regions"`
	Categories []string  `json:"categories"`
	Search     string    `json:"search,omitempty"`
}
