package domain

// Summary holds the scalar KPIs computed over the filtered subset.
type Summary struct {
	TotalRevenue float64 `json:"total_revenue"`
	AverageSale  float64 `json:"average_sale"`
	OrderCount   int     `json:"order_count"`
	TopProduct   string  `json:"top_product"`
	RowCount     int     `json:"row_count"`
}

// MonthlyRevenue is one point of the monthly revenue trend.
// Month uses the "2006-01" form and points are sorted chronologically.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// GroupRevenue is one row of a grouped revenue breakdown (by region or by
// category), sorted descending by revenue for display.
type GroupRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// DashboardView is the complete rendered output for one filter selection:
// four scalar KPIs, the time-series dataset, the two grouped datasets, and
// the filtered row set itself. It is recomputed per request and never
// persisted.
type DashboardView struct {
	Summary           Summary          `json:"summary"`
	MonthlyTrend      []MonthlyRevenue `json:"monthly_trend"`
	RevenueByRegion   []GroupRevenue   `json:"revenue_by_region"`
	RevenueByCategory []GroupRevenue   `json:"revenue_by_category"`
	Columns           []string         `json:"columns"`
	Rows              []SaleRecord     `json:"rows"`
}

// FilterOptions describes the selectable filter space of the cleaned
// dataset, consumed by the date-range and multi-select controls.
type FilterOptions struct {
	MinDate    string   `json:"min_date"`
	MaxDate    string   `json:"max_date"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}
