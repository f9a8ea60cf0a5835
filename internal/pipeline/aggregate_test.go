package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/contracts/domain"
)

func TestSummarize(t *testing.T) {
	records := []domain.SaleRecord{
		record(t, "1001", "2024-01-05", "North", "Electronics", "Laptop", 1000),
		record(t, "1001", "2024-01-05", "North", "Electronics", "Mouse", 50),
		record(t, "1002", "2024-01-20", "South", "Furniture", "Desk", 350),
	}

	summary := Summarize(records)

	assert.Equal(t, 1400.0, summary.TotalRevenue)
	assert.InDelta(t, 1400.0/3, summary.AverageSale, 1e-9)
	// Two rows share an order ID
	assert.Equal(t, 2, summary.OrderCount)
	assert.Equal(t, "Laptop", summary.TopProduct)
	assert.Equal(t, 3, summary.RowCount)
}

func TestSummarize_TopProductSumsAcrossRows(t *testing.T) {
	records := []domain.SaleRecord{
		record(t, "1", "2024-01-05", "North", "Electronics", "Mouse", 300),
		record(t, "2", "2024-01-06", "North", "Electronics", "Mouse", 300),
		record(t, "3", "2024-01-07", "North", "Electronics", "Laptop", 500),
	}

	assert.Equal(t, "Mouse", Summarize(records).TopProduct)
}

func TestSummarize_TopProductTieBreaksLexicographically(t *testing.T) {
	records := []domain.SaleRecord{
		record(t, "1", "2024-01-05", "North", "Electronics", "Zebra", 100),
		record(t, "2", "2024-01-06", "North", "Electronics", "Apple", 100),
	}

	assert.Equal(t, "Apple", Summarize(records).TopProduct)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.RowCount)
	assert.Empty(t, summary.TopProduct)
}

func TestMonthlyTrend_Chronological(t *testing.T) {
	records := []domain.SaleRecord{
		record(t, "1", "2024-03-01", "East", "Electronics", "Monitor", 400),
		record(t, "2", "2024-01-05", "North", "Electronics", "Laptop", 1000),
		record(t, "3", "2024-01-20", "South", "Furniture", "Desk", 350),
		record(t, "4", "2023-12-15", "North", "Furniture", "Shelf", 80),
	}

	trend := MonthlyTrend(records)

	require.Len(t, trend, 3)
	assert.Equal(t, domain.MonthlyRevenue{Month: "2023-12", Revenue: 80}, trend[0])
	assert.Equal(t, domain.MonthlyRevenue{Month: "2024-01", Revenue: 1350}, trend[1])
	assert.Equal(t, domain.MonthlyRevenue{Month: "2024-03", Revenue: 400}, trend[2])
}

func TestRevenueByRegion_SortedByRevenueDesc(t *testing.T) {
	records := sampleRecords(t)

	groups := RevenueByRegion(records)

	require.Len(t, groups, 3)
	assert.Equal(t, domain.GroupRevenue{Name: "North", Revenue: 1120}, groups[0])
	assert.Equal(t, domain.GroupRevenue{Name: "East", Revenue: 400}, groups[1])
	assert.Equal(t, domain.GroupRevenue{Name: "South", Revenue: 350}, groups[2])
}

func TestRevenueByRegion_TieSortsByName(t *testing.T) {
	records := []domain.SaleRecord{
		record(t, "1", "2024-01-05", "West", "Electronics", "Laptop", 100),
		record(t, "2", "2024-01-06", "East", "Electronics", "Laptop", 100),
	}

	groups := RevenueByRegion(records)

	require.Len(t, groups, 2)
	assert.Equal(t, "East", groups[0].Name)
	assert.Equal(t, "West", groups[1].Name)
}

func TestRevenueByCategory(t *testing.T) {
	records := sampleRecords(t)

	groups := RevenueByCategory(records)

	require.Len(t, groups, 2)
	assert.Equal(t, domain.GroupRevenue{Name: "Electronics", Revenue: 1400}, groups[0])
	assert.Equal(t, domain.GroupRevenue{Name: "Furniture", Revenue: 470}, groups[1])
}

func TestAggregateConsistency(t *testing.T) {
	records := sampleRecords(t)

	total := Summarize(records).TotalRevenue

	var monthly float64
	for _, m := range MonthlyTrend(records) {
		monthly += m.Revenue
	}
	assert.InDelta(t, total, monthly, 1e-9)

	var byRegion float64
	for _, g := range RevenueByRegion(records) {
		byRegion += g.Revenue
	}
	assert.InDelta(t, total, byRegion, 1e-9)

	var byCategory float64
	for _, g := range RevenueByCategory(records) {
		byCategory += g.Revenue
	}
	assert.InDelta(t, total, byCategory, 1e-9)
}

func TestOptions(t *testing.T) {
	records := sampleRecords(t)

	opts := Options(records)

	assert.Equal(t, "2024-01-05", opts.MinDate)
	assert.Equal(t, "2024-03-01", opts.MaxDate)
	assert.Equal(t, []string{"East", "North", "South"}, opts.Regions)
	assert.Equal(t, []string{"Electronics", "Furniture"}, opts.Categories)
}

func TestOptions_Empty(t *testing.T) {
	opts := Options(nil)
	assert.Empty(t, opts.MinDate)
	assert.Empty(t, opts.Regions)
	assert.Empty(t, opts.Categories)
}
