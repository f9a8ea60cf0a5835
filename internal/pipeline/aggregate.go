package pipeline

import (
	"sort"

	"salesdash/pkg/contracts/domain"
)

// Summarize computes the headline figures for a set of filtered
// records. OrderCount is the number of distinct order IDs, and
// TopProduct is the product with the highest summed revenue, ties
// broken by the lexicographically smallest name.
func Summarize(records []domain.SaleRecord) domain.Summary {
	if len(records) == 0 {
		return domain.Summary{}
	}

	var total float64
	orders := make(map[string]struct{})
	productRevenue := make(map[string]float64)

	for _, r := range records {
		total += r.Amount
		orders[r.OrderID] = struct{}{}
		productRevenue[r.Product] += r.Amount
	}

	var topProduct string
	var topRevenue float64
	first := true
	for product, revenue := range productRevenue {
		if first || revenue > topRevenue || (revenue == topRevenue && product < topProduct) {
			topProduct = product
			topRevenue = revenue
			first = false
		}
	}

	return domain.Summary{
		TotalRevenue: total,
		AverageSale:  total / float64(len(records)),
		OrderCount:   len(orders),
		TopProduct:   topProduct,
		RowCount:     len(records),
	}
}

// MonthlyTrend sums revenue per calendar month, returned in
// chronological order. Months without sales do not appear.
func MonthlyTrend(records []domain.SaleRecord) []domain.MonthlyRevenue {
	byMonth := make(map[string]float64)
	for _, r := range records {
		byMonth[r.Month()] += r.Amount
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	// "2006-01" keys sort chronologically as strings
	sort.Strings(months)

	trend := make([]domain.MonthlyRevenue, 0, len(months))
	for _, m := range months {
		trend = append(trend, domain.MonthlyRevenue{Month: m, Revenue: byMonth[m]})
	}
	return trend
}

// RevenueByRegion sums revenue per region, sorted by revenue
// descending with name ascending on ties.
func RevenueByRegion(records []domain.SaleRecord) []domain.GroupRevenue {
	return groupRevenue(records, func(r domain.SaleRecord) string { return r.Region })
}

// RevenueByCategory sums revenue per category, sorted by revenue
// descending with name ascending on ties.
func RevenueByCategory(records []domain.SaleRecord) []domain.GroupRevenue {
	return groupRevenue(records, func(r domain.SaleRecord) string { return r.Category })
}

func groupRevenue(records []domain.SaleRecord, key func(domain.SaleRecord) string) []domain.GroupRevenue {
	byKey := make(map[string]float64)
	for _, r := range records {
		byKey[key(r)] += r.Amount
	}

	groups := make([]domain.GroupRevenue, 0, len(byKey))
	for name, revenue := range byKey {
		groups = append(groups, domain.GroupRevenue{Name: name, Revenue: revenue})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Revenue != groups[j].Revenue {
			return groups[i].Revenue > groups[j].Revenue
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// Options derives the selectable filter values from the full dataset:
// the spanned date range and the distinct regions and categories in
// alphabetical order.
func Options(records []domain.SaleRecord) domain.FilterOptions {
	var opts domain.FilterOptions
	if len(records) == 0 {
		return opts
	}

	regions := make(map[string]struct{})
	categories := make(map[string]struct{})

	minDate := records[0].OrderDate
	maxDate := records[0].OrderDate
	for _, r := range records {
		if r.OrderDate.Before(minDate) {
			minDate = r.OrderDate
		}
		if r.OrderDate.After(maxDate) {
			maxDate = r.OrderDate
		}
		regions[r.Region] = struct{}{}
		categories[r.Category] = struct{}{}
	}

	opts.MinDate = minDate.Format(domain.DateFormat)
	opts.MaxDate = maxDate.Format(domain.DateFormat)
	opts.Regions = sortedKeys(regions)
	opts.Categories = sortedKeys(categories)
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
