package pricing

import (
	"sort"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// Trend compares the prices of the two most recently updated observations in
// the slice: rising when the latest is higher than the previous one, falling
// when lower, stable otherwise. The boolean is false when fewer than two
// observations exist and no direction can be derived.
//
// Because the collection keeps one current observation per store, "most
// recent" means "most recently updated store", not two points of the same
// store's history. The comparison can therefore pair prices from two
// different stores; see DESIGN.md for why this is kept as-is.
func Trend(entries []models.PriceEntry) (models.TrendDirection, bool) {
	if len(entries) < 2 {
		return models.TrendStable, false
	}

	sorted := make([]models.PriceEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	latest, previous := sorted[0].Price, sorted[1].Price
	switch {
	case latest > previous:
		return models.TrendRising, true
	case latest < previous:
		return models.TrendFalling, true
	default:
		return models.TrendStable, true
	}
}

// ComputeStatistics summarizes a user's observations: the most tracked
// product is the name with the highest entry count (first to reach the
// maximum wins ties, scanning in slice order), the average price and trend
// are computed over that product's entries only.
func ComputeStatistics(entries []models.PriceEntry) models.Stats {
	stats := models.Stats{
		Trend:        models.TrendStable,
		TotalEntries: len(entries),
	}
	if len(entries) == 0 {
		return stats
	}

	counts := make(map[string]int, len(entries))
	best := ""
	for _, entry := range entries {
		counts[entry.ProductName]++
		if best == "" || counts[entry.ProductName] > counts[best] {
			best = entry.ProductName
		}
	}
	stats.MostTrackedProduct = best

	var tracked []models.PriceEntry
	var sum float64
	for _, entry := range entries {
		if entry.ProductName == best {
			tracked = append(tracked, entry)
			sum += entry.Price
		}
	}
	stats.AveragePrice = sum / float64(len(tracked))

	if direction, ok := Trend(tracked); ok {
		stats.Trend = direction
	}

	return stats
}
