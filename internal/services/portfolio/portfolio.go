// Package portfolio derives allocation percentages, risk buckets and
// expected returns for portfolio holdings. The per-asset-type metrics are
// configuration: callers pass a MetricsTable so tests and future products
// can substitute their own numbers.
package portfolio

import (
	"sort"

	"financer/internal/finmath"
	"financer/internal/models"
)

// Metrics holds the static performance assumptions for one asset type.
// Rate is the expected annual return percentage, Volatility a coarse
// dispersion figure the risk buckets are derived from.
type Metrics struct {
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
}

// MetricsTable maps asset types to their performance assumptions.
type MetricsTable map[string]Metrics

// DefaultMetricsTable returns the built-in assumptions shipped with the
// dashboard.
func DefaultMetricsTable() MetricsTable {
	return MetricsTable{
		"Fixed Deposits": {Rate: 7.5, Volatility: 0.8},
		"Stocks":         {Rate: 12.4, Volatility: 15.2},
		"Mutual Funds":   {Rate: 9.8, Volatility: 5.6},
		"Bonds":          {Rate: 6.3, Volatility: 2.1},
		"Real Estate":    {Rate: 8.9, Volatility: 7.4},
	}
}

// lookup returns the metrics for an asset type. Unknown types get the zero
// assumptions {rate:0, volatility:0}, which classify as "Low" risk and
// contribute nothing to expected yield. That silent default is long-standing
// product behavior; do not tighten it here.
func (mt MetricsTable) lookup(assetType string) Metrics {
	if m, ok := mt[assetType]; ok {
		return m
	}
	return Metrics{}
}

// RiskBucket is the coarse risk label shown next to a holding.
type RiskBucket string

const (
	RiskLow      RiskBucket = "Low"
	RiskModerate RiskBucket = "Moderate"
	RiskHigh     RiskBucket = "High"
)

// Allocation pairs a holding with its share of the whole portfolio.
type Allocation struct {
	Investment        models.Investment `json:"investment"`
	AllocationPercent float64           `json:"allocation_percent"`
}

// Allocate computes each holding's percentage of the total balance. The
// total is taken over the entire given collection: allocation is always
// relative to the whole portfolio, never a filtered view. A zero total
// (including empty input) yields 0 percent everywhere.
func Allocate(investments []models.Investment) []Allocation {
	var total float64
	for i := range investments {
		total += investments[i].Balance
	}

	out := make([]Allocation, len(investments))
	for i, inv := range investments {
		out[i] = Allocation{
			Investment:        inv,
			AllocationPercent: finmath.PercentOf(inv.Balance, total),
		}
	}
	return out
}

// ClassifyRisk buckets an asset type by its volatility: below 5 is Low,
// below 10 Moderate, anything else High.
func ClassifyRisk(assetType string, table MetricsTable) RiskBucket {
	v := table.lookup(assetType).Volatility
	switch {
	case v < 5:
		return RiskLow
	case v < 10:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// ExpectedReturn returns the assumed annual return percentage for an asset
// type, 0 for unknown types.
func ExpectedReturn(assetType string, table MetricsTable) float64 {
	return table.lookup(assetType).Rate
}

// TopPerformer returns the holding with the largest balance, or nil for an
// empty portfolio. Ties keep the first-encountered holding.
func TopPerformer(investments []models.Investment) *models.Investment {
	if len(investments) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(investments); i++ {
		if investments[i].Balance > investments[best].Balance {
			best = i
		}
	}
	top := investments[best]
	return &top
}

// ExpectedAnnualYield sums balance * rate/100 over the holdings, using the
// same unknown-type default as ClassifyRisk.
func ExpectedAnnualYield(investments []models.Investment, table MetricsTable) float64 {
	var yield float64
	for i := range investments {
		rate := table.lookup(investments[i].AssetType).Rate
		yield += investments[i].Balance * rate / 100
	}
	return yield
}

// SortKey selects the ordering for the assets list.
type SortKey string

const (
	SortByBalance SortKey = "balance" // largest first
	SortByType    SortKey = "type"    // lexicographic
	SortByAdded   SortKey = "added"   // most recent first
)

// Sort returns the holdings ordered by the given key without touching the
// input. Unknown keys fall back to SortByAdded. The sort is stable.
func Sort(investments []models.Investment, key SortKey) []models.Investment {
	out := make([]models.Investment, len(investments))
	copy(out, investments)

	switch key {
	case SortByBalance:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Balance > out[j].Balance
		})
	case SortByType:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AssetType < out[j].AssetType
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AddedDate.After(out[j].AddedDate)
		})
	}
	return out
}
