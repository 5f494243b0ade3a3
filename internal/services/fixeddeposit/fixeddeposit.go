// Package fixeddeposit derives interest, maturity and portfolio summaries
// from fixed-deposit records. All functions are pure: they never mutate the
// input slice and return freshly allocated results.
package fixeddeposit

import (
	"sort"

	"financer/internal/models"
)

// SortKey selects the field FilterAndSort orders by. Every key sorts
// descending: most recent start date first, largest amount first, highest
// rate first.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByAmount SortKey = "amount"
	SortByRate   SortKey = "rate"
)

// AllBanks is the bank filter value that disables filtering.
const AllBanks = "All"

// KnownBanks is the seeded bank list offered by the entry form. Records may
// carry other banks; nothing here restricts them.
func KnownBanks() []string {
	return []string{
		"SBI", "HDFC", "ICICI", "Axis Bank", "Kotak Mahindra",
		"PNB", "Bank of Baroda", "Canara Bank", "IDFC First", "Yes Bank",
	}
}

// Totals summarizes a collection of deposits.
type Totals struct {
	TotalPrincipal float64 `json:"total_principal"`
	TotalInterest  float64 `json:"total_interest"`
}

// FilterAndSort returns the deposits matching the bank filter, ordered
// descending by the sort key. The bank match is exact and case-sensitive;
// AllBanks keeps everything. Unknown sort keys fall back to SortByDate.
// The sort is stable: deposits equal under the key keep their input order.
func FilterAndSort(deposits []models.FixedDeposit, bankFilter string, key SortKey) []models.FixedDeposit {
	out := make([]models.FixedDeposit, 0, len(deposits))
	for _, fd := range deposits {
		if bankFilter == AllBanks || fd.Bank == bankFilter {
			out = append(out, fd)
		}
	}

	switch key {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Principal > out[j].Principal
		})
	case SortByRate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AnnualRate > out[j].AnnualRate
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartDate.After(out[j].StartDate)
		})
	}
	return out
}

// PortfolioTotals sums principal and derived interest over the given
// (already filtered) deposits. Empty input yields zero totals.
func PortfolioTotals(deposits []models.FixedDeposit) Totals {
	var t Totals
	for i := range deposits {
		t.TotalPrincipal += deposits[i].Principal
		t.TotalInterest += deposits[i].Interest()
	}
	return t
}

// DistinctBanks returns the unique bank names in the deposits, alphabetically
// ordered for deterministic display. Matching is case-sensitive, so "HDFC"
// and "hdfc" are two banks.
func DistinctBanks(deposits []models.FixedDeposit) []string {
	seen := make(map[string]bool)
	for i := range deposits {
		seen[deposits[i].Bank] = true
	}
	banks := make([]string, 0, len(seen))
	for bank := range seen {
		banks = append(banks, bank)
	}
	sort.Strings(banks)
	return banks
}
