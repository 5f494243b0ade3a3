package portfolio

import (
	"math"
	"testing"
	"time"

	"financer/internal/models"
)

func inv(id, assetType string, balance float64, added time.Time) models.Investment {
	return models.Investment{
		ID:        id,
		AssetType: assetType,
		Balance:   balance,
		ColorTag:  "#4ADE80",
		AddedDate: added,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAllocate(t *testing.T) {
	investments := []models.Investment{
		inv("a", "Stocks", 4000, date(2025, time.January, 1)),
		inv("b", "Bonds", 1000, date(2025, time.January, 2)),
	}

	got := Allocate(investments)
	if len(got) != 2 {
		t.Fatalf("Allocate returned %d entries, want 2", len(got))
	}
	if math.Abs(got[0].AllocationPercent-80) > 1e-9 {
		t.Errorf("allocation[0] = %v, want 80", got[0].AllocationPercent)
	}
	if math.Abs(got[1].AllocationPercent-20) > 1e-9 {
		t.Errorf("allocation[1] = %v, want 20", got[1].AllocationPercent)
	}
}

func TestAllocateZeroTotal(t *testing.T) {
	investments := []models.Investment{
		inv("a", "Stocks", 0, date(2025, time.January, 1)),
		inv("b", "Bonds", 0, date(2025, time.January, 2)),
	}
	for _, a := range Allocate(investments) {
		if a.AllocationPercent != 0 {
			t.Errorf("zero-balance portfolio produced allocation %v", a.AllocationPercent)
		}
	}
	if got := Allocate(nil); len(got) != 0 {
		t.Errorf("Allocate(nil) = %v, want empty", got)
	}
}

func TestClassifyRisk(t *testing.T) {
	table := DefaultMetricsTable()
	tests := []struct {
		assetType string
		want      RiskBucket
	}{
		{"Fixed Deposits", RiskLow},  // 0.8
		{"Bonds", RiskLow},           // 2.1
		{"Mutual Funds", RiskModerate}, // 5.6
		{"Real Estate", RiskModerate},  // 7.4
		{"Stocks", RiskHigh},           // 15.2
		{"Cryptocurrency", RiskLow},    // unknown defaults to volatility 0
	}
	for _, tt := range tests {
		if got := ClassifyRisk(tt.assetType, table); got != tt.want {
			t.Errorf("ClassifyRisk(%q) = %q, want %q", tt.assetType, got, tt.want)
		}
	}
}

func TestClassifyRiskBoundaries(t *testing.T) {
	table := MetricsTable{
		"edge-low":  {Volatility: 4.999},
		"edge-mod":  {Volatility: 5},
		"edge-high": {Volatility: 10},
	}
	if got := ClassifyRisk("edge-low", table); got != RiskLow {
		t.Errorf("volatility 4.999 = %q, want Low", got)
	}
	if got := ClassifyRisk("edge-mod", table); got != RiskModerate {
		t.Errorf("volatility 5 = %q, want Moderate", got)
	}
	if got := ClassifyRisk("edge-high", table); got != RiskHigh {
		t.Errorf("volatility 10 = %q, want High", got)
	}
}

func TestTopPerformer(t *testing.T) {
	if got := TopPerformer(nil); got != nil {
		t.Errorf("TopPerformer(nil) = %v, want nil", got)
	}

	investments := []models.Investment{
		inv("a", "Bonds", 1000, date(2025, time.January, 1)),
		inv("b", "Stocks", 4000, date(2025, time.January, 2)),
		inv("c", "Mutual Funds", 4000, date(2025, time.January, 3)), // tie, later
	}
	got := TopPerformer(investments)
	if got == nil || got.ID != "b" {
		t.Fatalf("TopPerformer = %+v, want holding b (first of the tie)", got)
	}

	// Returned value is a copy; the caller must not be able to reach into the
	// input slice through it.
	got.Balance = -1
	if investments[1].Balance != 4000 {
		t.Error("TopPerformer exposed the input slice")
	}
}

func TestExpectedAnnualYield(t *testing.T) {
	table := DefaultMetricsTable()
	investments := []models.Investment{
		inv("a", "Fixed Deposits", 100000, date(2025, time.January, 1)), // 7500
		inv("b", "Stocks", 50000, date(2025, time.January, 2)),          // 6200
		inv("c", "Collectibles", 25000, date(2025, time.January, 3)),    // unknown, 0
	}
	got := ExpectedAnnualYield(investments, table)
	if math.Abs(got-13700) > 1e-9 {
		t.Errorf("ExpectedAnnualYield = %v, want 13700", got)
	}
	if got := ExpectedAnnualYield(nil, table); got != 0 {
		t.Errorf("ExpectedAnnualYield(nil) = %v, want 0", got)
	}
}

func TestSort(t *testing.T) {
	investments := []models.Investment{
		inv("a", "Stocks", 4000, date(2025, time.January, 10)),
		inv("b", "Bonds", 9000, date(2025, time.March, 5)),
		inv("c", "Mutual Funds", 2500, date(2025, time.February, 20)),
	}

	byBalance := Sort(investments, SortByBalance)
	if byBalance[0].ID != "b" || byBalance[1].ID != "a" || byBalance[2].ID != "c" {
		t.Errorf("SortByBalance order wrong: %v %v %v", byBalance[0].ID, byBalance[1].ID, byBalance[2].ID)
	}

	byType := Sort(investments, SortByType)
	if byType[0].AssetType != "Bonds" || byType[2].AssetType != "Stocks" {
		t.Errorf("SortByType order wrong: %v %v %v", byType[0].AssetType, byType[1].AssetType, byType[2].AssetType)
	}

	byAdded := Sort(investments, SortByAdded)
	if byAdded[0].ID != "b" || byAdded[1].ID != "c" || byAdded[2].ID != "a" {
		t.Errorf("SortByAdded order wrong: %v %v %v", byAdded[0].ID, byAdded[1].ID, byAdded[2].ID)
	}

	// Input untouched.
	if investments[0].ID != "a" {
		t.Error("Sort mutated its input")
	}
}
