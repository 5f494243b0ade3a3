// Package finmath provides the money and date primitives shared by the
// computation services: simple-interest arithmetic, calendar-correct month
// addition, division-safe percentages and rupee rounding/formatting.
package finmath

import (
	"fmt"
	"math"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// InvalidInputError reports a field or argument that failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// SimpleInterest returns principal * rate * months / 1200, the simple
// interest over a tenure expressed in whole months at an annual percentage
// rate. It rejects negative or non-finite inputs instead of clamping them.
func SimpleInterest(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal < 0 {
		return 0, &InvalidInputError{Field: "principal", Reason: "must be a non-negative finite number"}
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 {
		return 0, &InvalidInputError{Field: "annual_rate", Reason: "must be a non-negative finite number"}
	}
	if tenureMonths <= 0 {
		return 0, &InvalidInputError{Field: "tenure_months", Reason: "must be greater than zero"}
	}
	return principal * annualRatePercent * float64(tenureMonths) / 1200, nil
}

// AddMonths adds n calendar months to t, preserving the day of month where
// the target month has it and clamping to the target month's last day
// otherwise (2025-01-31 + 1 month is 2025-02-28). AddMonths(t, 0) returns t
// normalized to day precision.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	// Normalize the target month first, then clamp the day. time.Date's own
	// normalization would roll an overflowing day into the next month.
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// PercentOf returns part as a percentage of whole, and 0 when whole is 0.
// The zero-divisor case is defined behavior relied on system-wide, never an
// error.
func PercentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// DaysInMonth returns the calendar day count (28-31) of a "YYYY-MM" month
// key.
func DaysInMonth(monthKey string) (int, error) {
	t, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return 0, &InvalidInputError{Field: "month", Reason: fmt.Sprintf("%q is not a YYYY-MM month key", monthKey)}
	}
	return daysIn(t.Year(), t.Month()), nil
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// compoundingPeriods maps a credit frequency name to periods per year.
var compoundingPeriods = map[string]int{
	"monthly":     12,
	"quarterly":   4,
	"half-yearly": 2,
	"yearly":      1,
}

// PeriodBalance is one credited period of a compound-interest schedule.
type PeriodBalance struct {
	Period         int     `json:"period"`
	InterestEarned float64 `json:"interest_earned"`
	Balance        float64 `json:"balance"`
}

// CompoundResult is the outcome of a compound-interest projection.
type CompoundResult struct {
	MaturityAmount float64         `json:"maturity_amount"`
	InterestEarned float64         `json:"interest_earned"`
	EffectiveRate  float64         `json:"effective_annual_rate"`
	PeriodsPerYear int             `json:"periods_per_year"`
	Breakdown      []PeriodBalance `json:"breakdown"`
}

// CompoundInterest projects a deposit compounded at the given frequency
// ("monthly", "quarterly", "half-yearly", "yearly"; anything else means
// quarterly). The breakdown lists each full credited period.
func CompoundInterest(principal, annualRatePercent float64, tenureMonths int, frequency string) (CompoundResult, error) {
	// Same validation surface as SimpleInterest.
	if _, err := SimpleInterest(principal, annualRatePercent, tenureMonths); err != nil {
		return CompoundResult{}, err
	}

	periodsPerYear, ok := compoundingPeriods[frequency]
	if !ok {
		periodsPerYear = 4
	}

	ratePerPeriod := annualRatePercent / 100 / float64(periodsPerYear)
	totalPeriods := float64(tenureMonths) / 12 * float64(periodsPerYear)

	maturity := principal * math.Pow(1+ratePerPeriod, totalPeriods)
	effective := (math.Pow(1+ratePerPeriod, float64(periodsPerYear)) - 1) * 100

	breakdown := make([]PeriodBalance, 0, int(totalPeriods))
	balance := principal
	for period := 1; period <= int(totalPeriods); period++ {
		interest := balance * ratePerPeriod
		balance += interest
		breakdown = append(breakdown, PeriodBalance{
			Period:         period,
			InterestEarned: Round2(interest),
			Balance:        Round2(balance),
		})
	}

	return CompoundResult{
		MaturityAmount: Round2(maturity),
		InterestEarned: Round2(maturity - principal),
		EffectiveRate:  Round2(effective),
		PeriodsPerYear: periodsPerYear,
		Breakdown:      breakdown,
	}, nil
}

// Round2 rounds a rupee amount to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatINR renders a rupee amount for display, e.g. "₹6,500.00".
func FormatINR(v float64) string {
	minor := decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(minor, money.INR).Display()
}
