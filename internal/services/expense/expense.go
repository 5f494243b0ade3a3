// Package expense aggregates spend records by month and category for the
// expenses page: totals, daily averages and the category breakdown behind
// the donut chart.
package expense

import (
	"sort"

	"financer/internal/finmath"
	"financer/internal/models"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "All"

// KnownCategories is the seeded category list offered by the entry form.
// User records may carry other categories; nothing here restricts them.
func KnownCategories() []string {
	return []string{
		"Groceries", "Rent", "Utilities", "Transportation", "Entertainment",
		"Healthcare", "Dining", "Education", "Shopping", "Travel", "Savings",
	}
}

// FilterByMonthAndCategory returns the expenses whose date falls in the
// given "YYYY-MM" month and, unless category is AllCategories, whose
// category matches exactly. Input order is preserved.
func FilterByMonthAndCategory(expenses []models.Expense, monthKey, category string) []models.Expense {
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.MonthKey() != monthKey {
			continue
		}
		if category != AllCategories && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Total sums the amounts of the given expenses.
func Total(expenses []models.Expense) float64 {
	var sum float64
	for i := range expenses {
		sum += expenses[i].Amount
	}
	return sum
}

// DailyAverage divides the total of the given expenses by the calendar day
// count of the month (28-31), not by the number of days that actually have
// transactions. That is the established product convention; changing it
// needs product sign-off.
func DailyAverage(expenses []models.Expense, monthKey string) (float64, error) {
	days, err := finmath.DaysInMonth(monthKey)
	if err != nil {
		return 0, err
	}
	return Total(expenses) / float64(days), nil
}

// CategoryAmount is one slice of the category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryBreakdown sums the expenses per category and returns the
// categories ordered by amount descending, ties alphabetical so the chart
// never shuffles between renders. Categories with a zero total are dropped.
func CategoryBreakdown(expenses []models.Expense) []CategoryAmount {
	totals := make(map[string]float64)
	for i := range expenses {
		totals[expenses[i].Category] += expenses[i].Amount
	}

	out := make([]CategoryAmount, 0, len(totals))
	for cat, amount := range totals {
		if amount == 0 {
			continue
		}
		out = append(out, CategoryAmount{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// PercentOfTotal returns the expense's share of the given (already filtered)
// collection, 0 when the collection totals 0.
func PercentOfTotal(e models.Expense, filtered []models.Expense) float64 {
	return finmath.PercentOf(e.Amount, Total(filtered))
}
