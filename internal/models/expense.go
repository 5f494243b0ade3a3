package models

import (
	"time"

	"github.com/google/uuid"
)

// Expense represents a single spend entry. Date is day precision.
type Expense struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`

	// Derived, populated by ComputeDerivedFields.
	Month string `json:"month,omitempty"` // "2025-03"
}

// NewExpense validates the fields and returns an expense with a fresh ID and
// derived fields populated.
func NewExpense(category string, amount float64, date time.Time) (Expense, error) {
	e := Expense{
		ID:       uuid.New().String(),
		Category: category,
		Amount:   amount,
		Date:     date,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	e.ComputeDerivedFields()
	return e, nil
}

// Validate checks the fields.
func (e *Expense) Validate() error {
	if e.Category == "" {
		return &InvalidInputError{Field: "category", Reason: "must not be empty"}
	}
	if e.Date.IsZero() {
		return &InvalidInputError{Field: "date", Reason: "must be set"}
	}
	return requireNonNegative("amount", e.Amount)
}

// ComputeDerivedFields populates computed fields from Date.
func (e *Expense) ComputeDerivedFields() {
	e.Month = e.Date.Format("2006-01")
}

// MonthKey returns the "YYYY-MM" key for the expense's date.
func (e *Expense) MonthKey() string {
	return e.Date.Format("2006-01")
}
