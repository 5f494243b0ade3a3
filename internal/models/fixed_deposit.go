package models

import (
	"time"

	"github.com/google/uuid"

	"financer/internal/finmath"
)

// FixedDeposit represents a single fixed-deposit record as entered by the
// user. Amounts are rupees, the rate is an annual percentage and the tenure
// is whole months.
type FixedDeposit struct {
	ID           string    `json:"id"`
	Bank         string    `json:"bank"`
	Principal    float64   `json:"principal"`
	AnnualRate   float64   `json:"annual_rate"`
	TenureMonths int       `json:"tenure_months"`
	StartDate    time.Time `json:"start_date"`
}

// NewFixedDeposit validates the fields and returns a record with a fresh ID.
func NewFixedDeposit(bank string, principal, annualRate float64, tenureMonths int, startDate time.Time) (FixedDeposit, error) {
	fd := FixedDeposit{
		ID:           uuid.New().String(),
		Bank:         bank,
		Principal:    principal,
		AnnualRate:   annualRate,
		TenureMonths: tenureMonths,
		StartDate:    startDate,
	}
	if err := fd.Validate(); err != nil {
		return FixedDeposit{}, err
	}
	return fd, nil
}

// Validate checks the numeric fields. Records loaded from storage or parsed
// from request bodies go through this before any computation sees them.
func (fd *FixedDeposit) Validate() error {
	if fd.Bank == "" {
		return &InvalidInputError{Field: "bank", Reason: "must not be empty"}
	}
	if err := requireNonNegative("principal", fd.Principal); err != nil {
		return err
	}
	if fd.Principal == 0 {
		return &InvalidInputError{Field: "principal", Reason: "must be greater than zero"}
	}
	if err := requireNonNegative("annual_rate", fd.AnnualRate); err != nil {
		return err
	}
	if err := requirePositiveInt("tenure_months", fd.TenureMonths); err != nil {
		return err
	}
	if fd.StartDate.IsZero() {
		return &InvalidInputError{Field: "start_date", Reason: "must be set"}
	}
	return nil
}

// Interest returns the simple interest earned over the full tenure.
func (fd *FixedDeposit) Interest() float64 {
	// Fields are validated at construction, so the only error SimpleInterest
	// can return has already been ruled out.
	interest, _ := finmath.SimpleInterest(fd.Principal, fd.AnnualRate, fd.TenureMonths)
	return interest
}

// MaturityDate returns the start date advanced by the tenure.
func (fd *FixedDeposit) MaturityDate() time.Time {
	return finmath.AddMonths(fd.StartDate, fd.TenureMonths)
}

// MaturityValue returns principal plus simple interest.
func (fd *FixedDeposit) MaturityValue() float64 {
	return fd.Principal + fd.Interest()
}
