package models

import (
	"time"

	"github.com/google/uuid"
)

// Investment represents a portfolio holding: a balance parked in one asset
// class. ColorTag is an opaque display hint carried through untouched.
type Investment struct {
	ID        string    `json:"id"`
	AssetType string    `json:"asset_type"`
	Balance   float64   `json:"balance"`
	ColorTag  string    `json:"color_tag"`
	AddedDate time.Time `json:"added_date"`
}

// NewInvestment validates the fields and returns a holding with a fresh ID.
// AddedDate defaults to today when zero.
func NewInvestment(assetType string, balance float64, colorTag string, addedDate time.Time) (Investment, error) {
	if addedDate.IsZero() {
		addedDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	inv := Investment{
		ID:        uuid.New().String(),
		AssetType: assetType,
		Balance:   balance,
		ColorTag:  colorTag,
		AddedDate: addedDate,
	}
	if err := inv.Validate(); err != nil {
		return Investment{}, err
	}
	return inv, nil
}

// Validate checks the numeric fields.
func (inv *Investment) Validate() error {
	if inv.AssetType == "" {
		return &InvalidInputError{Field: "asset_type", Reason: "must not be empty"}
	}
	return requireNonNegative("balance", inv.Balance)
}
