package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"financer/internal/models"
)

// LoadFixedDeposits returns the stored fixed deposits, or an empty slice
// when none have been saved yet.
func (s *Store) LoadFixedDeposits() ([]models.FixedDeposit, error) {
	var out []models.FixedDeposit
	if err := s.loadJSON(fixedDepositsFile, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("stored fixed deposit %s: %w", out[i].ID, err)
		}
	}
	return out, nil
}

// SaveFixedDeposits replaces the stored fixed deposits.
func (s *Store) SaveFixedDeposits(deposits []models.FixedDeposit) error {
	return s.saveJSON(fixedDepositsFile, deposits)
}

// LoadInvestments returns the stored portfolio holdings.
func (s *Store) LoadInvestments() ([]models.Investment, error) {
	var out []models.Investment
	if err := s.loadJSON(investmentsFile, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("stored investment %s: %w", out[i].ID, err)
		}
	}
	return out, nil
}

// SaveInvestments replaces the stored portfolio holdings.
func (s *Store) SaveInvestments(investments []models.Investment) error {
	return s.saveJSON(investmentsFile, investments)
}

// LoadExpenses returns the stored expenses with derived fields populated.
func (s *Store) LoadExpenses() ([]models.Expense, error) {
	var out []models.Expense
	if err := s.loadJSON(expensesFile, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("stored expense %s: %w", out[i].ID, err)
		}
		out[i].ComputeDerivedFields()
	}
	return out, nil
}

// SaveExpenses replaces the stored expenses.
func (s *Store) SaveExpenses(expenses []models.Expense) error {
	return s.saveJSON(expensesFile, expenses)
}

func (s *Store) loadJSON(name string, dst interface{}) error {
	data, err := s.readFile(name)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.writeFile(name, data)
}
