package tripsplit

import (
	"fmt"
	"strings"

	"github.com/etnz/tripsplit/date"
)

// Expense is a raw expense event: a single payer paid an amount in some
// currency on a given day, on behalf of a subset of the participants.
type Expense struct {
	ID          string
	Date        date.Date
	Description string
	Category    string
	Amount      Money  // in the expense's own currency
	Payer       string // participant name
	ReceiptLink string // opaque external reference, may be empty
}

// Validate checks the expense record for correctness.
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("expense id cannot be empty")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("expense %q: date is required", e.ID)
	}
	if err := ValidateCurrency(e.Amount.Currency()); err != nil {
		return fmt.Errorf("expense %q: %w", e.ID, err)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("expense %q: amount must be positive, got %s", e.ID, e.Amount.Amount())
	}
	if strings.TrimSpace(e.Payer) == "" {
		return fmt.Errorf("expense %q: payer is required", e.ID)
	}
	return nil
}

// Split records, for one (expense, participant) pair, whether the participant
// benefits from the expense and with which weight.
type Split struct {
	ExpenseID   string
	Participant string
	Included    bool
	Override    Weight // weight override, meaningful only when HasOverride
	HasOverride bool
}

// EffectiveWeight resolves the weight to use for this split: the override if
// present, else the participant's default weight.
func (s *Split) EffectiveWeight(p *Participant) Weight {
	if s.HasOverride {
		return s.Override
	}
	return p.DefaultWeight
}
