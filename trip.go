package tripsplit

import (
	"fmt"
	"slices"
	"strings"
)

// Trip bundles the four raw record sets of one settlement run: participants,
// exchange rates, expenses and splits. The records are treated as read-only;
// every derived entity is recomputed from scratch by [Trip.Reconcile], so a
// Trip carries no shared state and distinct Trips can be reconciled in
// parallel.
type Trip struct {
	Participants *Participants
	Rates        *RateTable
	Expenses     []Expense
	Splits       []Split
}

// NewTrip returns an empty trip settled in the given base currency.
func NewTrip(base string) (*Trip, error) {
	rates, err := NewRateTable(base)
	if err != nil {
		return nil, err
	}
	return &Trip{
		Participants: NewParticipants(),
		Rates:        rates,
	}, nil
}

// Base returns the trip's base currency code.
func (t *Trip) Base() string { return t.Rates.Base() }

// ExpenseLine is one expense of the statement, with its amount normalized to
// the base currency.
type ExpenseLine struct {
	Expense
	Normalized Money
}

// Statement is the complete outcome of a settlement run.
type Statement struct {
	Base        string
	TotalSpent  Money // sum of all normalized expense amounts
	Lines       []ExpenseLine
	Allocations []Allocation
	Balances    []Balance
	Payments    []Payment
}

// Validate checks the referential integrity of the trip records: unique
// expense ids, known payers, and splits pointing at known expenses and
// participants.
func (t *Trip) Validate() error {
	if t.Participants.Len() == 0 {
		return fmt.Errorf("trip has no participant")
	}
	ids := make(map[string]bool, len(t.Expenses))
	for i := range t.Expenses {
		e := &t.Expenses[i]
		if err := e.Validate(); err != nil {
			return err
		}
		if ids[e.ID] {
			return fmt.Errorf("duplicate expense id %q", e.ID)
		}
		ids[e.ID] = true
		if !t.Participants.Has(e.Payer) {
			return fmt.Errorf("expense %q: unknown payer %q", e.ID, e.Payer)
		}
	}
	pairs := make(map[[2]string]bool, len(t.Splits))
	for i := range t.Splits {
		s := &t.Splits[i]
		if !ids[s.ExpenseID] {
			return fmt.Errorf("split references unknown expense %q", s.ExpenseID)
		}
		if !t.Participants.Has(s.Participant) {
			return fmt.Errorf("split for expense %q references unknown participant %q", s.ExpenseID, s.Participant)
		}
		pair := [2]string{s.ExpenseID, s.Participant}
		if pairs[pair] {
			return fmt.Errorf("duplicate split for expense %q and participant %q", s.ExpenseID, s.Participant)
		}
		pairs[pair] = true
		if s.HasOverride && !s.Override.IsPositive() {
			return &InvalidWeightError{ExpenseID: s.ExpenseID, Participant: s.Participant}
		}
	}
	return nil
}

// Reconcile runs the full pipeline over the trip records: currency
// normalization, per-expense allocation, balance aggregation, and settlement.
// It fails fast on the first error; no partial statement is ever returned.
func (t *Trip) Reconcile() (*Statement, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	// Chronological expense order (id as secondary key) keeps the statement
	// independent of record order in the input.
	expenses := slices.Clone(t.Expenses)
	slices.SortFunc(expenses, func(a, b Expense) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	st := &Statement{
		Base:       t.Base(),
		TotalSpent: M(0, t.Base()),
	}
	for _, e := range expenses {
		normalized, err := t.Rates.Normalize(e.Amount, e.Date)
		if err != nil {
			return nil, err
		}
		normalized = normalized.Round()
		st.Lines = append(st.Lines, ExpenseLine{Expense: e, Normalized: normalized})
		st.TotalSpent = st.TotalSpent.Add(normalized)

		allocs, err := Allocate(e, t.Splits, t.Participants, t.Rates)
		if err != nil {
			return nil, err
		}
		st.Allocations = append(st.Allocations, allocs...)
	}

	balances, err := Aggregate(t.Participants, expenses, t.Rates, st.Allocations)
	if err != nil {
		return nil, err
	}
	st.Balances = balances

	payments, err := Settle(balances)
	if err != nil {
		return nil, err
	}
	st.Payments = payments
	return st, nil
}
