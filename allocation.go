package tripsplit

import (
	"fmt"
	"slices"
	"strings"
)

// Allocation is one participant's share of one expense, in the base currency.
type Allocation struct {
	ExpenseID   string
	Participant string
	Share       Money
}

// NoParticipantsError reports an expense with no included beneficiary.
type NoParticipantsError struct {
	ExpenseID string
}

func (e *NoParticipantsError) Error() string {
	return fmt.Sprintf("expense %q has no included participant", e.ExpenseID)
}

// InvalidWeightError reports a non-positive effective weight for an included
// participant of an expense.
type InvalidWeightError struct {
	ExpenseID   string
	Participant string
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("expense %q: participant %q has a non-positive effective weight", e.ExpenseID, e.Participant)
}

// Allocate distributes one expense's amount among its included participants
// according to their effective weights, in the base currency.
//
// The expense amount is first normalized to the base currency and rounded to
// its minor unit. Shares are computed at full precision and rounded to the
// minor unit; the rounding residual, if any, is applied in full to the
// included participant with the largest fractional remainder (ties go to the
// lexicographically smaller name), so that the shares always sum exactly to
// the normalized amount.
func Allocate(exp Expense, splits []Split, participants *Participants, rates *RateTable) ([]Allocation, error) {
	normalized, err := rates.Normalize(exp.Amount, exp.Date)
	if err != nil {
		return nil, err
	}
	total := normalized.Round()

	// Keep only the beneficiaries of this expense.
	included := make([]Split, 0, len(splits))
	for _, s := range splits {
		if s.ExpenseID == exp.ID && s.Included {
			included = append(included, s)
		}
	}
	if len(included) == 0 {
		return nil, &NoParticipantsError{ExpenseID: exp.ID}
	}
	// Name order makes the residual placement reproducible.
	slices.SortFunc(included, func(a, b Split) int {
		return strings.Compare(a.Participant, b.Participant)
	})

	// Resolve effective weights.
	weights := make([]Weight, len(included))
	var sum Weight
	for i, s := range included {
		p := participants.Get(s.Participant)
		if p == nil {
			return nil, fmt.Errorf("expense %q: unknown participant %q", exp.ID, s.Participant)
		}
		w := s.EffectiveWeight(p)
		if !w.IsPositive() {
			return nil, &InvalidWeightError{ExpenseID: exp.ID, Participant: s.Participant}
		}
		weights[i] = w
		sum = sum.Add(w)
	}

	// Full-precision shares, then round each to the minor unit.
	exact := make([]Money, len(included))
	allocs := make([]Allocation, len(included))
	rounded := M(0, total.Currency())
	for i, s := range included {
		exact[i] = total.Mul(weights[i]).Div(sum)
		share := exact[i].Round()
		allocs[i] = Allocation{ExpenseID: exp.ID, Participant: s.Participant, Share: share}
		rounded = rounded.Add(share)
	}

	// Single corrective adjustment: the residual goes to the participant with
	// the largest fractional remainder.
	if residual := total.Sub(rounded); !residual.IsZero() {
		carrier := 0
		for i := 1; i < len(exact); i++ {
			if exact[i].frac().GreaterThan(exact[carrier].frac()) {
				carrier = i
			}
		}
		allocs[carrier].Share = allocs[carrier].Share.Add(residual)
	}
	return allocs, nil
}
