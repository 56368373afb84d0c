package tripsplit

import (
	"fmt"
)

// Payment is a single settling transfer: 'From' pays 'To' a positive amount
// in the base currency.
type Payment struct {
	From   string
	To     string
	Amount Money
}

// UnbalancedInputError reports that the net balances do not sum to zero
// within tolerance. It signals a defect in the upstream aggregation, never a
// user data problem.
type UnbalancedInputError struct {
	Residual Money
}

func (e *UnbalancedInputError) Error() string {
	return fmt.Sprintf("net balances do not sum to zero: residual %s", e.Residual.Amount())
}

// party is one side of the settlement with its outstanding magnitude.
type party struct {
	name      string
	remaining Money
}

// Settle computes a small set of creditor-to-debtor payments that zeroes all
// net balances.
//
// It repeatedly matches the largest-magnitude creditor with the
// largest-magnitude debtor; the smaller of the two is fully settled by each
// payment, so at most n-1 payments are emitted for n unsettled participants.
// Magnitude ties are broken by the lexicographically smaller name, making the
// output reproducible for identical input.
//
// A party leaves its set only once its remaining magnitude is exactly zero.
// All pipeline amounts are quantized at the minor unit, so minor-unit
// remainders are paid out like any other amount; dropping them early would
// let single units leak across iterations and strand a later party. The
// one-minor-unit tolerance applies only to the conservation check on the
// input.
func Settle(balances []Balance) ([]Payment, error) {
	if len(balances) == 0 {
		return nil, nil
	}
	tol := balances[0].Net.MinorUnit()

	residual := M(0, tol.Currency())
	for _, b := range balances {
		residual = residual.Add(b.Net)
	}
	if residual.Abs().GreaterThan(tol) {
		return nil, &UnbalancedInputError{Residual: residual}
	}

	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.Net.IsPositive():
			creditors = append(creditors, party{name: b.Participant, remaining: b.Net})
		case b.Net.IsNegative():
			debtors = append(debtors, party{name: b.Participant, remaining: b.Net.Neg()})
		}
	}

	var payments []Payment
	for len(creditors) > 0 && len(debtors) > 0 {
		ci, di := largest(creditors), largest(debtors)
		amount := creditors[ci].remaining.Min(debtors[di].remaining)
		payments = append(payments, Payment{
			From:   debtors[di].name,
			To:     creditors[ci].name,
			Amount: amount,
		})
		creditors[ci].remaining = creditors[ci].remaining.Sub(amount)
		debtors[di].remaining = debtors[di].remaining.Sub(amount)
		if creditors[ci].remaining.IsZero() {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtors[di].remaining.IsZero() {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}
	return payments, nil
}

// largest returns the index of the party with the largest outstanding
// magnitude, preferring the lexicographically smaller name on ties.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		switch parties[i].remaining.Cmp(parties[best].remaining) {
		case 1:
			best = i
		case 0:
			if parties[i].name < parties[best].name {
				best = i
			}
		}
	}
	return best
}
