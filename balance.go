package tripsplit

import (
	"fmt"
	"slices"
	"strings"
)

// Balance is the aggregated position of one participant: total paid as payer,
// total owed as beneficiary, and the signed net, all in the base currency.
// A positive net means the group owes the participant.
type Balance struct {
	Participant string
	Paid        Money
	Owed        Money
	Net         Money
}

// Aggregate reduces expenses and allocations to one Balance per participant.
//
// Every known participant is represented, with zero paid and owed when they
// appear in no expense and no allocation. The result is sorted by participant
// name. The only possible failure is a missing exchange rate while
// normalizing a payer's expense, which cannot occur once the expenses have
// been allocated.
func Aggregate(participants *Participants, expenses []Expense, rates *RateTable, allocations []Allocation) ([]Balance, error) {
	zero := M(0, rates.Base())
	paid := make(map[string]Money, participants.Len())
	owed := make(map[string]Money, participants.Len())
	for p := range participants.All() {
		paid[p.Name], owed[p.Name] = zero, zero
	}

	for _, e := range expenses {
		if _, ok := paid[e.Payer]; !ok {
			return nil, fmt.Errorf("expense %q: unknown payer %q", e.ID, e.Payer)
		}
		normalized, err := rates.Normalize(e.Amount, e.Date)
		if err != nil {
			return nil, err
		}
		paid[e.Payer] = paid[e.Payer].Add(normalized.Round())
	}
	for _, a := range allocations {
		if _, ok := owed[a.Participant]; !ok {
			return nil, fmt.Errorf("allocation for expense %q: unknown participant %q", a.ExpenseID, a.Participant)
		}
		owed[a.Participant] = owed[a.Participant].Add(a.Share)
	}

	balances := make([]Balance, 0, participants.Len())
	for p := range participants.All() {
		balances = append(balances, Balance{
			Participant: p.Name,
			Paid:        paid[p.Name],
			Owed:        owed[p.Name],
			Net:         paid[p.Name].Sub(owed[p.Name]),
		})
	}
	slices.SortFunc(balances, func(a, b Balance) int {
		return strings.Compare(a.Participant, b.Participant)
	})
	return balances, nil
}
