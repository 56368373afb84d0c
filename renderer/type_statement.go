package renderer

import (
	"encoding/json"

	"github.com/etnz/tripsplit"
	"github.com/etnz/tripsplit/date"
)

// Statement is the renderable view of a settlement run.
// Amounts are kept as exact Money values; they already carry the basic
// renderers (String, SignedString).
type Statement struct {
	// Base is the settlement's base currency code.
	Base string `json:"base"`
	// TotalSpent is the sum of all normalized expense amounts.
	TotalSpent tripsplit.Money `json:"totalSpent"`
	// Expenses lists the expenses in chronological order.
	Expenses []ExpenseRow `json:"expenses"`
	// Balances lists one row per participant, sorted by name.
	Balances []BalanceRow `json:"balances"`
	// Payments is the settlement plan, in emission order.
	Payments []PaymentRow `json:"payments"`
}

// ExpenseRow represents a single expense of the statement.
type ExpenseRow struct {
	ID          string          `json:"id"`
	Date        date.Date       `json:"date"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Payer       string          `json:"payer"`
	Amount      tripsplit.Money `json:"amount"`
	Normalized  tripsplit.Money `json:"normalized"`
}

// BalanceRow represents a single participant balance.
type BalanceRow struct {
	Participant string          `json:"participant"`
	Paid        tripsplit.Money `json:"paid"`
	Owed        tripsplit.Money `json:"owed"`
	Net         tripsplit.Money `json:"net"`
}

// PaymentRow represents a single settling payment.
type PaymentRow struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount tripsplit.Money `json:"amount"`
}

// JSON renders the statement as indented JSON, for machine consumers.
func (s *Statement) JSON() (string, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NewStatement creates the renderable view of a reconciled statement.
func NewStatement(st *tripsplit.Statement) *Statement {
	s := &Statement{
		Base:       st.Base,
		TotalSpent: st.TotalSpent,
	}
	for _, line := range st.Lines {
		s.Expenses = append(s.Expenses, ExpenseRow{
			ID:          line.ID,
			Date:        line.Date,
			Description: line.Description,
			Category:    line.Category,
			Payer:       line.Payer,
			Amount:      line.Amount,
			Normalized:  line.Normalized,
		})
	}
	for _, b := range st.Balances {
		s.Balances = append(s.Balances, BalanceRow{
			Participant: b.Participant,
			Paid:        b.Paid,
			Owed:        b.Owed,
			Net:         b.Net,
		})
	}
	for _, p := range st.Payments {
		s.Payments = append(s.Payments, PaymentRow{From: p.From, To: p.To, Amount: p.Amount})
	}
	return s
}
