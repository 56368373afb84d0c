package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tripsplit"
	"github.com/etnz/tripsplit/date"
	"github.com/google/subcommands"
)

type addCmd struct {
	id          string
	date        string
	description string
	category    string
	amount      string
	currency    string
	payer       string
	receipt     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append an expense and its splits to the trip tables" }
func (*addCmd) Usage() string {
	return `tsp add -amount <value> -payer <name> [options] [participant[=weight]...]

  Appends one expense row to expenses.csv and one split row per participant to
  splits.csv. Without positional arguments every participant is included with
  their default weight; otherwise only the listed ones are included, each with
  an optional weight override (e.g. "Bob=2").

Usage Examples:
# Dinner paid by Alice, shared by everyone.
$ tsp add -amount 150 -c CNY -payer Alice -desc "Hotpot dinner"

# Taxi shared by Alice and Bob only, Bob counting double.
$ tsp add -amount 99000 -payer Bob Alice Bob=2
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Expense identifier. Defaults to the next free E<n>.")
	f.StringVar(&c.date, "d", "", "Expense date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.description, "desc", "", "Free text description.")
	f.StringVar(&c.category, "cat", "", "Category (Food, Transport...).")
	f.StringVar(&c.amount, "amount", "", "Amount paid, in the expense currency.")
	f.StringVar(&c.currency, "c", "", "Expense currency code. Defaults to the base currency.")
	f.StringVar(&c.payer, "payer", "", "Name of the participant who paid.")
	f.StringVar(&c.receipt, "receipt", "", "Link to the receipt.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trip, err := LoadTrip()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	expense, splits, err := c.build(trip, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	record := []string{
		expense.ID, expense.Date.String(), expense.Description, expense.Category,
		expense.Amount.Amount().String(), expense.Amount.Currency(), expense.Payer, expense.ReceiptLink,
	}
	if err := appendTable(expensesFile, []string{"ExpID", "Date", "Description", "Category", "Amount", "Currency", "Payer", "ReceiptLink"}, [][]string{record}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var splitRecords [][]string
	for _, s := range splits {
		override := ""
		if s.HasOverride {
			override = s.Override.String()
		}
		splitRecords = append(splitRecords, []string{s.ExpenseID, s.Participant, "TRUE", override})
	}
	if err := appendTable(splitsFile, []string{"ExpID", "Participant", "Included", "WeightOverride"}, splitRecords); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added expense %s (%s) paid by %s, shared by %d participant(s)\n",
		expense.ID, expense.Amount, expense.Payer, len(splits))
	return subcommands.ExitSuccess
}

// build assembles and validates the new expense and its splits against the
// current trip tables.
func (c *addCmd) build(trip *tripsplit.Trip, shares []string) (tripsplit.Expense, []tripsplit.Split, error) {
	var zero tripsplit.Expense

	currency := c.currency
	if currency == "" {
		currency = trip.Base()
	}
	amount, err := tripsplit.ParseMoney(c.amount, currency)
	if err != nil {
		return zero, nil, fmt.Errorf("invalid -amount %q: %w", c.amount, err)
	}

	on := date.Today()
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			return zero, nil, fmt.Errorf("invalid -d: %w", err)
		}
	}

	id := c.id
	if id == "" {
		id = nextExpenseID(trip.Expenses)
	}
	for _, e := range trip.Expenses {
		if e.ID == id {
			return zero, nil, fmt.Errorf("expense %q already exists", id)
		}
	}

	expense := tripsplit.Expense{
		ID:          id,
		Date:        on,
		Description: c.description,
		Category:    c.category,
		Amount:      amount,
		Payer:       c.payer,
		ReceiptLink: c.receipt,
	}
	if err := expense.Validate(); err != nil {
		return zero, nil, err
	}
	if !trip.Participants.Has(expense.Payer) {
		return zero, nil, fmt.Errorf("unknown payer %q", expense.Payer)
	}

	var splits []tripsplit.Split
	if len(shares) == 0 {
		for p := range trip.Participants.All() {
			splits = append(splits, tripsplit.Split{ExpenseID: id, Participant: p.Name, Included: true})
		}
		return expense, splits, nil
	}
	for _, share := range shares {
		s := tripsplit.Split{ExpenseID: id, Included: true}
		name, weight, found := strings.Cut(share, "=")
		s.Participant = name
		if found {
			w, err := tripsplit.ParseWeight(weight)
			if err != nil {
				return zero, nil, fmt.Errorf("invalid weight in %q: %w", share, err)
			}
			s.Override, s.HasOverride = w, true
		}
		if !trip.Participants.Has(s.Participant) {
			return zero, nil, fmt.Errorf("unknown participant %q", s.Participant)
		}
		splits = append(splits, s)
	}
	return expense, splits, nil
}

// nextExpenseID returns the first E<n> not used by an existing expense.
func nextExpenseID(expenses []tripsplit.Expense) string {
	used := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		used[e.ID] = true
	}
	for n := len(expenses) + 1; ; n++ {
		if id := fmt.Sprintf("E%d", n); !used[id] {
			return id
		}
	}
}
