package tripsplit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tripsplit/date"
)

// This file contains functions to handle the import/export table formats.
// Input tables are the four CSVs recorded during the trip (participants,
// rates, expenses, splits); output tables are the three derived ones
// (allocations, balances, settlement). Formats should remain human readable
// and easy to edit in a spreadsheet.

// Standard headers of the input and output tables.
var (
	participantsHeader = []string{"Name", "DefaultWeight", "Contact"}
	ratesHeader        = []string{"Date", "Currency", "Rate_to_Base"}
	expensesHeader     = []string{"ExpID", "Date", "Description", "Category", "Amount", "Currency", "Payer", "ReceiptLink"}
	splitsHeader       = []string{"ExpID", "Participant", "Included", "WeightOverride"}
	allocationsHeader  = []string{"ExpID", "Participant", "Share"}
	balancesHeader     = []string{"Participant", "Paid", "Owed", "Net"}
	settlementHeader   = []string{"From", "To", "Amount"}
)

// row gives by-name access to one CSV record.
type row struct {
	line   int
	fields map[string]string
}

func (r row) get(col string) string { return strings.TrimSpace(r.fields[col]) }

// readTable reads all records of a CSV table and checks that every wanted
// column is present in the header. Column order is free, extra columns are
// ignored.
func readTable(r io.Reader, want []string) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // spreadsheets happily drop trailing empty cells
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row, want columns %v", want)
	}
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range want {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q, want columns %v", col, want)
		}
	}
	rows := make([]row, 0, len(records)-1)
	for n, record := range records[1:] {
		fields := make(map[string]string, len(want))
		for _, col := range want {
			if i := index[col]; i < len(record) {
				fields[col] = record[i]
			}
		}
		rows = append(rows, row{line: n + 2, fields: fields})
	}
	return rows, nil
}

// ImportParticipants imports the participants table from 'r'.
//
// Columns: Name (unique), DefaultWeight (positive decimal), Contact (opaque,
// may be empty).
func ImportParticipants(r io.Reader) (*Participants, error) {
	rows, err := readTable(r, participantsHeader)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}
	ps := NewParticipants()
	for _, row := range rows {
		weight, err := ParseWeight(row.get("DefaultWeight"))
		if err != nil {
			return nil, fmt.Errorf("participants line %d: invalid DefaultWeight %q: %w", row.line, row.get("DefaultWeight"), err)
		}
		p := &Participant{
			Name:          row.get("Name"),
			DefaultWeight: weight,
			Contact:       row.get("Contact"),
		}
		if err := ps.Add(p); err != nil {
			return nil, fmt.Errorf("participants line %d: %w", row.line, err)
		}
	}
	return ps, nil
}

// ExportParticipants exports the participants table to 'w'.
func ExportParticipants(w io.Writer, ps *Participants) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(participantsHeader); err != nil {
		return err
	}
	for p := range ps.All() {
		if err := cw.Write([]string{p.Name, p.DefaultWeight.String(), p.Contact}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportRates imports the exchange-rate table from 'r' into a rate table
// expressed against 'base'.
//
// Columns: Date (ISO-8601), Currency (3 uppercase letters), Rate_to_Base
// (positive decimal). Rows for the base currency must carry a rate of 1.
func ImportRates(r io.Reader, base string) (*RateTable, error) {
	rows, err := readTable(r, ratesHeader)
	if err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	table, err := NewRateTable(base)
	if err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	for _, row := range rows {
		on, err := date.Parse(row.get("Date"))
		if err != nil {
			return nil, fmt.Errorf("rates line %d: %w", row.line, err)
		}
		rate, err := ParseWeight(row.get("Rate_to_Base"))
		if err != nil {
			return nil, fmt.Errorf("rates line %d: invalid Rate_to_Base %q: %w", row.line, row.get("Rate_to_Base"), err)
		}
		if err := table.Add(row.get("Currency"), on, rate.value); err != nil {
			return nil, fmt.Errorf("rates line %d: %w", row.line, err)
		}
	}
	return table, nil
}

// ExportRates exports the exchange-rate table to 'w'.
func ExportRates(w io.Writer, t *RateTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ratesHeader); err != nil {
		return err
	}
	for code := range t.Currencies() {
		for on, rate := range t.History(code) {
			if err := cw.Write([]string{on.String(), code, rate.String()}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportExpenses imports the expenses table from 'r'.
//
// Columns: ExpID (unique), Date, Description, Category, Amount (positive
// decimal), Currency, Payer, ReceiptLink (opaque, may be empty).
func ImportExpenses(r io.Reader) ([]Expense, error) {
	rows, err := readTable(r, expensesHeader)
	if err != nil {
		return nil, fmt.Errorf("expenses: %w", err)
	}
	expenses := make([]Expense, 0, len(rows))
	for _, row := range rows {
		on, err := date.Parse(row.get("Date"))
		if err != nil {
			return nil, fmt.Errorf("expenses line %d: %w", row.line, err)
		}
		amount, err := ParseMoney(row.get("Amount"), row.get("Currency"))
		if err != nil {
			return nil, fmt.Errorf("expenses line %d: invalid Amount %q: %w", row.line, row.get("Amount"), err)
		}
		e := Expense{
			ID:          row.get("ExpID"),
			Date:        on,
			Description: row.get("Description"),
			Category:    row.get("Category"),
			Amount:      amount,
			Payer:       row.get("Payer"),
			ReceiptLink: row.get("ReceiptLink"),
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("expenses line %d: %w", row.line, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// ExportExpenses exports the expenses table to 'w'.
func ExportExpenses(w io.Writer, expenses []Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expensesHeader); err != nil {
		return err
	}
	for _, e := range expenses {
		record := []string{
			e.ID, e.Date.String(), e.Description, e.Category,
			e.Amount.Amount().String(), e.Amount.Currency(), e.Payer, e.ReceiptLink,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportSplits imports the splits table from 'r'.
//
// Columns: ExpID, Participant, Included (TRUE/FALSE, case-insensitive),
// WeightOverride (empty or a positive decimal).
func ImportSplits(r io.Reader) ([]Split, error) {
	rows, err := readTable(r, splitsHeader)
	if err != nil {
		return nil, fmt.Errorf("splits: %w", err)
	}
	splits := make([]Split, 0, len(rows))
	for _, row := range rows {
		s := Split{
			ExpenseID:   row.get("ExpID"),
			Participant: row.get("Participant"),
		}
		switch included := row.get("Included"); {
		case strings.EqualFold(included, "true"):
			s.Included = true
		case strings.EqualFold(included, "false"):
			s.Included = false
		default:
			return nil, fmt.Errorf("splits line %d: invalid Included %q, want TRUE or FALSE", row.line, included)
		}
		if override := row.get("WeightOverride"); override != "" {
			w, err := ParseWeight(override)
			if err != nil {
				return nil, fmt.Errorf("splits line %d: invalid WeightOverride %q: %w", row.line, override, err)
			}
			s.Override, s.HasOverride = w, true
		}
		splits = append(splits, s)
	}
	return splits, nil
}

// ExportSplits exports the splits table to 'w'.
func ExportSplits(w io.Writer, splits []Split) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(splitsHeader); err != nil {
		return err
	}
	for _, s := range splits {
		included := "FALSE"
		if s.Included {
			included = "TRUE"
		}
		override := ""
		if s.HasOverride {
			override = s.Override.String()
		}
		if err := cw.Write([]string{s.ExpenseID, s.Participant, included, override}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportAllocations exports the derived allocations table to 'w'.
func ExportAllocations(w io.Writer, allocations []Allocation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(allocationsHeader); err != nil {
		return err
	}
	for _, a := range allocations {
		if err := cw.Write([]string{a.ExpenseID, a.Participant, a.Share.Amount().String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportBalances exports the derived balances table to 'w'.
func ExportBalances(w io.Writer, balances []Balance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(balancesHeader); err != nil {
		return err
	}
	for _, b := range balances {
		record := []string{
			b.Participant,
			b.Paid.Amount().String(),
			b.Owed.Amount().String(),
			b.Net.Amount().String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportPayments exports the derived settlement table to 'w'.
func ExportPayments(w io.Writer, payments []Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(settlementHeader); err != nil {
		return err
	}
	for _, p := range payments {
		if err := cw.Write([]string{p.From, p.To, p.Amount.Amount().String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
