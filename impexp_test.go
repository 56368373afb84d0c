package tripsplit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/etnz/tripsplit/date"
)

const participantsCSV = `Name,DefaultWeight,Contact
Alice,1,alice@example.com
Bob,1,
Carol,2,
`

const ratesCSV = `Date,Currency,Rate_to_Base
2025-07-01,CNY,3600
2025-07-10,CNY,3650
2025-07-01,EUR,28000
`

const expensesCSV = `ExpID,Date,Description,Category,Amount,Currency,Payer,ReceiptLink
E1,2025-07-02,Hotpot dinner,Food,150,CNY,Alice,https://example.com/r/1
E2,2025-07-03,Grab ride,Transport,90000,VND,Bob,
`

const splitsCSV = `ExpID,Participant,Included,WeightOverride
E1,Alice,TRUE,
E1,Bob,TRUE,
E1,Carol,true,2
E2,Alice,TRUE,
E2,Bob,FALSE,
E2,Carol,TRUE,
`

func TestImportParticipants(t *testing.T) {
	ps, err := ImportParticipants(strings.NewReader(participantsCSV))
	if err != nil {
		t.Fatalf("ImportParticipants() error = %v", err)
	}
	if ps.Len() != 3 {
		t.Fatalf("Len() = %d want 3", ps.Len())
	}
	carol := ps.Get("Carol")
	if carol == nil {
		t.Fatalf("Get(Carol) = nil")
	}
	if !carol.DefaultWeight.Equal(W(2)) {
		t.Errorf("Carol default weight = %s want 2", carol.DefaultWeight)
	}
	if got := ps.Get("Alice").Contact; got != "alice@example.com" {
		t.Errorf("Alice contact = %q", got)
	}
}

func TestImportParticipantsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "missing column", in: "Name,Contact\nAlice,\n"},
		{name: "bad weight", in: "Name,DefaultWeight,Contact\nAlice,heavy,\n"},
		{name: "non-positive weight", in: "Name,DefaultWeight,Contact\nAlice,0,\n"},
		{name: "duplicate name", in: "Name,DefaultWeight,Contact\nAlice,1,\nAlice,1,\n"},
		{name: "empty", in: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportParticipants(strings.NewReader(tc.in)); err == nil {
				t.Errorf("ImportParticipants() expected an error")
			}
		})
	}
}

func TestImportRates(t *testing.T) {
	table, err := ImportRates(strings.NewReader(ratesCSV), "VND")
	if err != nil {
		t.Fatalf("ImportRates() error = %v", err)
	}
	rate, ok := table.RateAsOf("CNY", date.New(2025, time.July, 5))
	if !ok || rate.String() != "3600" {
		t.Errorf("RateAsOf(CNY, 2025-07-05) = %s, %v want 3600, true", rate, ok)
	}
	if _, ok := table.RateAsOf("EUR", date.New(2025, time.June, 30)); ok {
		t.Errorf("RateAsOf(EUR) before first record should not be found")
	}
}

func TestImportRatesRejectsBaseNotOne(t *testing.T) {
	in := "Date,Currency,Rate_to_Base\n2025-07-01,VND,2\n"
	if _, err := ImportRates(strings.NewReader(in), "VND"); err == nil {
		t.Errorf("ImportRates() expected an error for base currency rate != 1")
	}
}

func TestImportExpenses(t *testing.T) {
	expenses, err := ImportExpenses(strings.NewReader(expensesCSV))
	if err != nil {
		t.Fatalf("ImportExpenses() error = %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("len(expenses) = %d want 2", len(expenses))
	}
	e := expenses[0]
	if e.ID != "E1" || e.Payer != "Alice" || e.Category != "Food" {
		t.Errorf("unexpected first expense: %+v", e)
	}
	if !e.Amount.Equal(M(150, "CNY")) {
		t.Errorf("E1 amount = %s %s want 150 CNY", e.Amount.Amount(), e.Amount.Currency())
	}
	if e.ReceiptLink == "" {
		t.Errorf("E1 receipt link lost in import")
	}
}

func TestImportExpensesErrors(t *testing.T) {
	header := "ExpID,Date,Description,Category,Amount,Currency,Payer,ReceiptLink\n"
	tests := []struct {
		name string
		row  string
	}{
		{name: "bad date", row: "E1,someday,x,Food,1,VND,Alice,\n"},
		{name: "bad amount", row: "E1,2025-07-02,x,Food,much,VND,Alice,\n"},
		{name: "negative amount", row: "E1,2025-07-02,x,Food,-5,VND,Alice,\n"},
		{name: "bad currency", row: "E1,2025-07-02,x,Food,1,Dong,Alice,\n"},
		{name: "missing payer", row: "E1,2025-07-02,x,Food,1,VND,,\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportExpenses(strings.NewReader(header + tc.row)); err == nil {
				t.Errorf("ImportExpenses() expected an error")
			}
		})
	}
}

func TestImportSplits(t *testing.T) {
	splits, err := ImportSplits(strings.NewReader(splitsCSV))
	if err != nil {
		t.Fatalf("ImportSplits() error = %v", err)
	}
	if len(splits) != 6 {
		t.Fatalf("len(splits) = %d want 6", len(splits))
	}
	// Included parsing is case-insensitive.
	if !splits[2].Included {
		t.Errorf("Carol split on E1 should be included")
	}
	if !splits[2].HasOverride || !splits[2].Override.Equal(W(2)) {
		t.Errorf("Carol split on E1 should carry override 2, got %+v", splits[2])
	}
	if splits[4].Included {
		t.Errorf("Bob split on E2 should be excluded")
	}
	if splits[0].HasOverride {
		t.Errorf("empty WeightOverride should not count as an override")
	}
}

func TestImportSplitsBadIncluded(t *testing.T) {
	in := "ExpID,Participant,Included,WeightOverride\nE1,Alice,maybe,\n"
	if _, err := ImportSplits(strings.NewReader(in)); err == nil {
		t.Errorf("ImportSplits() expected an error for Included=maybe")
	}
}

// Importing the four tables yields a trip that reconciles.
func TestImportedTripReconciles(t *testing.T) {
	trip, err := NewTrip("VND")
	if err != nil {
		t.Fatalf("NewTrip() error = %v", err)
	}
	if trip.Participants, err = ImportParticipants(strings.NewReader(participantsCSV)); err != nil {
		t.Fatalf("ImportParticipants() error = %v", err)
	}
	if trip.Rates, err = ImportRates(strings.NewReader(ratesCSV), "VND"); err != nil {
		t.Fatalf("ImportRates() error = %v", err)
	}
	if trip.Expenses, err = ImportExpenses(strings.NewReader(expensesCSV)); err != nil {
		t.Fatalf("ImportExpenses() error = %v", err)
	}
	if trip.Splits, err = ImportSplits(strings.NewReader(splitsCSV)); err != nil {
		t.Fatalf("ImportSplits() error = %v", err)
	}

	st, err := trip.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(st.Payments) == 0 {
		t.Errorf("expected a non-empty payment plan")
	}
	assertSettles(t, st.Balances, st.Payments)
}

func TestExportRoundTrips(t *testing.T) {
	ps, err := ImportParticipants(strings.NewReader(participantsCSV))
	if err != nil {
		t.Fatalf("ImportParticipants() error = %v", err)
	}
	var buf bytes.Buffer
	if err := ExportParticipants(&buf, ps); err != nil {
		t.Fatalf("ExportParticipants() error = %v", err)
	}
	again, err := ImportParticipants(&buf)
	if err != nil {
		t.Fatalf("re-import error = %v", err)
	}
	if again.Len() != ps.Len() {
		t.Errorf("round trip lost participants: %d want %d", again.Len(), ps.Len())
	}

	expenses, err := ImportExpenses(strings.NewReader(expensesCSV))
	if err != nil {
		t.Fatalf("ImportExpenses() error = %v", err)
	}
	buf.Reset()
	if err := ExportExpenses(&buf, expenses); err != nil {
		t.Fatalf("ExportExpenses() error = %v", err)
	}
	againExp, err := ImportExpenses(&buf)
	if err != nil {
		t.Fatalf("re-import error = %v", err)
	}
	if len(againExp) != len(expenses) || againExp[0].ID != expenses[0].ID {
		t.Errorf("round trip lost expenses")
	}

	splits, err := ImportSplits(strings.NewReader(splitsCSV))
	if err != nil {
		t.Fatalf("ImportSplits() error = %v", err)
	}
	buf.Reset()
	if err := ExportSplits(&buf, splits); err != nil {
		t.Fatalf("ExportSplits() error = %v", err)
	}
	againSplits, err := ImportSplits(&buf)
	if err != nil {
		t.Fatalf("re-import error = %v", err)
	}
	if len(againSplits) != len(splits) {
		t.Errorf("round trip lost splits")
	}
}
