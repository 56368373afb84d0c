package tripsplit

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/tripsplit/date"
	"github.com/shopspring/decimal"
)

// newTestTrip returns a three-participant trip settled in VND with a CNY rate,
// the common fixture of the engine tests.
func newTestTrip(t *testing.T) *Trip {
	t.Helper()
	trip, err := NewTrip("VND")
	if err != nil {
		t.Fatalf("NewTrip() error = %v", err)
	}
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if err := trip.Participants.Add(&Participant{Name: name, DefaultWeight: W(1)}); err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}
	if err := trip.Rates.Add("CNY", date.New(2025, time.July, 1), decimal.NewFromInt(3600)); err != nil {
		t.Fatalf("Rates.Add() error = %v", err)
	}
	return trip
}

func splitsFor(expID string, included ...string) []Split {
	splits := make([]Split, 0, len(included))
	for _, name := range included {
		splits = append(splits, Split{ExpenseID: expID, Participant: name, Included: true})
	}
	return splits
}

// 150 CNY at rate 3600 is 540,000 VND, split equally three ways.
func TestAllocateEqualSplit(t *testing.T) {
	trip := newTestTrip(t)
	exp := Expense{
		ID:     "E1",
		Date:   date.New(2025, time.July, 2),
		Amount: M(150, "CNY"),
		Payer:  "Alice",
	}

	allocs, err := Allocate(exp, splitsFor("E1", "Alice", "Bob", "Carol"), trip.Participants, trip.Rates)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if len(allocs) != 3 {
		t.Fatalf("len(allocations) = %d want 3", len(allocs))
	}
	for _, a := range allocs {
		if want := M(180000, "VND"); !a.Share.Equal(want) {
			t.Errorf("share of %s = %s want %s", a.Participant, a.Share.Amount(), want.Amount())
		}
	}
}

// A weight override of 2 against defaults of 1 splits 300,000 VND as
// 150,000 / 75,000 / 75,000, summing exactly.
func TestAllocateWeightOverride(t *testing.T) {
	trip := newTestTrip(t)
	exp := Expense{
		ID:     "E1",
		Date:   date.New(2025, time.July, 2),
		Amount: M(300000, "VND"),
		Payer:  "Bob",
	}
	splits := []Split{
		{ExpenseID: "E1", Participant: "Alice", Included: true, Override: W(2), HasOverride: true},
		{ExpenseID: "E1", Participant: "Bob", Included: true},
		{ExpenseID: "E1", Participant: "Carol", Included: true},
	}

	allocs, err := Allocate(exp, splits, trip.Participants, trip.Rates)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	want := map[string]int64{"Alice": 150000, "Bob": 75000, "Carol": 75000}
	for _, a := range allocs {
		if w := M(want[a.Participant], "VND"); !a.Share.Equal(w) {
			t.Errorf("share of %s = %s want %s", a.Participant, a.Share.Amount(), w.Amount())
		}
	}
}

// The rounding residual goes, in full, to exactly one participant so that
// shares always sum to the normalized amount.
func TestAllocateRoundingResidual(t *testing.T) {
	trip := newTestTrip(t)
	exp := Expense{
		ID:     "E1",
		Date:   date.New(2025, time.July, 2),
		Amount: M(100, "VND"),
		Payer:  "Alice",
	}

	allocs, err := Allocate(exp, splitsFor("E1", "Alice", "Bob", "Carol"), trip.Participants, trip.Rates)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	sum := M(0, "VND")
	for _, a := range allocs {
		sum = sum.Add(a.Share)
	}
	if want := M(100, "VND"); !sum.Equal(want) {
		t.Errorf("sum of shares = %s want %s", sum.Amount(), want.Amount())
	}
	// All fractional remainders tie, so the lexicographically smallest name
	// carries the extra unit.
	for _, a := range allocs {
		want := int64(33)
		if a.Participant == "Alice" {
			want = 34
		}
		if !a.Share.Equal(M(want, "VND")) {
			t.Errorf("share of %s = %s want %d", a.Participant, a.Share.Amount(), want)
		}
	}
}

func TestAllocateNoParticipants(t *testing.T) {
	trip := newTestTrip(t)
	exp := Expense{ID: "E1", Date: date.New(2025, time.July, 2), Amount: M(100, "VND"), Payer: "Alice"}
	splits := []Split{
		{ExpenseID: "E1", Participant: "Alice", Included: false},
		{ExpenseID: "E1", Participant: "Bob", Included: false},
	}

	_, err := Allocate(exp, splits, trip.Participants, trip.Rates)
	var noone *NoParticipantsError
	if !errors.As(err, &noone) {
		t.Fatalf("Allocate() error = %v, want *NoParticipantsError", err)
	}
	if noone.ExpenseID != "E1" {
		t.Errorf("NoParticipantsError.ExpenseID = %q want E1", noone.ExpenseID)
	}
}

func TestAllocateInvalidWeight(t *testing.T) {
	trip := newTestTrip(t)
	exp := Expense{ID: "E1", Date: date.New(2025, time.July, 2), Amount: M(100, "VND"), Payer: "Alice"}
	splits := []Split{
		{ExpenseID: "E1", Participant: "Alice", Included: true},
		{ExpenseID: "E1", Participant: "Bob", Included: true, Override: W(0), HasOverride: true},
	}

	_, err := Allocate(exp, splits, trip.Participants, trip.Rates)
	var invalid *InvalidWeightError
	if !errors.As(err, &invalid) {
		t.Fatalf("Allocate() error = %v, want *InvalidWeightError", err)
	}
	if invalid.Participant != "Bob" {
		t.Errorf("InvalidWeightError.Participant = %q want Bob", invalid.Participant)
	}
}

// Splits marked not-included contribute nothing, whatever their weight.
func TestAllocateExcludedGetNothing(t *testing.T) {
	trip := newTestTrip(t)
	exp := Expense{ID: "E1", Date: date.New(2025, time.July, 2), Amount: M(90000, "VND"), Payer: "Alice"}
	splits := []Split{
		{ExpenseID: "E1", Participant: "Alice", Included: true},
		{ExpenseID: "E1", Participant: "Bob", Included: true},
		{ExpenseID: "E1", Participant: "Carol", Included: false, Override: W(10), HasOverride: true},
	}

	allocs, err := Allocate(exp, splits, trip.Participants, trip.Rates)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if len(allocs) != 2 {
		t.Fatalf("len(allocations) = %d want 2", len(allocs))
	}
	for _, a := range allocs {
		if a.Participant == "Carol" {
			t.Errorf("excluded participant Carol received a share")
		}
		if want := M(45000, "VND"); !a.Share.Equal(want) {
			t.Errorf("share of %s = %s want %s", a.Participant, a.Share.Amount(), want.Amount())
		}
	}
}

// Splits of other expenses must be ignored.
func TestAllocateFiltersOtherExpenses(t *testing.T) {
	trip := newTestTrip(t)
	exp := Expense{ID: "E1", Date: date.New(2025, time.July, 2), Amount: M(100000, "VND"), Payer: "Alice"}
	splits := append(splitsFor("E1", "Alice", "Bob"), splitsFor("E2", "Carol")...)

	allocs, err := Allocate(exp, splits, trip.Participants, trip.Rates)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if len(allocs) != 2 {
		t.Fatalf("len(allocations) = %d want 2", len(allocs))
	}
}
