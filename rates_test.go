package tripsplit

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/tripsplit/date"
	"github.com/shopspring/decimal"
)

func TestRateAsOf(t *testing.T) {
	table, err := NewRateTable("VND")
	if err != nil {
		t.Fatalf("NewRateTable() error = %v", err)
	}
	table.Add("CNY", date.New(2025, time.July, 10), decimal.NewFromInt(3600))
	table.Add("CNY", date.New(2025, time.July, 20), decimal.NewFromInt(3650))

	tests := []struct {
		name  string
		code  string
		on    date.Date
		want  string
		found bool
	}{
		{name: "before first rate", code: "CNY", on: date.New(2025, time.July, 9), found: false},
		{name: "on first rate", code: "CNY", on: date.New(2025, time.July, 10), want: "3600", found: true},
		{name: "between rates uses earlier", code: "CNY", on: date.New(2025, time.July, 15), want: "3600", found: true},
		{name: "after last rate", code: "CNY", on: date.New(2025, time.August, 1), want: "3650", found: true},
		{name: "unknown currency", code: "USD", on: date.New(2025, time.July, 15), found: false},
		{name: "base currency is implicit", code: "VND", on: date.New(1990, time.January, 1), want: "1", found: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rate, found := table.RateAsOf(tc.code, tc.on)
			if found != tc.found {
				t.Fatalf("RateAsOf(%s, %s) found = %v want %v", tc.code, tc.on, found, tc.found)
			}
			if found && rate.String() != tc.want {
				t.Errorf("RateAsOf(%s, %s) = %s want %s", tc.code, tc.on, rate, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	table, _ := NewRateTable("VND")
	table.Add("CNY", date.New(2025, time.July, 1), decimal.NewFromInt(3600))

	got, err := table.Normalize(M(150, "CNY"), date.New(2025, time.July, 1))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if want := M(540000, "VND"); !got.Equal(want) {
		t.Errorf("Normalize(150 CNY) = %s %s want %s %s", got.Amount(), got.Currency(), want.Amount(), want.Currency())
	}

	// Base currency passes through unchanged, no rate needed.
	got, err = table.Normalize(M(1000, "VND"), date.New(1990, time.January, 1))
	if err != nil {
		t.Fatalf("Normalize(base) error = %v", err)
	}
	if want := M(1000, "VND"); !got.Equal(want) {
		t.Errorf("Normalize(1000 VND) = %s want %s", got.Amount(), want.Amount())
	}
}

// An expense date that predates all rate records must fail, never silently
// default to a rate of 1.
func TestNormalizeMissingRate(t *testing.T) {
	table, _ := NewRateTable("VND")
	table.Add("CNY", date.New(2025, time.July, 10), decimal.NewFromInt(3600))

	_, err := table.Normalize(M(150, "CNY"), date.New(2025, time.July, 9))
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("Normalize() error = %v, want *MissingRateError", err)
	}
	if missing.Currency != "CNY" {
		t.Errorf("MissingRateError.Currency = %q want CNY", missing.Currency)
	}
	if want := date.New(2025, time.July, 9); missing.On != want {
		t.Errorf("MissingRateError.On = %v want %v", missing.On, want)
	}
}

func TestRateTableAdd(t *testing.T) {
	table, _ := NewRateTable("VND")
	if err := table.Add("cny", date.New(2025, time.July, 1), decimal.NewFromInt(3600)); err == nil {
		t.Errorf("Add(lowercase code) expected an error")
	}
	if err := table.Add("CNY", date.New(2025, time.July, 1), decimal.NewFromInt(-1)); err == nil {
		t.Errorf("Add(negative rate) expected an error")
	}
	if err := table.Add("VND", date.New(2025, time.July, 1), decimal.NewFromInt(2)); err == nil {
		t.Errorf("Add(base rate != 1) expected an error")
	}
	if err := table.Add("VND", date.New(2025, time.July, 1), decimal.NewFromInt(1)); err != nil {
		t.Errorf("Add(base rate 1) error = %v", err)
	}
}
