package tripsplit

import (
	"fmt"
	"iter"
	"regexp"
	"slices"

	"github.com/etnz/tripsplit/date"
	"github.com/shopspring/decimal"
)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that a string is a valid ISO 4217-style currency code.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid currency format: must be 3 uppercase letters, got %q", code)
	}
	return nil
}

// MissingRateError reports that no exchange rate exists for a currency on or
// before a lookup date. A single missing rate makes downstream totals
// meaningless, so it aborts the run.
type MissingRateError struct {
	Currency string
	On       date.Date
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s on or before %s", e.Currency, e.On)
}

// RateTable holds dated exchange rates from source currencies to the base
// currency of the settlement. The applicable rate for a lookup date is the
// most recent rate with date on or before the lookup date.
type RateTable struct {
	base  string
	rates map[string]*date.History[decimal.Decimal]
}

// NewRateTable returns a new empty rate table expressed against 'base'.
func NewRateTable(base string) (*RateTable, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, fmt.Errorf("invalid base currency: %w", err)
	}
	return &RateTable{
		base:  base,
		rates: make(map[string]*date.History[decimal.Decimal]),
	}, nil
}

// Base returns the table's base currency code.
func (t *RateTable) Base() string { return t.base }

// Add records the rate to the base currency for 'code' on the given day.
// An existing rate at that date is overwritten (same-date duplicates are a
// data error upstream, the last one wins).
func (t *RateTable) Add(code string, on date.Date, rate decimal.Decimal) error {
	if err := ValidateCurrency(code); err != nil {
		return err
	}
	if !rate.IsPositive() {
		return fmt.Errorf("rate for %s on %s must be positive, got %s", code, on, rate)
	}
	if code == t.base && !rate.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("base currency %s must have rate 1, got %s on %s", code, rate, on)
	}
	h, ok := t.rates[code]
	if !ok {
		h = new(date.History[decimal.Decimal])
		t.rates[code] = h
	}
	h.Append(on, rate)
	return nil
}

// RateAsOf returns the rate to base for 'code' applicable on 'on': the most
// recent recorded rate with date on or before 'on'. The base currency has an
// implicit rate of 1 for all dates.
func (t *RateTable) RateAsOf(code string, on date.Date) (decimal.Decimal, bool) {
	if code == t.base {
		return decimal.NewFromInt(1), true
	}
	h, ok := t.rates[code]
	if !ok {
		return decimal.Decimal{}, false
	}
	return h.ValueAsOf(on)
}

// Normalize converts a monetary amount dated on a given day into the base
// currency. It is the currency normalization step of the pipeline: amounts
// already in the base currency pass through unchanged, anything else is
// multiplied by the applicable rate. It never silently defaults to a rate of
// 1; a missing rate is a *MissingRateError.
func (t *RateTable) Normalize(m Money, on date.Date) (Money, error) {
	if m.Currency() == t.base {
		return m, nil
	}
	rate, ok := t.RateAsOf(m.Currency(), on)
	if !ok {
		return Money{}, &MissingRateError{Currency: m.Currency(), On: on}
	}
	return M(m.Amount().Mul(rate), t.base), nil
}

// Currencies returns an iterator over all currency codes with recorded rates,
// sorted for deterministic traversal.
func (t *RateTable) Currencies() iter.Seq[string] {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return slices.Values(codes)
}

// History returns an iterator over the recorded (date, rate) pairs for a
// currency, in chronological order.
func (t *RateTable) History(code string) iter.Seq2[date.Date, decimal.Decimal] {
	h, ok := t.rates[code]
	if !ok {
		return func(yield func(date.Date, decimal.Decimal) bool) {}
	}
	return h.Values()
}
