package tripsplit

import (
	"encoding/json"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt32(int32(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Money represents a monetary value in a given currency.
//
// Arithmetic is exact (decimal based); rounding to the currency's minor unit
// only ever happens through [Money.Round].
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ParseMoney parses a decimal number into a Money of the given currency.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d, cur: currency}, nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, formatted for
// its currency.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Amount returns the raw decimal value in major units.
func (m Money) Amount() decimal.Decimal { return m.value }

// Currency returns the money's currency code.
func (m Money) Currency() string { return m.cur }

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Cmp(n Money) int                 { return m.value.Cmp(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                      { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Mul(w Weight) Money              { return Money{value: m.value.Mul(w.value), cur: m.cur} }
func (m Money) Div(w Weight) Money              { return Money{value: m.value.Div(w.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Min returns the smaller of m and n.
func (m Money) Min(n Money) Money {
	if m.LessThan(n) {
		return m
	}
	return n
}

// Round rounds the value to the currency's minor unit (e.g. cents for EUR,
// whole units for VND), half away from zero.
func (m Money) Round() Money {
	return Money{value: m.value.Round(int32(m.currency().Fraction)), cur: m.cur}
}

// MinorUnit returns the smallest representable amount of the money's currency,
// e.g. 0.01 for EUR and 1 for VND.
func (m Money) MinorUnit() Money {
	return Money{value: decimal.New(1, -int32(m.currency().Fraction)), cur: m.cur}
}

// frac returns the distance between the value and its floor at the currency's
// minor unit. Used to pick the rounding-residual carrier in an allocation.
func (m Money) frac() decimal.Decimal {
	places := int32(m.currency().Fraction)
	return m.value.Sub(m.value.RoundFloor(places))
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// MarshalJSON renders the money as a {"currency", "amount"} object, the shape
// machine consumers of a statement read.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	}{m.cur, m.value})
}

var _ json.Marshaler = Money{}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// Weight is a relative share multiplier used to split an expense unevenly
// among included participants.
type Weight struct {
	value decimal.Decimal
}

func W[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Weight {
	return Weight{value: newDecimal(value)}
}

// ParseWeight parses a decimal number into a Weight.
func ParseWeight(s string) (Weight, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Weight{}, err
	}
	return Weight{value: d}, nil
}

func (w Weight) Equal(x Weight) bool    { return w.value.Equal(x.value) }
func (w Weight) Add(x Weight) Weight    { return Weight{value: w.value.Add(x.value)} }
func (w Weight) Div(x Weight) Weight    { return Weight{value: w.value.Div(x.value)} }
func (w Weight) IsPositive() bool       { return w.value.IsPositive() }
func (w Weight) IsZero() bool           { return w.value.IsZero() }
func (w Weight) String() string         { return w.value.String() }
