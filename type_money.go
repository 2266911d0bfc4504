package kest

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns Money of the given value and currency.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ParseMoney parses an amount as found in broker exports ("$1,234.56",
// "-$12.00", "12,5") into Money of the given currency. An empty string is
// zero.
//
// Without a decimal point, a comma followed by exactly three digits, as in
// "$1,234", could be a thousand or a decimal separator and is rejected.
func ParseMoney(s, currency string) (Money, error) {
	str := strings.TrimSpace(s)
	str = strings.ReplaceAll(str, "$", "")
	str = strings.ReplaceAll(str, " ", "")
	if str == "" {
		return M(0, currency), nil
	}
	if strings.Contains(str, ".") {
		// the comma is a thousand separator.
		str = strings.ReplaceAll(str, ",", "")
	} else {
		// the comma, if any, is the decimal separator.
		if i := strings.LastIndex(str, ","); i >= 0 && len(str)-i-1 == 3 {
			return Money{}, fmt.Errorf("ambiguous amount %q: use a decimal point", s)
		}
		str = strings.ReplaceAll(str, ",", ".")
	}
	v, err := decimal.NewFromString(str)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: v, cur: currency}, nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, rounded to the currency fraction.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Simple wrapper around money.Money

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.DivRound(n.value, DivisionPrecision), cur: m.cur} }
func (m Money) Round() Money                    { return Money{value: m.value.Round(int32(m.currency().Fraction)), cur: m.cur} }
func (m Money) StringFixed(places int32) string { return m.value.StringFixed(places) }

// Convert returns the amount converted with rate into the target currency.
func (m Money) Convert(rate decimal.Decimal, currency string) Money {
	return Money{value: m.value.Mul(rate), cur: currency}
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// MarshalJSON encodes the exact amount, the currency is implied by the field.
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }

// NullMoney is a Money that may be absent, the way sql.NullString is.
//
// Absent means "not applicable", which is different from zero.
type NullMoney struct {
	Money Money
	Valid bool
}

// Some returns a valid NullMoney.
func Some(m Money) NullMoney { return NullMoney{Money: m, Valid: true} }

// String returns "" when absent.
func (n NullMoney) String() string {
	if !n.Valid {
		return ""
	}
	return n.Money.String()
}
