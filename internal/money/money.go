package money

import (
	"errors"
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch is returned by arithmetic between two amounts in
	// different currencies. Amounts are never silently coerced.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidFXRate is returned when an event carries a missing, zero or
	// negative exchange rate. Rates are supplied upstream and never default.
	ErrInvalidFXRate = errors.New("invalid fx rate")
)

// Money is an immutable amount in a single currency. All arithmetic is
// exact decimal; rounding to the currency's minor units happens only at
// reporting boundaries via Round.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New creates a Money value.
func New(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }

// Add returns m + n, or ErrCurrencyMismatch if the currencies differ.
// A zero-valued Money with an empty currency acts as the identity.
func (m Money) Add(n Money) (Money, error) {
	cur, err := mergeCurrency(m, n)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(n.amount), currency: cur}, nil
}

// Sub returns m - n, or ErrCurrencyMismatch if the currencies differ.
func (m Money) Sub(n Money) (Money, error) {
	cur, err := mergeCurrency(m, n)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(n.amount), currency: cur}, nil
}

// Mul scales the amount by q.
func (m Money) Mul(q decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(q), currency: m.currency}
}

// Div divides the amount by q.
func (m Money) Div(q decimal.Decimal) Money {
	return Money{amount: m.amount.Div(q), currency: m.currency}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(n Money) bool {
	return m.currency == n.currency && m.amount.Equal(n.amount)
}

// Round rounds to the currency's minor-unit precision (2 for GBP, 0 for
// JPY, ...). Unknown currencies round to 2.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(minorUnits(m.currency)), currency: m.currency}
}

// String renders the rounded amount with its currency code, e.g. "GBP 200.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(minorUnits(m.currency)))
}

func minorUnits(code string) int32 {
	if c := gomoney.GetCurrency(code); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// mergeCurrency resolves the currency of a binary operation. The empty
// currency is weak: it adopts the other operand's currency, so Zero("") is
// a usable accumulator seed.
func mergeCurrency(a, b Money) (string, error) {
	switch {
	case a.currency == "":
		return b.currency, nil
	case b.currency == "":
		return a.currency, nil
	case a.currency != b.currency:
		return "", fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a.currency, b.currency)
	default:
		return a.currency, nil
	}
}
