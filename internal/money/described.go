package money

import (
	"github.com/shopspring/decimal"
)

// DescribedMoney carries an amount in its original currency together with
// the exchange rate to the base currency and a free-text provenance
// description. The base-currency amount is computed exactly once here, at
// construction, and stored; nothing downstream may recompute it from a
// later rate.
type DescribedMoney struct {
	original    Money
	rate        decimal.Decimal
	description string
	base        Money
}

// NewDescribed builds a DescribedMoney from an amount in its original
// currency and the exchange rate to the base currency recorded on the
// originating event. A missing, zero or negative rate is rejected with
// ErrInvalidFXRate; defaulting to 1.0 would silently corrupt reports.
func NewDescribed(amount decimal.Decimal, currency string, rate decimal.Decimal, baseCurrency, description string) (DescribedMoney, error) {
	if !rate.IsPositive() {
		return DescribedMoney{}, ErrInvalidFXRate
	}
	return DescribedMoney{
		original:    New(amount, currency),
		rate:        rate,
		description: description,
		base:        New(amount.Mul(rate), baseCurrency),
	}, nil
}

// Original returns the amount in the currency it was paid in.
func (d DescribedMoney) Original() Money { return d.original }

// Rate returns the exchange rate to the base currency recorded at creation.
func (d DescribedMoney) Rate() decimal.Decimal { return d.rate }

// Description returns the provenance text, e.g. a broker order reference.
func (d DescribedMoney) Description() string { return d.description }

// Base returns the exact base-currency amount computed at construction.
// Intermediate arithmetic uses this unrounded value.
func (d DescribedMoney) Base() Money { return d.base }

// BaseRounded rounds the base amount to the base currency's minor units.
// This is the reporting boundary; it must not feed back into matching.
func (d DescribedMoney) BaseRounded() Money { return d.base.Round() }
