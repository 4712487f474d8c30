package match

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/money"
)

// Pool is the Section 104 holding for one symbol: a single running
// (quantity, total cost) averaged across everything not matched by the
// same-day or bed-and-breakfast rules. One fresh instance exists per symbol
// per recalculation; it is owned exclusively by that symbol's matcher.
type Pool struct {
	symbol   string
	quantity decimal.Decimal
	cost     money.Money
	notes    []string
}

// NewPool creates an empty pool for symbol, costed in baseCurrency.
func NewPool(symbol, baseCurrency string) *Pool {
	return &Pool{
		symbol:   symbol,
		quantity: decimal.Zero,
		cost:     money.Zero(baseCurrency),
	}
}

func (p *Pool) Symbol() string            { return p.symbol }
func (p *Pool) Quantity() decimal.Decimal { return p.quantity }
func (p *Pool) Cost() money.Money         { return p.cost }

// Notes returns the audit trail of corporate-action adjustments.
func (p *Pool) Notes() []string { return p.notes }

// Add pools qty units carrying the given total cost.
func (p *Pool) Add(qty decimal.Decimal, cost money.Money) error {
	if qty.IsNegative() {
		return fmt.Errorf("pool %s: cannot add negative quantity %s", p.symbol, qty)
	}
	total, err := p.cost.Add(cost)
	if err != nil {
		return fmt.Errorf("pool %s: %w", p.symbol, err)
	}
	p.quantity = p.quantity.Add(qty)
	p.cost = total
	return nil
}

// Remove takes qty units out of the pool and returns their matched cost at
// the pool's average cost per unit, computed on the full pre-removal pool.
// Removing the entire holding returns the exact remaining cost so no dust
// is left behind by division rounding.
func (p *Pool) Remove(date time.Time, qty decimal.Decimal) (money.Money, error) {
	if qty.GreaterThan(p.quantity) {
		return money.Money{}, &InsufficientHoldingError{
			Symbol:    p.symbol,
			Date:      date,
			Requested: qty,
			Held:      p.quantity,
		}
	}

	var matched money.Money
	if qty.Equal(p.quantity) {
		matched = p.cost
	} else {
		matched = p.cost.Mul(qty).Div(p.quantity)
	}

	remaining, err := p.cost.Sub(matched)
	if err != nil {
		return money.Money{}, fmt.Errorf("pool %s: %w", p.symbol, err)
	}
	p.quantity = p.quantity.Sub(qty)
	p.cost = remaining
	return matched, nil
}

// ApplySplit multiplies the pooled quantity by ratio. Total cost is
// unchanged, so cost per unit implicitly divides by the ratio. Reverse
// splits use a ratio below one.
func (p *Pool) ApplySplit(date time.Time, ratio decimal.Decimal) error {
	if !ratio.IsPositive() {
		return fmt.Errorf("pool %s: split ratio must be positive, got %s", p.symbol, ratio)
	}
	p.quantity = p.quantity.Mul(ratio)
	p.notes = append(p.notes, fmt.Sprintf("%s: %s-for-1 split, quantity now %s",
		date.Format("2006-01-02"), ratio, p.quantity))
	return nil
}

// ApplyEqualisation reduces the pool's cost basis by amount without
// changing quantity, the capital-return treatment of a fund equalisation.
// relatedEvent cross-references the originating dividend for the audit
// trail.
func (p *Pool) ApplyEqualisation(date time.Time, amount money.Money, relatedEvent string) error {
	reduced, err := p.cost.Sub(amount)
	if err != nil {
		return fmt.Errorf("pool %s: %w", p.symbol, err)
	}
	if reduced.IsNegative() {
		return fmt.Errorf("pool %s on %s: equalisation %s exceeds pooled cost %s",
			p.symbol, date.Format("2006-01-02"), amount, p.cost)
	}
	p.cost = reduced
	p.notes = append(p.notes, fmt.Sprintf("%s: equalisation %s reduced cost to %s (ref %s)",
		date.Format("2006-01-02"), amount, p.cost, relatedEvent))
	return nil
}
