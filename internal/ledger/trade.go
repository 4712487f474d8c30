package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/money"
)

// Side is the direction of a trade.
type Side int

const (
	Acquisition Side = iota
	Disposal
)

func (s Side) String() string {
	switch s {
	case Acquisition:
		return "buy"
	case Disposal:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide parses the wire name of a trade direction.
func ParseSide(s string) (Side, error) {
	switch s {
	case "buy", "acquisition":
		return Acquisition, nil
	case "sell", "disposal":
		return Disposal, nil
	default:
		return 0, fmt.Errorf("unknown trade side: %q", s)
	}
}

// MatchRule identifies which statutory identification rule produced a match.
type MatchRule int

const (
	// SameDay matches a disposal against acquisitions on the same date.
	SameDay MatchRule = iota
	// BedAndBreakfast matches a disposal against a reacquisition within the
	// 30 days after it.
	BedAndBreakfast
	// Section104Holding matches against, or absorbs into, the pooled
	// average-cost holding.
	Section104Holding
	// CloseOut is the futures contract close-out; futures never pool.
	CloseOut
)

func (r MatchRule) String() string {
	switch r {
	case SameDay:
		return "same-day"
	case BedAndBreakfast:
		return "bed-and-breakfast"
	case Section104Holding:
		return "section-104"
	case CloseOut:
		return "close-out"
	default:
		return "unknown"
	}
}

// Match is an immutable record of one partial match. The disposal and the
// acquisition each hold a mirror copy with the same quantity and values;
// Counterpart is nil when the other side is the Section 104 holding.
type Match struct {
	Quantity    decimal.Decimal
	Cost        money.Money // base currency
	Proceeds    money.Money // base currency
	Rule        MatchRule
	Counterpart *Trade
}

// Trade is one acquisition or disposal of an asset. Quantity is always
// positive; Side carries the direction. Value holds the net cost or net
// proceeds in the traded currency together with its recorded exchange rate.
//
// UnmatchedQty and UnmatchedValue track the portion not yet absorbed by a
// matching rule; they are mutated exclusively by the matcher during one
// calculation pass and rebuilt from scratch on every recalculation.
type Trade struct {
	Symbol   string
	Class    AssetType
	Date     time.Time
	Side     Side
	Quantity decimal.Decimal
	Value    money.DescribedMoney

	// Option trades only: the underlying symbol, and whether the contract
	// was exercised or assigned rather than traded out.
	Underlying string
	Exercised  bool

	UnmatchedQty   decimal.Decimal
	UnmatchedValue decimal.Decimal
	Matches        []Match

	// adjustment is the accumulated cost-basis delta from derivative
	// exercise/assignment. It survives Reset so the option stage can run
	// before the underlying is matched.
	adjustment decimal.Decimal
}

// NewTrade validates and builds a trade in its fully unmatched state.
func NewTrade(symbol string, class AssetType, date time.Time, side Side, qty decimal.Decimal, value money.DescribedMoney) (*Trade, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("trade %s on %s: quantity must be positive, got %s", symbol, date.Format("2006-01-02"), qty)
	}
	t := &Trade{
		Symbol:   symbol,
		Class:    class,
		Date:     date,
		Side:     side,
		Quantity: qty,
		Value:    value,
	}
	t.Reset()
	return t, nil
}

// EventSymbol implements Event.
func (t *Trade) EventSymbol() string { return t.Symbol }

// EventDate implements Event.
func (t *Trade) EventDate() time.Time { return t.Date }

// Reset restores the trade to its unmatched state. Recalculation is
// idempotent because every pass starts from here.
func (t *Trade) Reset() {
	t.UnmatchedQty = t.Quantity
	t.UnmatchedValue = t.Value.Base().Amount().Add(t.adjustment)
	t.Matches = nil
}

// ClearAdjustments drops accumulated cost-basis adjustments. Each full
// recalculation clears and re-derives them.
func (t *Trade) ClearAdjustments() {
	t.adjustment = decimal.Zero
}

// ProrateValue returns the share of the unmatched value carried by qty
// units. Prorating uses the unmatched remainder, so earlier matches and
// cost-basis adjustments flow through exactly. Consuming the full remainder
// returns it verbatim, keeping quantity/value conservation exact.
func (t *Trade) ProrateValue(qty decimal.Decimal) decimal.Decimal {
	if qty.Equal(t.UnmatchedQty) {
		return t.UnmatchedValue
	}
	return t.UnmatchedValue.Mul(qty).Div(t.UnmatchedQty)
}

// Consume absorbs qty units and value from the unmatched remainder and
// records the match that did it.
func (t *Trade) Consume(qty, value decimal.Decimal, m Match) error {
	if qty.GreaterThan(t.UnmatchedQty) {
		return fmt.Errorf("trade %s on %s: consuming %s exceeds unmatched %s",
			t.Symbol, t.Date.Format("2006-01-02"), qty, t.UnmatchedQty)
	}
	t.UnmatchedQty = t.UnmatchedQty.Sub(qty)
	t.UnmatchedValue = t.UnmatchedValue.Sub(value)
	t.Matches = append(t.Matches, m)
	return nil
}

// AdjustCost shifts the remaining cost basis by delta (base currency).
// Only the unmatched value moves; the base amount recorded on the event at
// creation stays untouched.
func (t *Trade) AdjustCost(delta decimal.Decimal) {
	t.adjustment = t.adjustment.Add(delta)
	t.UnmatchedValue = t.UnmatchedValue.Add(delta)
}
