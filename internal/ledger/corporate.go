package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/money"
)

// ActionKind is the closed set of supported corporate actions.
type ActionKind int

const (
	// StockSplit multiplies the holding quantity by Ratio; total cost is
	// unchanged. Reverse splits use a ratio below one.
	StockSplit ActionKind = iota
	// FundEqualisation returns part of the cost basis to the investor: the
	// pool's cost is reduced by Amount without changing quantity.
	FundEqualisation
)

func (k ActionKind) String() string {
	switch k {
	case StockSplit:
		return "split"
	case FundEqualisation:
		return "equalisation"
	default:
		return "unknown"
	}
}

// CorporateAction mutates holding state in place at its date. It never
// creates a disposal.
type CorporateAction struct {
	Symbol string
	Date   time.Time
	Kind   ActionKind

	// Ratio applies to StockSplit only.
	Ratio decimal.Decimal

	// Amount applies to FundEqualisation only.
	Amount money.DescribedMoney

	// RelatedEvent cross-references the originating event (typically an
	// equalisation dividend) for the audit trail.
	RelatedEvent string
}

// EventSymbol implements Event.
func (a *CorporateAction) EventSymbol() string { return a.Symbol }

// EventDate implements Event.
func (a *CorporateAction) EventDate() time.Time { return a.Date }
