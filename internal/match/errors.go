package match

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InsufficientHoldingError signals a disposal (or pool removal) that
// demands more quantity than recorded holdings provide. It indicates an
// inconsistent or incomplete ledger, e.g. missing acquisition history, and
// aborts that asset's calculation.
type InsufficientHoldingError struct {
	Symbol    string
	Date      time.Time
	Requested decimal.Decimal
	Held      decimal.Decimal
}

func (e *InsufficientHoldingError) Error() string {
	return fmt.Sprintf("insufficient holding in %s on %s: disposing %s with only %s held",
		e.Symbol, e.Date.Format("2006-01-02"), e.Requested, e.Held)
}
