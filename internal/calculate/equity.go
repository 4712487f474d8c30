package calculate

import (
	"github.com/taxtools/cgtcalc/internal/ledger"
)

// EquityCalculator matches share trades under the full statutory sequence:
// same-day, bed-and-breakfast, then the Section 104 holding.
type EquityCalculator struct {
	base string
}

// NewEquityCalculator creates the equity stage.
func NewEquityCalculator(baseCurrency string) *EquityCalculator {
	return &EquityCalculator{base: baseCurrency}
}

func (c *EquityCalculator) Class() ledger.AssetType { return ledger.Equity }

func (c *EquityCalculator) Calculate(l *ledger.Ledger) ([]TradeTaxCalculation, error) {
	return matchByGroup(l, ledger.Equity, c.base)
}
