package calculate

import (
	"github.com/taxtools/cgtcalc/internal/ledger"
)

// FXCalculator treats a foreign currency holding like a share position:
// the same statutory matching sequence applies. The report layer adds
// per-leg detail for currency disposals; the arithmetic is identical.
type FXCalculator struct {
	base string
}

// NewFXCalculator creates the currency stage.
func NewFXCalculator(baseCurrency string) *FXCalculator {
	return &FXCalculator{base: baseCurrency}
}

func (c *FXCalculator) Class() ledger.AssetType { return ledger.Currency }

func (c *FXCalculator) Calculate(l *ledger.Ledger) ([]TradeTaxCalculation, error) {
	return matchByGroup(l, ledger.Currency, c.base)
}
