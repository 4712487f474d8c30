package calculate

import (
	"fmt"

	"github.com/taxtools/cgtcalc/internal/ledger"
	"github.com/taxtools/cgtcalc/internal/money"
	"github.com/taxtools/cgtcalc/internal/taxyear"
)

// DividendCalculator converts each dividend to base currency using the
// exchange rate recorded on the event, never a re-derived one, and sums
// gross and withheld amounts per tax year, jurisdiction and kind.
type DividendCalculator struct {
	base string
}

// NewDividendCalculator creates the dividend aggregator.
func NewDividendCalculator(baseCurrency string) *DividendCalculator {
	return &DividendCalculator{base: baseCurrency}
}

func (c *DividendCalculator) Calculate(l *ledger.Ledger) ([]DividendSummary, error) {
	type key struct {
		year         taxyear.Year
		jurisdiction string
		kind         ledger.DividendKind
	}
	acc := make(map[key]*DividendSummary)

	for _, d := range l.Dividends() {
		gross := d.Proceeds.Base()
		if gross.Currency() != c.base {
			return nil, fmt.Errorf("dividend %s on %s: base currency %s, expected %s: %w",
				d.Symbol, d.Date.Format("2006-01-02"), gross.Currency(), c.base, money.ErrCurrencyMismatch)
		}

		k := key{year: taxyear.FromDate(d.Date), jurisdiction: d.Jurisdiction, kind: d.Kind}
		s, ok := acc[k]
		if !ok {
			s = &DividendSummary{
				Year:         k.year,
				Jurisdiction: k.jurisdiction,
				Kind:         k.kind,
				Gross:        money.Zero(c.base),
				Withheld:     money.Zero(c.base),
			}
			acc[k] = s
		}

		sum, err := s.Gross.Add(gross)
		if err != nil {
			return nil, fmt.Errorf("dividend %s: %w", d.Symbol, err)
		}
		s.Gross = sum

		if d.Withheld != nil {
			withheld, err := s.Withheld.Add(d.Withheld.Base())
			if err != nil {
				return nil, fmt.Errorf("dividend %s withholding: %w", d.Symbol, err)
			}
			s.Withheld = withheld
		}
	}

	out := make([]DividendSummary, 0, len(acc))
	for _, s := range acc {
		out = append(out, *s)
	}
	return out, nil
}
