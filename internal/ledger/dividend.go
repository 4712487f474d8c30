package ledger

import (
	"fmt"
	"time"

	"github.com/taxtools/cgtcalc/internal/money"
)

// DividendKind classifies a dividend for withholding and reporting.
type DividendKind int

const (
	OrdinaryDividend DividendKind = iota
	EqualisationDividend
	PaymentInLieu
	SpecialDividend
)

func (k DividendKind) String() string {
	switch k {
	case OrdinaryDividend:
		return "ordinary"
	case EqualisationDividend:
		return "equalisation"
	case PaymentInLieu:
		return "payment-in-lieu"
	case SpecialDividend:
		return "special"
	default:
		return "unknown"
	}
}

// ParseDividendKind parses the wire name of a dividend kind.
func ParseDividendKind(s string) (DividendKind, error) {
	switch s {
	case "ordinary", "":
		return OrdinaryDividend, nil
	case "equalisation":
		return EqualisationDividend, nil
	case "payment-in-lieu", "pil":
		return PaymentInLieu, nil
	case "special":
		return SpecialDividend, nil
	default:
		return 0, fmt.Errorf("unknown dividend kind: %q", s)
	}
}

// Dividend is a cash distribution. Jurisdiction is the paying company's
// ISO country code, used for withholding-tax classification. Proceeds carry
// the exchange rate recorded at the event; the aggregator never re-derives
// it.
type Dividend struct {
	Symbol       string
	Date         time.Time
	Kind         DividendKind
	Jurisdiction string
	Proceeds     money.DescribedMoney

	// Withheld is the tax withheld at source, when any.
	Withheld *money.DescribedMoney
}

// EventSymbol implements Event.
func (d *Dividend) EventSymbol() string { return d.Symbol }

// EventDate implements Event.
func (d *Dividend) EventDate() time.Time { return d.Date }
