package calculate

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/ledger"
	"github.com/taxtools/cgtcalc/internal/match"
	"github.com/taxtools/cgtcalc/internal/money"
	"github.com/taxtools/cgtcalc/internal/taxyear"
)

// FutureCalculator recognizes gain per contract close-out. Futures are
// excluded from Section 104 pooling: a buy closes open short positions and
// a sell closes open longs, first in first out, and any remainder opens a
// position on the trade's own side.
type FutureCalculator struct {
	base string
}

// NewFutureCalculator creates the futures stage.
func NewFutureCalculator(baseCurrency string) *FutureCalculator {
	return &FutureCalculator{base: baseCurrency}
}

func (c *FutureCalculator) Class() ledger.AssetType { return ledger.Future }

func (c *FutureCalculator) Calculate(l *ledger.Ledger) ([]TradeTaxCalculation, error) {
	bySymbol := l.TradesBySymbol(ledger.Future)
	symbols := lo.Keys(bySymbol)
	sort.Strings(symbols)

	var out []TradeTaxCalculation
	for _, symbol := range symbols {
		calcs, err := c.closeOut(symbol, bySymbol[symbol])
		if err != nil {
			return nil, err
		}
		out = append(out, calcs...)
	}
	return out, nil
}

// closeOut replays one contract's trades in date order against the open
// long and short queues.
func (c *FutureCalculator) closeOut(symbol string, trades []*ledger.Trade) ([]TradeTaxCalculation, error) {
	var longs, shorts []*ledger.Trade
	var out []TradeTaxCalculation

	for _, t := range trades {
		t.Reset()
	}

	for _, t := range trades {
		opposite := &longs
		if t.Side == ledger.Acquisition {
			opposite = &shorts
		}

		for t.UnmatchedQty.IsPositive() && len(*opposite) > 0 {
			open := (*opposite)[0]
			qty := decimal.Min(t.UnmatchedQty, open.UnmatchedQty)
			openValue := open.ProrateValue(qty)
			closeValue := t.ProrateValue(qty)

			// The long leg's value is the cost, the short leg's the proceeds,
			// whichever side closed the position.
			cost, proceeds := openValue, closeValue
			if open.Side == ledger.Disposal {
				cost, proceeds = closeValue, openValue
			}

			costM := money.New(cost, c.base)
			proceedsM := money.New(proceeds, c.base)
			gain, err := proceedsM.Sub(costM)
			if err != nil {
				return nil, err
			}

			m := ledger.Match{Quantity: qty, Cost: costM, Proceeds: proceedsM, Rule: ledger.CloseOut}
			m.Counterpart = t
			if err := open.Consume(qty, openValue, m); err != nil {
				return nil, err
			}
			m.Counterpart = open
			if err := t.Consume(qty, closeValue, m); err != nil {
				return nil, err
			}

			out = append(out, TradeTaxCalculation{
				Calculation: match.Calculation{
					Symbol:   symbol,
					Date:     calendarDay(t.Date),
					Quantity: qty,
					Proceeds: proceedsM,
					Cost:     costM,
					Gain:     gain,
					Trades:   []*ledger.Trade{open, t},
				},
				Class: ledger.Future,
				Year:  taxyear.FromDate(t.Date),
			})

			if open.UnmatchedQty.IsZero() {
				*opposite = (*opposite)[1:]
			}
		}

		if t.UnmatchedQty.IsPositive() {
			if t.Side == ledger.Acquisition {
				longs = append(longs, t)
			} else {
				shorts = append(shorts, t)
			}
		}
	}
	return out, nil
}
