package calculate

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/taxtools/cgtcalc/internal/ledger"
)

// OptionCalculator handles option contracts. Contracts traded out are
// matched like any other security. An exercised or assigned contract never
// becomes a disposal of its own: its premium moves into the cost basis of
// the underlying acquisition instead, which is why this stage must run
// before the equity stage.
type OptionCalculator struct {
	base string
}

// NewOptionCalculator creates the option stage.
func NewOptionCalculator(baseCurrency string) *OptionCalculator {
	return &OptionCalculator{base: baseCurrency}
}

func (c *OptionCalculator) Class() ledger.AssetType { return ledger.Option }

func (c *OptionCalculator) Calculate(l *ledger.Ledger) ([]TradeTaxCalculation, error) {
	bySymbol := l.TradesBySymbol(ledger.Option)
	equities := l.TradesBySymbol(ledger.Equity)

	symbols := lo.Keys(bySymbol)
	sort.Strings(symbols)

	tradeable := make(map[string][]*ledger.Trade, len(bySymbol))
	for _, symbol := range symbols {
		for _, t := range bySymbol[symbol] {
			if !t.Exercised {
				tradeable[symbol] = append(tradeable[symbol], t)
				continue
			}
			if err := applyExercise(t, equities); err != nil {
				return nil, err
			}
		}
	}

	return matchGroups(tradeable, l.ActionsBySymbol(), ledger.Option, c.base)
}

// applyExercise converts an exercised option trade into a cost-basis
// adjustment of the underlying: a premium paid (bought contract) raises the
// acquisition cost, a premium received (written contract assigned) lowers
// it. The adjustment lands on the earliest underlying acquisition on or
// after the exercise. A missing underlying acquisition is a data-integrity
// error, not something to paper over.
func applyExercise(opt *ledger.Trade, equities map[string][]*ledger.Trade) error {
	when := opt.Date.Format("2006-01-02")
	if opt.Underlying == "" {
		return fmt.Errorf("option %s on %s: exercised contract has no underlying symbol", opt.Symbol, when)
	}

	for _, u := range equities[opt.Underlying] {
		if u.Side != ledger.Acquisition || calendarDay(u.Date).Before(calendarDay(opt.Date)) {
			continue
		}
		delta := opt.Value.Base().Amount()
		if opt.Side == ledger.Disposal {
			delta = delta.Neg()
		}
		u.AdjustCost(delta)
		slog.Debug("exercised option adjusted underlying cost basis",
			"option", opt.Symbol,
			"underlying", opt.Underlying,
			"date", when,
			"delta", delta.String())
		return nil
	}
	return fmt.Errorf("option %s exercised on %s: no %s acquisition on or after that date",
		opt.Symbol, when, opt.Underlying)
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
