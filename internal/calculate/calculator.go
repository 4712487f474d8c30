// Package calculate orchestrates the matching engine per instrument class
// and buckets every result by UK tax year.
package calculate

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"github.com/taxtools/cgtcalc/internal/ledger"
	"github.com/taxtools/cgtcalc/internal/match"
	"github.com/taxtools/cgtcalc/internal/taxyear"
)

// TradeCalculator computes disposal results for one instrument class.
type TradeCalculator interface {
	Class() ledger.AssetType
	Calculate(l *ledger.Ledger) ([]TradeTaxCalculation, error)
}

// Pipeline runs the per-class calculators in a fixed, explicit order. The
// option stage runs strictly before the equity stage: exercised contracts
// adjust the underlying's acquisition cost, and those adjustments must land
// before equity matching reads them.
type Pipeline struct {
	base      string
	stages    []TradeCalculator
	dividends *DividendCalculator
}

// NewPipeline builds the standard stage order for the given base currency.
func NewPipeline(baseCurrency string) *Pipeline {
	return &Pipeline{
		base: baseCurrency,
		stages: []TradeCalculator{
			NewOptionCalculator(baseCurrency),
			NewEquityCalculator(baseCurrency),
			NewFutureCalculator(baseCurrency),
			NewFXCalculator(baseCurrency),
		},
		dividends: NewDividendCalculator(baseCurrency),
	}
}

// Stages exposes the ordered calculator list, so the ordering contract is
// visible and testable.
func (p *Pipeline) Stages() []TradeCalculator { return p.stages }

// Run performs one full recalculation over the ledger. The engine is
// single-threaded and synchronous: per-asset matching and the
// options-before-equities dependency impose strict ordering. State is
// rebuilt from scratch, so running twice over an unchanged ledger yields an
// identical Result.
func (p *Pipeline) Run(l *ledger.Ledger, filter ledger.TypeFilter) (*Result, error) {
	filtered := l.Filtered(filter)

	for _, t := range filtered.Trades() {
		t.ClearAdjustments()
		t.Reset()
	}

	res := &Result{}
	for _, stage := range p.stages {
		if !filter.Includes(stage.Class()) {
			continue
		}
		calcs, err := stage.Calculate(filtered)
		if err != nil {
			return nil, fmt.Errorf("%s calculator: %w", stage.Class(), err)
		}
		res.Calculations = append(res.Calculations, calcs...)
	}

	divs, err := p.dividends.Calculate(filtered)
	if err != nil {
		return nil, fmt.Errorf("dividend calculator: %w", err)
	}
	res.Dividends = divs

	sortResult(res)
	slog.Info("recalculation complete",
		"events", l.Len(),
		"disposals", len(res.Calculations),
		"dividendSummaries", len(res.Dividends))
	return res, nil
}

// matchByGroup groups one class's trades by symbol and runs a fresh matcher
// per symbol, tagging each calculation with its tax year.
func matchByGroup(l *ledger.Ledger, class ledger.AssetType, base string) ([]TradeTaxCalculation, error) {
	return matchGroups(l.TradesBySymbol(class), l.ActionsBySymbol(), class, base)
}

func matchGroups(bySymbol map[string][]*ledger.Trade, actions map[string][]*ledger.CorporateAction, class ledger.AssetType, base string) ([]TradeTaxCalculation, error) {
	symbols := lo.Keys(bySymbol)
	sort.Strings(symbols)

	var out []TradeTaxCalculation
	for _, symbol := range symbols {
		m := match.NewMatcher(symbol, base)
		calcs, err := m.Match(bySymbol[symbol], actions[symbol])
		if err != nil {
			return nil, fmt.Errorf("matching %s: %w", symbol, err)
		}
		for _, c := range calcs {
			out = append(out, TradeTaxCalculation{
				Calculation: c,
				Class:       class,
				Year:        taxyear.FromDate(c.Date),
			})
		}
	}
	return out, nil
}
