package calculate

import (
	"sort"

	"github.com/samber/lo"

	"github.com/taxtools/cgtcalc/internal/ledger"
	"github.com/taxtools/cgtcalc/internal/match"
	"github.com/taxtools/cgtcalc/internal/money"
	"github.com/taxtools/cgtcalc/internal/taxyear"
)

// TradeTaxCalculation tags one disposal calculation with its instrument
// class and UK tax year for downstream reporting.
type TradeTaxCalculation struct {
	match.Calculation
	Class ledger.AssetType
	Year  taxyear.Year
}

// DividendSummary is the per-tax-year, per-jurisdiction dividend total used
// for withholding-tax reporting.
type DividendSummary struct {
	Year         taxyear.Year
	Jurisdiction string
	Kind         ledger.DividendKind
	Gross        money.Money
	Withheld     money.Money
}

// Result is the full outcome of one recalculation pass.
type Result struct {
	Calculations []TradeTaxCalculation
	Dividends    []DividendSummary
}

// Years lists every tax year present in the result, ascending.
func (r *Result) Years() []taxyear.Year {
	years := lo.Uniq(append(
		lo.Map(r.Calculations, func(c TradeTaxCalculation, _ int) taxyear.Year { return c.Year }),
		lo.Map(r.Dividends, func(d DividendSummary, _ int) taxyear.Year { return d.Year })...,
	))
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years
}

// ForYear returns the calculations and dividend summaries of one tax year.
func (r *Result) ForYear(y taxyear.Year) ([]TradeTaxCalculation, []DividendSummary) {
	calcs := lo.Filter(r.Calculations, func(c TradeTaxCalculation, _ int) bool { return c.Year == y })
	divs := lo.Filter(r.Dividends, func(d DividendSummary, _ int) bool { return d.Year == y })
	return calcs, divs
}

// TotalGain sums the gains of one tax year.
func (r *Result) TotalGain(y taxyear.Year) (money.Money, error) {
	total := money.Money{}
	calcs, _ := r.ForYear(y)
	for _, c := range calcs {
		sum, err := total.Add(c.Gain)
		if err != nil {
			return money.Money{}, err
		}
		total = sum
	}
	return total, nil
}

// sortResult orders everything deterministically: identical ledgers always
// produce identical results.
func sortResult(r *Result) {
	sort.SliceStable(r.Calculations, func(i, j int) bool {
		a, b := r.Calculations[i], r.Calculations[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Class < b.Class
	})
	sort.SliceStable(r.Dividends, func(i, j int) bool {
		a, b := r.Dividends[i], r.Dividends[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Jurisdiction != b.Jurisdiction {
			return a.Jurisdiction < b.Jurisdiction
		}
		return a.Kind < b.Kind
	})
}
