// Package report renders calculation results as plain text, one section per
// UK tax year. Heavier formats (PDF, spreadsheets) belong to external
// consumers of calculate.Result.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/taxtools/cgtcalc/internal/calculate"
	"github.com/taxtools/cgtcalc/internal/ledger"
)

// Render writes the full per-tax-year report.
func Render(w io.Writer, res *calculate.Result) error {
	for _, year := range res.Years() {
		calcs, divs := res.ForYear(year)

		header := fmt.Sprintf("Tax year %s", year)
		fmt.Fprintf(w, "%s\n%s\n", header, strings.Repeat("=", len(header)))

		if len(calcs) > 0 {
			if err := renderDisposals(w, calcs); err != nil {
				return err
			}
			total, err := res.TotalGain(year)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Total gain/loss: %s\n", total.Round())

			renderCurrencyDetail(w, calcs)
		}

		if len(divs) > 0 {
			renderDividends(w, divs)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func renderDisposals(w io.Writer, calcs []calculate.TradeTaxCalculation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSYMBOL\tCLASS\tQTY\tPROCEEDS\tCOST\tGAIN\tRULES")
	for _, c := range calcs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Date.Format("2006-01-02"),
			c.Symbol,
			c.Class,
			c.Quantity,
			c.Proceeds.Round(),
			c.Cost.Round(),
			c.Gain.Round(),
			rulesLabel(c))
	}
	return tw.Flush()
}

// rulesLabel lists the distinct matching rules behind one calculation, in
// the order they were applied.
func rulesLabel(c calculate.TradeTaxCalculation) string {
	var rules []string
	for _, t := range c.Trades {
		for _, m := range t.Matches {
			rules = append(rules, m.Rule.String())
		}
	}
	return strings.Join(lo.Uniq(rules), ",")
}

// renderCurrencyDetail prints per-leg match detail for currency disposals.
// When more than two matches contributed to one disposal, an aggregate gain
// footer follows the legs.
func renderCurrencyDetail(w io.Writer, calcs []calculate.TradeTaxCalculation) {
	for _, c := range calcs {
		if c.Class != ledger.Currency {
			continue
		}
		fmt.Fprintf(w, "\nCurrency disposal %s on %s:\n", c.Symbol, c.Date.Format("2006-01-02"))
		legs := 0
		for _, t := range c.Trades {
			for _, m := range t.Matches {
				legs++
				counterpart := "section-104 holding"
				if m.Counterpart != nil {
					counterpart = m.Counterpart.Date.Format("2006-01-02")
				}
				fmt.Fprintf(w, "  leg %d: %s %s, cost %s, proceeds %s (vs %s)\n",
					legs, m.Rule, m.Quantity, m.Cost.Round(), m.Proceeds.Round(), counterpart)
			}
		}
		if legs > 2 {
			fmt.Fprintf(w, "  aggregate gain across %d legs: %s\n", legs, c.Gain.Round())
		}
	}
}

func renderDividends(w io.Writer, divs []calculate.DividendSummary) {
	fmt.Fprintln(w, "\nDividends:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JURISDICTION\tKIND\tGROSS\tWITHHELD")
	for _, d := range divs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			d.Jurisdiction, d.Kind, d.Gross.Round(), d.Withheld.Round())
	}
	tw.Flush()
}
