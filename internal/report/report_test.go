package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/calculate"
	"github.com/taxtools/cgtcalc/internal/ledger"
	"github.com/taxtools/cgtcalc/internal/match"
	"github.com/taxtools/cgtcalc/internal/money"
	"github.com/taxtools/cgtcalc/internal/taxyear"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func gbp(amount string) money.Money { return money.New(dec(amount), "GBP") }

func TestRenderDisposalsAndDividends(t *testing.T) {
	res := &calculate.Result{
		Calculations: []calculate.TradeTaxCalculation{{
			Calculation: match.Calculation{
				Symbol:   "VOD",
				Date:     time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
				Quantity: dec("100"),
				Proceeds: gbp("1200"),
				Cost:     gbp("1000"),
				Gain:     gbp("200"),
			},
			Class: ledger.Equity,
			Year:  taxyear.Year(2023),
		}},
		Dividends: []calculate.DividendSummary{{
			Year:         taxyear.Year(2023),
			Jurisdiction: "US",
			Kind:         ledger.OrdinaryDividend,
			Gross:        gbp("120"),
			Withheld:     gbp("12"),
		}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, res); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Tax year 2023/24",
		"VOD",
		"Total gain/loss: GBP 200.00",
		"JURISDICTION",
		"GBP 120.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCurrencyAggregateFooter(t *testing.T) {
	value, err := money.NewDescribed(dec("1000"), "GBP", decimal.NewFromInt(1), "GBP", "")
	if err != nil {
		t.Fatalf("NewDescribed: %v", err)
	}
	disposal, err := ledger.NewTrade("USD", ledger.Currency, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), ledger.Disposal, dec("1000"), value)
	if err != nil {
		t.Fatalf("NewTrade: %v", err)
	}
	for i := 0; i < 3; i++ {
		disposal.Matches = append(disposal.Matches, ledger.Match{
			Quantity: dec("300"),
			Cost:     gbp("240"),
			Proceeds: gbp("300"),
			Rule:     ledger.Section104Holding,
		})
	}

	res := &calculate.Result{
		Calculations: []calculate.TradeTaxCalculation{{
			Calculation: match.Calculation{
				Symbol:   "USD",
				Date:     disposal.Date,
				Quantity: dec("900"),
				Proceeds: gbp("900"),
				Cost:     gbp("720"),
				Gain:     gbp("180"),
				Trades:   []*ledger.Trade{disposal},
			},
			Class: ledger.Currency,
			Year:  taxyear.Year(2023),
		}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, res); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "leg 3:") {
		t.Errorf("output missing per-leg detail:\n%s", out)
	}
	if !strings.Contains(out, "aggregate gain across 3 legs: GBP 180.00") {
		t.Errorf("output missing aggregate footer:\n%s", out)
	}
}
