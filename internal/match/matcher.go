// Package match implements the UK share-identification rules: same-day
// matching, the 30-day bed-and-breakfast rule, and Section 104 average-cost
// pooling.
package match

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/ledger"
	"github.com/taxtools/cgtcalc/internal/money"
)

// bedAndBreakfastDays is the statutory forward window: a reacquisition up
// to 30 calendar days after a disposal matches it.
const bedAndBreakfastDays = 30

// Calculation is the tax-relevant outcome of one disposal, or of all
// disposals sharing a date, which merge for matching purposes.
type Calculation struct {
	Symbol   string
	Date     time.Time
	Quantity decimal.Decimal
	Proceeds money.Money
	Cost     money.Money
	Gain     money.Money
	Trades   []*ledger.Trade
}

// Matcher applies the statutory matching rules to one symbol's trades. It
// owns a fresh Section 104 pool for the duration of one calculation pass.
type Matcher struct {
	symbol string
	base   string
	pool   *Pool
}

// NewMatcher creates a matcher with an empty pool for symbol.
func NewMatcher(symbol, baseCurrency string) *Matcher {
	return &Matcher{
		symbol: symbol,
		base:   baseCurrency,
		pool:   NewPool(symbol, baseCurrency),
	}
}

// Pool exposes the Section 104 holding, e.g. for end-of-year reporting.
func (m *Matcher) Pool() *Pool { return m.pool }

// Match runs the full identification sequence over one symbol's trades and
// corporate actions, chronologically ordered. For each disposal the rules
// apply in mandatory priority, each step consuming only the quantity left
// unmatched by the previous one:
//
//  1. same-day: acquisitions on the identical date, in
//     chronological-then-insertion order, cost prorated exactly;
//  2. bed-and-breakfast: acquisitions strictly after the disposal within 30
//     calendar days, earliest first, never reusing consumed quantity;
//  3. Section 104: whatever remains comes out of the pool at average cost.
//
// Corporate actions mutate the pool at their own date, so a split between
// two acquisitions only scales the quantity pooled before it. Match histories
// and the pool are rebuilt from scratch, making repeated runs idempotent.
func (m *Matcher) Match(trades []*ledger.Trade, actions []*ledger.CorporateAction) ([]Calculation, error) {
	for _, t := range trades {
		if got := t.Value.Base().Currency(); got != m.base {
			return nil, fmt.Errorf("trade %s on %s: base currency %s, matcher expects %s: %w",
				t.Symbol, t.Date.Format("2006-01-02"), got, m.base, money.ErrCurrencyMismatch)
		}
		t.Reset()
	}

	sorted := make([]*ledger.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return day(sorted[i].Date).Before(day(sorted[j].Date))
	})

	var acquisitions, disposals []*ledger.Trade
	for _, t := range sorted {
		if t.Side == ledger.Acquisition {
			acquisitions = append(acquisitions, t)
		} else {
			disposals = append(disposals, t)
		}
	}

	// Rules 1 and 2 look at identical and future dates, so they run over
	// the whole stream before any quantity reaches the pool. Same-day
	// matching completes for every disposal before any bed-and-breakfast
	// match: an earlier disposal's 30-day window must not take quantity a
	// later same-day disposal has first claim on.
	for _, d := range disposals {
		m.matchSameDay(d, acquisitions)
	}
	for _, d := range disposals {
		m.matchBedAndBreakfast(d, acquisitions)
	}

	// Rule 3: walk the event timeline in date order. Acquisition remainders
	// enter the pool at their own date, corporate actions mutate it at
	// theirs, and disposal remainders come out at average cost.
	if err := m.runTimeline(sorted, actions); err != nil {
		return nil, err
	}

	return m.calculations(disposals)
}

// matchSameDay applies rule 1 to one disposal.
func (m *Matcher) matchSameDay(d *ledger.Trade, acquisitions []*ledger.Trade) {
	for _, a := range acquisitions {
		if d.UnmatchedQty.IsZero() {
			return
		}
		if a.UnmatchedQty.IsZero() || !day(a.Date).Equal(day(d.Date)) {
			continue
		}
		m.pair(d, a, ledger.SameDay)
	}
}

// matchBedAndBreakfast applies rule 2 to one disposal: acquisitions
// strictly after the disposal date, within the 30-day window, earliest
// first.
func (m *Matcher) matchBedAndBreakfast(d *ledger.Trade, acquisitions []*ledger.Trade) {
	disposalDay := day(d.Date)
	windowEnd := disposalDay.AddDate(0, 0, bedAndBreakfastDays)
	for _, a := range acquisitions {
		if d.UnmatchedQty.IsZero() {
			return
		}
		acquisitionDay := day(a.Date)
		if !acquisitionDay.After(disposalDay) || a.UnmatchedQty.IsZero() {
			continue
		}
		if acquisitionDay.After(windowEnd) {
			// Acquisitions are date-ordered; nothing further qualifies.
			return
		}
		m.pair(d, a, ledger.BedAndBreakfast)
	}
}

// pair consumes the overlapping unmatched quantity of a disposal and an
// acquisition and records the mirror Match on both sides.
func (m *Matcher) pair(d, a *ledger.Trade, rule ledger.MatchRule) {
	qty := decimal.Min(d.UnmatchedQty, a.UnmatchedQty)
	cost := a.ProrateValue(qty)
	proceeds := d.ProrateValue(qty)

	costM := money.New(cost, m.base)
	proceedsM := money.New(proceeds, m.base)

	// Consume cannot fail here: qty is capped by both unmatched quantities.
	_ = a.Consume(qty, cost, ledger.Match{
		Quantity: qty, Cost: costM, Proceeds: proceedsM, Rule: rule, Counterpart: d,
	})
	_ = d.Consume(qty, proceeds, ledger.Match{
		Quantity: qty, Cost: costM, Proceeds: proceedsM, Rule: rule, Counterpart: a,
	})

	slog.Debug("matched trades",
		"symbol", m.symbol,
		"rule", rule.String(),
		"quantity", qty.String(),
		"disposal", d.Date.Format("2006-01-02"),
		"acquisition", a.Date.Format("2006-01-02"))
}

// runTimeline replays trades and corporate actions in stable date order
// against the Section 104 pool.
func (m *Matcher) runTimeline(trades []*ledger.Trade, actions []*ledger.CorporateAction) error {
	events := make([]ledger.Event, 0, len(trades)+len(actions))
	for _, t := range trades {
		events = append(events, t)
	}
	for _, a := range actions {
		events = append(events, a)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return day(events[i].EventDate()).Before(day(events[j].EventDate()))
	})

	for _, ev := range events {
		switch e := ev.(type) {
		case *ledger.Trade:
			if err := m.poolTrade(e); err != nil {
				return err
			}
		case *ledger.CorporateAction:
			if err := m.applyAction(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// poolTrade absorbs an acquisition remainder into the pool, or satisfies a
// disposal remainder from it.
func (m *Matcher) poolTrade(t *ledger.Trade) error {
	if t.UnmatchedQty.IsZero() {
		return nil
	}
	qty := t.UnmatchedQty

	if t.Side == ledger.Acquisition {
		cost := t.UnmatchedValue
		if err := m.pool.Add(qty, money.New(cost, m.base)); err != nil {
			return err
		}
		return t.Consume(qty, cost, ledger.Match{
			Quantity: qty,
			Cost:     money.New(cost, m.base),
			Rule:     ledger.Section104Holding,
		})
	}

	proceeds := t.UnmatchedValue
	cost, err := m.pool.Remove(t.Date, qty)
	if err != nil {
		return err
	}
	return t.Consume(qty, proceeds, ledger.Match{
		Quantity: qty,
		Cost:     cost,
		Proceeds: money.New(proceeds, m.base),
		Rule:     ledger.Section104Holding,
	})
}

func (m *Matcher) applyAction(a *ledger.CorporateAction) error {
	switch a.Kind {
	case ledger.StockSplit:
		return m.pool.ApplySplit(a.Date, a.Ratio)
	case ledger.FundEqualisation:
		return m.pool.ApplyEqualisation(a.Date, a.Amount.Base(), a.RelatedEvent)
	default:
		return fmt.Errorf("pool %s: unknown corporate action kind %d", m.symbol, a.Kind)
	}
}

// calculations merges fully matched disposals into per-date results.
func (m *Matcher) calculations(disposals []*ledger.Trade) ([]Calculation, error) {
	var out []Calculation
	var current *Calculation

	for _, d := range disposals {
		if current == nil || !day(current.Date).Equal(day(d.Date)) {
			out = append(out, Calculation{
				Symbol:   m.symbol,
				Date:     day(d.Date),
				Quantity: decimal.Zero,
				Proceeds: money.Zero(m.base),
				Cost:     money.Zero(m.base),
			})
			current = &out[len(out)-1]
		}

		current.Quantity = current.Quantity.Add(d.Quantity)
		current.Trades = append(current.Trades, d)

		proceeds, err := current.Proceeds.Add(d.Value.Base())
		if err != nil {
			return nil, err
		}
		current.Proceeds = proceeds

		for _, match := range d.Matches {
			cost, err := current.Cost.Add(match.Cost)
			if err != nil {
				return nil, err
			}
			current.Cost = cost
		}
	}

	for i := range out {
		gain, err := out[i].Proceeds.Sub(out[i].Cost)
		if err != nil {
			return nil, err
		}
		out[i].Gain = gain
	}
	return out, nil
}

// day truncates a timestamp to its calendar date, the granularity every
// matching rule works at.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
