// Package ledger holds the typed, append-only event stream the engine
// consumes: trades, corporate actions and dividends, already currency-tagged
// and exchange-rated by the ingestion layer.
package ledger

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Event is implemented by every ledger entry.
type Event interface {
	EventSymbol() string
	EventDate() time.Time
}

// Ledger is an append-only collection of tax events. Accessors return
// events in stable date order: ties keep insertion order, which makes every
// downstream tie-break deterministic.
type Ledger struct {
	events []Event
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds events to the ledger. Events are never removed or reordered
// in place.
func (l *Ledger) Append(events ...Event) {
	l.events = append(l.events, events...)
}

// Len returns the number of events recorded.
func (l *Ledger) Len() int { return len(l.events) }

// Events returns all events in stable date order.
func (l *Ledger) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventDate().Before(out[j].EventDate())
	})
	return out
}

// Trades returns all trades in stable date order.
func (l *Ledger) Trades() []*Trade {
	var out []*Trade
	for _, ev := range l.Events() {
		if t, ok := ev.(*Trade); ok {
			out = append(out, t)
		}
	}
	return out
}

// Actions returns all corporate actions in stable date order.
func (l *Ledger) Actions() []*CorporateAction {
	var out []*CorporateAction
	for _, ev := range l.Events() {
		if a, ok := ev.(*CorporateAction); ok {
			out = append(out, a)
		}
	}
	return out
}

// Dividends returns all dividends in stable date order.
func (l *Ledger) Dividends() []*Dividend {
	var out []*Dividend
	for _, ev := range l.Events() {
		if d, ok := ev.(*Dividend); ok {
			out = append(out, d)
		}
	}
	return out
}

// TradesBySymbol groups the trades of one instrument class by symbol,
// preserving stable date order within each group.
func (l *Ledger) TradesBySymbol(class AssetType) map[string][]*Trade {
	trades := lo.Filter(l.Trades(), func(t *Trade, _ int) bool {
		return t.Class == class
	})
	return lo.GroupBy(trades, func(t *Trade) string { return t.Symbol })
}

// ActionsBySymbol groups corporate actions by symbol in stable date order.
func (l *Ledger) ActionsBySymbol() map[string][]*CorporateAction {
	return lo.GroupBy(l.Actions(), func(a *CorporateAction) string { return a.Symbol })
}

// Filtered returns a ledger without the trades of excluded instrument
// classes. Corporate actions and dividends are kept: they only take effect
// through symbols that still have trades.
func (l *Ledger) Filtered(f TypeFilter) *Ledger {
	out := New()
	for _, ev := range l.events {
		if t, ok := ev.(*Trade); ok && !f.Includes(t.Class) {
			continue
		}
		out.events = append(out.events, ev)
	}
	return out
}
