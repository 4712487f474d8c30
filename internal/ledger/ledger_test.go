package ledger

import (
	"testing"
)

func TestEventsStableDateOrder(t *testing.T) {
	l := New()
	jan2 := day1.AddDate(0, 0, 1)

	first := mustTrade(t, "VOD", jan2, Acquisition, "10", "100")
	second := mustTrade(t, "VOD", day1, Disposal, "5", "60")
	third := mustTrade(t, "VOD", jan2, Disposal, "10", "120")
	l.Append(first, second, third)

	events := l.Events()
	if events[0] != Event(second) {
		t.Error("earliest event should sort first")
	}
	// Same-date events keep insertion order.
	if events[1] != Event(first) || events[2] != Event(third) {
		t.Error("same-date events should keep insertion order")
	}
}

func TestTradesBySymbol(t *testing.T) {
	l := New()
	l.Append(
		mustTrade(t, "VOD", day1, Acquisition, "10", "100"),
		mustTrade(t, "BP", day1, Acquisition, "10", "100"),
		mustTrade(t, "VOD", day1, Disposal, "5", "60"),
	)

	groups := l.TradesBySymbol(Equity)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if len(groups["VOD"]) != 2 || len(groups["BP"]) != 1 {
		t.Errorf("VOD = %d, BP = %d", len(groups["VOD"]), len(groups["BP"]))
	}
}

func TestFilteredDropsExcludedClasses(t *testing.T) {
	l := New()
	equity := mustTrade(t, "VOD", day1, Acquisition, "10", "100")
	future, err := NewTrade("FTSE-H24", Future, day1, Acquisition, equity.Quantity, gbp("100"))
	if err != nil {
		t.Fatal(err)
	}
	l.Append(equity, future, &Dividend{Symbol: "VOD", Date: day1, Jurisdiction: "GB", Proceeds: gbp("10")})

	filtered := l.Filtered(TypeFilter{Equity: true})
	if len(filtered.Trades()) != 1 {
		t.Errorf("trades = %d, want 1", len(filtered.Trades()))
	}
	if len(filtered.Dividends()) != 1 {
		t.Errorf("dividends should be kept, got %d", len(filtered.Dividends()))
	}

	// A nil filter includes everything.
	if got := l.Filtered(nil); len(got.Trades()) != 2 {
		t.Errorf("nil filter trades = %d, want 2", len(got.Trades()))
	}
}

func TestTypeFilter(t *testing.T) {
	f := TypeFilter{Equity: true}
	if !f.Includes(Equity) {
		t.Error("equity should be included")
	}
	if f.Includes(Future) {
		t.Error("future should be excluded")
	}
	if !AllTypes().Includes(Currency) {
		t.Error("AllTypes should include currency")
	}
}
