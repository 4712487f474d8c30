package match

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/money"
)

var poolDate = time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func poolWith(t *testing.T, entries ...[2]string) *Pool {
	t.Helper()
	p := NewPool("VOD", "GBP")
	for _, e := range entries {
		if err := p.Add(dec(e[0]), money.New(dec(e[1]), "GBP")); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return p
}

func TestRemoveAtAverageCost(t *testing.T) {
	// Buy 100 @ £10, buy 100 @ £20: pool (200, £3000).
	p := poolWith(t, [2]string{"100", "1000"}, [2]string{"100", "2000"})

	if !p.Quantity().Equal(dec("200")) || !p.Cost().Amount().Equal(dec("3000")) {
		t.Fatalf("pool = (%s, %s), want (200, 3000)", p.Quantity(), p.Cost().Amount())
	}

	matched, err := p.Remove(poolDate, dec("50"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !matched.Amount().Equal(dec("750")) {
		t.Errorf("matched cost = %s, want 750", matched.Amount())
	}
	if !p.Quantity().Equal(dec("150")) || !p.Cost().Amount().Equal(dec("2250")) {
		t.Errorf("pool = (%s, %s), want (150, 2250)", p.Quantity(), p.Cost().Amount())
	}
}

func TestRemoveFullPoolIsExact(t *testing.T) {
	// 3 units at £100: the average has a repeating decimal, but emptying the
	// pool must return the exact total cost.
	p := poolWith(t, [2]string{"3", "100"})

	matched, err := p.Remove(poolDate, dec("3"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !matched.Amount().Equal(dec("100")) {
		t.Errorf("matched cost = %s, want exactly 100", matched.Amount())
	}
	if !p.Cost().IsZero() || !p.Quantity().IsZero() {
		t.Errorf("pool not empty: (%s, %s)", p.Quantity(), p.Cost().Amount())
	}
}

func TestRemoveInsufficientHolding(t *testing.T) {
	p := poolWith(t, [2]string{"10", "100"})

	_, err := p.Remove(poolDate, dec("11"))
	var insufficient *InsufficientHoldingError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want InsufficientHoldingError", err)
	}
	if insufficient.Symbol != "VOD" || !insufficient.Requested.Equal(dec("11")) || !insufficient.Held.Equal(dec("10")) {
		t.Errorf("unexpected error fields: %+v", insufficient)
	}
}

func TestApplySplit(t *testing.T) {
	// Pool (100, £1500); a 2-for-1 split doubles quantity, cost unchanged.
	p := poolWith(t, [2]string{"100", "1500"})
	if err := p.ApplySplit(poolDate, dec("2")); err != nil {
		t.Fatalf("ApplySplit: %v", err)
	}
	if !p.Quantity().Equal(dec("200")) || !p.Cost().Amount().Equal(dec("1500")) {
		t.Fatalf("pool = (%s, %s), want (200, 1500)", p.Quantity(), p.Cost().Amount())
	}

	// Disposing 100 of the post-split holding costs £750.
	matched, err := p.Remove(poolDate, dec("100"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !matched.Amount().Equal(dec("750")) {
		t.Errorf("matched cost = %s, want 750", matched.Amount())
	}
}

func TestApplyReverseSplit(t *testing.T) {
	p := poolWith(t, [2]string{"100", "1000"})
	if err := p.ApplySplit(poolDate, dec("0.5")); err != nil {
		t.Fatalf("ApplySplit: %v", err)
	}
	if !p.Quantity().Equal(dec("50")) || !p.Cost().Amount().Equal(dec("1000")) {
		t.Errorf("pool = (%s, %s), want (50, 1000)", p.Quantity(), p.Cost().Amount())
	}
}

func TestApplyEqualisation(t *testing.T) {
	p := poolWith(t, [2]string{"100", "1000"})
	if err := p.ApplyEqualisation(poolDate, money.New(dec("200"), "GBP"), "equalisation dividend"); err != nil {
		t.Fatalf("ApplyEqualisation: %v", err)
	}
	if !p.Quantity().Equal(dec("100")) || !p.Cost().Amount().Equal(dec("800")) {
		t.Errorf("pool = (%s, %s), want (100, 800)", p.Quantity(), p.Cost().Amount())
	}
	if len(p.Notes()) != 1 {
		t.Errorf("notes = %d, want 1 audit entry", len(p.Notes()))
	}

	if err := p.ApplyEqualisation(poolDate, money.New(dec("900"), "GBP"), "x"); err == nil {
		t.Error("expected error when equalisation exceeds pooled cost")
	}
}

func TestAddCurrencyMismatch(t *testing.T) {
	p := NewPool("VOD", "GBP")
	err := p.Add(dec("10"), money.New(dec("100"), "USD"))
	if !errors.Is(err, money.ErrCurrencyMismatch) {
		t.Errorf("error = %v, want ErrCurrencyMismatch", err)
	}
}
