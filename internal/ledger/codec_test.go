package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const sampleLedger = `{
  "baseCurrency": "GBP",
  "events": [
    {"kind": "trade", "symbol": "VOD", "date": "2023-01-01", "class": "equity", "side": "buy",
     "quantity": "100", "amount": "1000", "currency": "GBP", "fxRate": "1", "description": "order 42"},
    {"kind": "split", "symbol": "VOD", "date": "2023-02-01", "ratio": "2"},
    {"kind": "equalisation", "symbol": "FUND", "date": "2023-03-01", "amount": "12.50",
     "currency": "GBP", "fxRate": "1", "related": "equalisation dividend 2023-03-01"},
    {"kind": "dividend", "symbol": "AAPL", "date": "2023-06-01", "type": "ordinary",
     "jurisdiction": "US", "amount": "100", "currency": "USD", "fxRate": "0.80", "withheld": "15"}
  ]
}`

func TestDecodeLedger(t *testing.T) {
	l, base, err := DecodeLedger(strings.NewReader(sampleLedger), "")
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if base != "GBP" {
		t.Errorf("base = %q, want GBP", base)
	}
	if l.Len() != 4 {
		t.Fatalf("events = %d, want 4", l.Len())
	}

	trades := l.Trades()
	if len(trades) != 1 || trades[0].Symbol != "VOD" || trades[0].Side != Acquisition {
		t.Errorf("unexpected trade decode: %+v", trades[0])
	}
	if !trades[0].Quantity.Equal(decimal.NewFromInt(100)) {
		t.Errorf("quantity = %s, want 100", trades[0].Quantity)
	}
	if trades[0].Value.Description() != "order 42" {
		t.Errorf("description = %q", trades[0].Value.Description())
	}

	actions := l.Actions()
	if len(actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(actions))
	}
	if actions[0].Kind != StockSplit || !actions[0].Ratio.Equal(decimal.NewFromInt(2)) {
		t.Errorf("unexpected split decode: %+v", actions[0])
	}
	if actions[1].Kind != FundEqualisation || actions[1].RelatedEvent == "" {
		t.Errorf("unexpected equalisation decode: %+v", actions[1])
	}

	divs := l.Dividends()
	if len(divs) != 1 {
		t.Fatalf("dividends = %d, want 1", len(divs))
	}
	d := divs[0]
	if d.Jurisdiction != "US" || d.Kind != OrdinaryDividend {
		t.Errorf("unexpected dividend decode: %+v", d)
	}
	if !d.Proceeds.Base().Amount().Equal(decimal.NewFromInt(80)) {
		t.Errorf("dividend base = %s, want 80", d.Proceeds.Base().Amount())
	}
	if d.Withheld == nil || !d.Withheld.Base().Amount().Equal(decimal.NewFromInt(12)) {
		t.Errorf("withheld base = %+v, want 12", d.Withheld)
	}
}

func TestDecodeLedgerRejectsMissingRate(t *testing.T) {
	bad := `{"events": [{"kind": "trade", "symbol": "VOD", "date": "2023-01-01",
	  "class": "equity", "side": "buy", "quantity": "100", "amount": "1000", "currency": "GBP"}]}`
	_, _, err := DecodeLedger(strings.NewReader(bad), "GBP")
	if err == nil {
		t.Error("expected error for missing fx rate")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	l, base, err := DecodeLedger(strings.NewReader(sampleLedger), "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l, base); err != nil {
		t.Fatalf("encode: %v", err)
	}

	again, _, err := DecodeLedger(&buf, "")
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if again.Len() != l.Len() {
		t.Errorf("round trip events = %d, want %d", again.Len(), l.Len())
	}
}
