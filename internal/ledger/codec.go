package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxtools/cgtcalc/internal/money"
)

const dateLayout = "2006-01-02"

// eventRecord is the wire form of one ledger event. Kind discriminates the
// variant; the remaining fields apply per kind.
type eventRecord struct {
	Kind   string `json:"kind"`
	Symbol string `json:"symbol"`
	Date   string `json:"date"`

	// trade
	Class      string          `json:"class,omitempty"`
	Side       string          `json:"side,omitempty"`
	Quantity   decimal.Decimal `json:"quantity,omitempty"`
	Underlying string          `json:"underlying,omitempty"`
	Exercised  bool            `json:"exercised,omitempty"`

	// trade / equalisation / dividend amounts
	Amount      decimal.Decimal `json:"amount,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	FXRate      decimal.Decimal `json:"fxRate,omitempty"`
	Description string          `json:"description,omitempty"`

	// split
	Ratio decimal.Decimal `json:"ratio,omitempty"`

	// equalisation
	Related string `json:"related,omitempty"`

	// dividend
	Type         string           `json:"type,omitempty"`
	Jurisdiction string           `json:"jurisdiction,omitempty"`
	Withheld     *decimal.Decimal `json:"withheld,omitempty"`
}

type ledgerFile struct {
	BaseCurrency string        `json:"baseCurrency,omitempty"`
	Events       []eventRecord `json:"events"`
}

// DecodeLedger reads a JSON ledger file into typed events. Exchange rates
// and quantities are validated here so the engine never sees a malformed
// event. baseCurrency overrides the file's own declaration when non-empty.
func DecodeLedger(r io.Reader, baseCurrency string) (*Ledger, string, error) {
	var file ledgerFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, "", fmt.Errorf("decoding ledger: %w", err)
	}

	base := baseCurrency
	if base == "" {
		base = file.BaseCurrency
	}
	if base == "" {
		base = "GBP"
	}

	l := New()
	for i, rec := range file.Events {
		ev, err := rec.event(base)
		if err != nil {
			return nil, "", fmt.Errorf("event %d (%s %s on %s): %w", i, rec.Kind, rec.Symbol, rec.Date, err)
		}
		l.Append(ev)
	}
	return l, base, nil
}

func (rec eventRecord) event(base string) (Event, error) {
	date, err := time.Parse(dateLayout, rec.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	if rec.Symbol == "" {
		return nil, fmt.Errorf("missing symbol")
	}

	switch rec.Kind {
	case "trade":
		class, err := ParseAssetType(rec.Class)
		if err != nil {
			return nil, err
		}
		side, err := ParseSide(rec.Side)
		if err != nil {
			return nil, err
		}
		value, err := money.NewDescribed(rec.Amount, rec.Currency, rec.FXRate, base, rec.Description)
		if err != nil {
			return nil, err
		}
		t, err := NewTrade(rec.Symbol, class, date, side, rec.Quantity, value)
		if err != nil {
			return nil, err
		}
		t.Underlying = rec.Underlying
		t.Exercised = rec.Exercised
		return t, nil

	case "split":
		if !rec.Ratio.IsPositive() {
			return nil, fmt.Errorf("split ratio must be positive, got %s", rec.Ratio)
		}
		return &CorporateAction{
			Symbol: rec.Symbol,
			Date:   date,
			Kind:   StockSplit,
			Ratio:  rec.Ratio,
		}, nil

	case "equalisation":
		amount, err := money.NewDescribed(rec.Amount, rec.Currency, rec.FXRate, base, rec.Description)
		if err != nil {
			return nil, err
		}
		return &CorporateAction{
			Symbol:       rec.Symbol,
			Date:         date,
			Kind:         FundEqualisation,
			Amount:       amount,
			RelatedEvent: rec.Related,
		}, nil

	case "dividend":
		kind, err := ParseDividendKind(rec.Type)
		if err != nil {
			return nil, err
		}
		proceeds, err := money.NewDescribed(rec.Amount, rec.Currency, rec.FXRate, base, rec.Description)
		if err != nil {
			return nil, err
		}
		d := &Dividend{
			Symbol:       rec.Symbol,
			Date:         date,
			Kind:         kind,
			Jurisdiction: rec.Jurisdiction,
			Proceeds:     proceeds,
		}
		if rec.Withheld != nil {
			withheld, err := money.NewDescribed(*rec.Withheld, rec.Currency, rec.FXRate, base, rec.Description)
			if err != nil {
				return nil, fmt.Errorf("withheld amount: %w", err)
			}
			d.Withheld = &withheld
		}
		return d, nil

	default:
		return nil, fmt.Errorf("unknown event kind: %q", rec.Kind)
	}
}

// EncodeLedger writes the ledger back to its JSON wire form.
func EncodeLedger(w io.Writer, l *Ledger, baseCurrency string) error {
	file := ledgerFile{BaseCurrency: baseCurrency}
	for _, ev := range l.Events() {
		file.Events = append(file.Events, record(ev))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(file)
}

func record(ev Event) eventRecord {
	rec := eventRecord{
		Symbol: ev.EventSymbol(),
		Date:   ev.EventDate().Format(dateLayout),
	}
	switch e := ev.(type) {
	case *Trade:
		rec.Kind = "trade"
		rec.Class = e.Class.String()
		rec.Side = e.Side.String()
		rec.Quantity = e.Quantity
		rec.Amount = e.Value.Original().Amount()
		rec.Currency = e.Value.Original().Currency()
		rec.FXRate = e.Value.Rate()
		rec.Description = e.Value.Description()
		rec.Underlying = e.Underlying
		rec.Exercised = e.Exercised
	case *CorporateAction:
		switch e.Kind {
		case StockSplit:
			rec.Kind = "split"
			rec.Ratio = e.Ratio
		case FundEqualisation:
			rec.Kind = "equalisation"
			rec.Amount = e.Amount.Original().Amount()
			rec.Currency = e.Amount.Original().Currency()
			rec.FXRate = e.Amount.Rate()
			rec.Description = e.Amount.Description()
			rec.Related = e.RelatedEvent
		}
	case *Dividend:
		rec.Kind = "dividend"
		rec.Type = e.Kind.String()
		rec.Jurisdiction = e.Jurisdiction
		rec.Amount = e.Proceeds.Original().Amount()
		rec.Currency = e.Proceeds.Original().Currency()
		rec.FXRate = e.Proceeds.Rate()
		rec.Description = e.Proceeds.Description()
		if e.Withheld != nil {
			amt := e.Withheld.Original().Amount()
			rec.Withheld = &amt
		}
	}
	return rec
}
