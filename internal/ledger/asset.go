package ledger

import "fmt"

// AssetType is the closed set of instrument classes the engine handles.
type AssetType int

const (
	Equity AssetType = iota
	Option
	Future
	Currency
)

func (t AssetType) String() string {
	switch t {
	case Equity:
		return "equity"
	case Option:
		return "option"
	case Future:
		return "future"
	case Currency:
		return "currency"
	default:
		return "unknown"
	}
}

// ParseAssetType parses the wire name of an instrument class.
func ParseAssetType(s string) (AssetType, error) {
	switch s {
	case "equity":
		return Equity, nil
	case "option":
		return Option, nil
	case "future":
		return Future, nil
	case "currency", "fx":
		return Currency, nil
	default:
		return 0, fmt.Errorf("unknown asset type: %q", s)
	}
}

// TypeFilter selects which instrument classes take part in a calculation.
// A nil filter includes everything.
type TypeFilter map[AssetType]bool

// Includes reports whether trades of class t should be processed.
func (f TypeFilter) Includes(t AssetType) bool {
	if f == nil {
		return true
	}
	return f[t]
}

// AllTypes returns a filter that includes every instrument class.
func AllTypes() TypeFilter {
	return TypeFilter{Equity: true, Option: true, Future: true, Currency: true}
}
