// Package taxyear maps calendar dates onto UK fiscal years, which run from
// 6 April to the following 5 April.
package taxyear

import (
	"fmt"
	"time"
)

// Year identifies a UK tax year by the calendar year it starts in:
// Year(2023) is 6 April 2023 through 5 April 2024.
type Year int

// FromDate returns the tax year containing t. A date on or after 6 April
// belongs to that calendar year's tax year, otherwise to the previous one.
func FromDate(t time.Time) Year {
	start := time.Date(t.Year(), time.April, 6, 0, 0, 0, 0, t.Location())
	if t.Before(start) {
		return Year(t.Year() - 1)
	}
	return Year(t.Year())
}

// Start returns 6 April of the starting calendar year, UTC midnight.
func (y Year) Start() time.Time {
	return time.Date(int(y), time.April, 6, 0, 0, 0, 0, time.UTC)
}

// End returns 5 April of the following calendar year, UTC midnight.
func (y Year) End() time.Time {
	return time.Date(int(y)+1, time.April, 5, 0, 0, 0, 0, time.UTC)
}

// String renders the HMRC-style label, e.g. "2023/24".
func (y Year) String() string {
	return fmt.Sprintf("%d/%02d", int(y), (int(y)+1)%100)
}
