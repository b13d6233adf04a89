package shared

import "github.com/shopspring/decimal"

// MetersScale is the number of decimals a length is stored with (DECIMAL(10,2)).
const MetersScale = 2

// MaxMeters is the largest length the store can hold.
var MaxMeters = decimal.RequireFromString("99999999.99")

// FitsMeters reports whether d is stored exactly: at most MetersScale
// decimals and not above MaxMeters.
func FitsMeters(d decimal.Decimal) bool {
	return d.Equal(d.Round(MetersScale)) && d.LessThanOrEqual(MaxMeters)
}
