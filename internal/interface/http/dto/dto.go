// Package dto holds the HTTP request and response bodies.
package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TimeLayout formats created_at/updated_at.
const TimeLayout = "2006-01-02 15:04:05"

func init() {
	// Lengths go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Normalizer trims request fields before validation.
type Normalizer interface {
	Normalize()
}

func trim(s *string) {
	*s = strings.TrimSpace(*s)
}
