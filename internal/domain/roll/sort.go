package roll

import "strings"

// SortField is a column the inventory can be ordered by.
type SortField string

const (
	SortByEntryDate     SortField = "entry_date"
	SortByCurrentLength SortField = "current_length"
	SortByFabricType    SortField = "fabric_type"
	SortByColor         SortField = "color"
)

// SortDirection is ASC or DESC.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

const (
	DefaultSortField     = SortByEntryDate
	DefaultSortDirection = SortDesc
)

// ParseSortField maps client input onto the allow-list; anything else
// falls back to DefaultSortField.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.TrimSpace(s)); f {
	case SortByEntryDate, SortByCurrentLength, SortByFabricType, SortByColor:
		return f
	default:
		return DefaultSortField
	}
}

// ParseSortDirection accepts asc/desc in any case; anything else falls back
// to DefaultSortDirection.
func ParseSortDirection(s string) SortDirection {
	switch d := SortDirection(strings.ToUpper(strings.TrimSpace(s))); d {
	case SortAsc, SortDesc:
		return d
	default:
		return DefaultSortDirection
	}
}
