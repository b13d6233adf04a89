package roll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// Roll is a physical fabric roll (aggregate root).
// Design notes:
// 1. Lengths are meters as decimal.Decimal, stored as DECIMAL(10,2)
// 2. OriginalLength is fixed at creation; only sales change CurrentLength
// 3. 0 <= CurrentLength <= OriginalLength holds at all times
type Roll struct {
	ID             uint
	FabricType     string
	Color          string
	OriginalLength decimal.Decimal
	CurrentLength  decimal.Decimal
	EntryDate      shared.Date
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRoll creates a full roll (factory method).
// Business rules:
// - length must be > 0
// - length must fit DECIMAL(10,2) without rounding
// - entry date cannot be later than today
func NewRoll(fabricType, color string, length decimal.Decimal, entryDate, today shared.Date) (*Roll, error) {
	if !length.IsPositive() {
		return nil, ErrInvalidLength
	}
	if !shared.FitsMeters(length) {
		return nil, ErrLengthOutOfRange
	}
	if entryDate.After(today) {
		return nil, ErrFutureEntryDate
	}

	now := time.Now()
	return &Roll{
		FabricType:     fabricType,
		Color:          color,
		OriginalLength: length,
		CurrentLength:  length,
		EntryDate:      entryDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// StockPercentage is CurrentLength/OriginalLength as a percentage, 2 decimals.
func (r *Roll) StockPercentage() decimal.Decimal {
	if r.OriginalLength.IsZero() {
		return decimal.Zero
	}
	return r.CurrentLength.Div(r.OriginalLength).Mul(hundred).Round(2)
}

// EnsureAvailable checks that meters can be cut from this roll.
func (r *Roll) EnsureAvailable(meters decimal.Decimal) error {
	if !meters.IsPositive() {
		return ErrInvalidLength
	}
	if !shared.FitsMeters(meters) {
		return ErrLengthOutOfRange
	}
	if meters.GreaterThan(r.CurrentLength) {
		return NewInsufficientStockError(r.CurrentLength, meters)
	}
	return nil
}
