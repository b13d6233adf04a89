package sale

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
)

// Sale records meters cut from one roll.
// Design notes:
// 1. A sale is written once and never changed or deleted
// 2. It references the roll by ID only (no cross-aggregate object graph)
type Sale struct {
	ID         uint
	RollID     uint
	MetersSold decimal.Decimal
	SaleDate   shared.Date
	CreatedAt  time.Time
}

// NewSale creates a sale (factory method).
// Business rules:
// - roll id > 0
// - meters sold > 0, at most 2 decimals
// - sale date not later than today
//
// Stock availability is checked against the locked roll, not here.
func NewSale(rollID uint, metersSold decimal.Decimal, saleDate, today shared.Date) (*Sale, error) {
	if rollID == 0 {
		return nil, ErrInvalidRollID
	}
	if !metersSold.IsPositive() {
		return nil, ErrInvalidMeters
	}
	if !shared.FitsMeters(metersSold) {
		return nil, ErrMetersOutOfRange
	}
	if saleDate.After(today) {
		return nil, ErrFutureSaleDate
	}

	return &Sale{
		RollID:     rollID,
		MetersSold: metersSold,
		SaleDate:   saleDate,
		CreatedAt:  time.Now(),
	}, nil
}
