package dto

import (
	"github.com/shopspring/decimal"
)

// RegisterSaleRequest is the body of POST /api/v1/sales.
type RegisterSaleRequest struct {
	RollID     uint             `json:"roll_id" validate:"required,gt=0" example:"1"`
	MetersSold *decimal.Decimal `json:"meters_sold" validate:"required,gt=0,lte=99999999.99,decimal2" swaggertype:"number" example:"30"`
	SaleDate   string           `json:"sale_date" validate:"required,datetime=2006-01-02" example:"2024-03-02"`
}

// Normalize implements Normalizer.
func (r *RegisterSaleRequest) Normalize() {
	trim(&r.SaleDate)
}

// SaleResponse is the data of POST /api/v1/sales.
type SaleResponse struct {
	SaleID         uint            `json:"sale_id" example:"12"`
	UpdatedRoll    RollResponse    `json:"updated_roll"`
	MetersSold     decimal.Decimal `json:"meters_sold" swaggertype:"number" example:"30"`
	RemainingStock decimal.Decimal `json:"remaining_stock" swaggertype:"number" example:"70"`
}
