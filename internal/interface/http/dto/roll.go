package dto

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
)

// AddRollRequest is the body of POST /api/v1/rolls.
// length accepts a JSON number or a numeric string.
type AddRollRequest struct {
	FabricType string           `json:"fabric_type" validate:"required,min=2,max=100" example:"Cotton"`
	Color      string           `json:"color" validate:"required,min=2,max=50" example:"White"`
	Length     *decimal.Decimal `json:"length" validate:"required,gt=0,lte=99999999.99,decimal2" swaggertype:"number" example:"100.5"`
	EntryDate  string           `json:"entry_date" validate:"required,datetime=2006-01-02" example:"2024-03-01"`
}

// Normalize implements Normalizer.
func (r *AddRollRequest) Normalize() {
	trim(&r.FabricType)
	trim(&r.Color)
	trim(&r.EntryDate)
}

// RollResponse is one roll as returned by every endpoint.
type RollResponse struct {
	ID              uint            `json:"id" example:"1"`
	FabricType      string          `json:"fabric_type" example:"Cotton"`
	Color           string          `json:"color" example:"White"`
	OriginalLength  decimal.Decimal `json:"original_length" swaggertype:"number" example:"100"`
	CurrentLength   decimal.Decimal `json:"current_length" swaggertype:"number" example:"70"`
	StockPercentage decimal.Decimal `json:"stock_percentage" swaggertype:"number" example:"70"`
	EntryDate       string          `json:"entry_date" example:"2024-03-01"`
	CreatedAt       string          `json:"created_at" example:"2024-03-01 10:30:00"`
	UpdatedAt       string          `json:"updated_at" example:"2024-03-02 16:05:00"`
}

// NewRollResponse maps a domain roll.
func NewRollResponse(r *roll.Roll) RollResponse {
	return RollResponse{
		ID:              r.ID,
		FabricType:      r.FabricType,
		Color:           r.Color,
		OriginalLength:  r.OriginalLength,
		CurrentLength:   r.CurrentLength,
		StockPercentage: r.StockPercentage(),
		EntryDate:       r.EntryDate.String(),
		CreatedAt:       r.CreatedAt.Format(TimeLayout),
		UpdatedAt:       r.UpdatedAt.Format(TimeLayout),
	}
}

// InventoryRequest is the query string of GET /api/v1/inventory.
// Nothing is rejected: unknown sort values fall back to entry_date DESC and an
// unparsable min_stock means 0.
type InventoryRequest struct {
	OrderBy    string `form:"order_by" example:"entry_date"`
	OrderDir   string `form:"order_dir" example:"DESC"`
	FabricType string `form:"fabric_type" example:"cot"`
	Color      string `form:"color" example:"whi"`
	MinStock   string `form:"min_stock" example:"10"`
}

// InventoryStats summarizes rolls with stock left.
type InventoryStats struct {
	TotalRolls       int64           `json:"total_rolls" example:"3"`
	TotalMeters      decimal.Decimal `json:"total_meters" swaggertype:"number" example:"145"`
	AvgMetersPerRoll decimal.Decimal `json:"avg_meters_per_roll" swaggertype:"number" example:"48.33"`
	FabricTypesCount int64           `json:"fabric_types_count" example:"2"`
	ColorsCount      int64           `json:"colors_count" example:"3"`
}

// InventoryFilters lists the values present in the store.
type InventoryFilters struct {
	FabricTypes []string `json:"fabric_types"`
	Colors      []string `json:"colors"`
}

// InventorySort echoes the ordering that was applied.
type InventorySort struct {
	Total    int    `json:"total" example:"3"`
	OrderBy  string `json:"order_by" example:"entry_date"`
	OrderDir string `json:"order_dir" example:"DESC"`
}

// InventoryResponse is the data of GET /api/v1/inventory.
type InventoryResponse struct {
	Rolls   []RollResponse   `json:"rolls"`
	Stats   InventoryStats   `json:"stats"`
	Filters InventoryFilters `json:"filters"`
	Sort    InventorySort    `json:"sort"`
}
