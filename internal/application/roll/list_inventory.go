package roll

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/pkg/tracing"
)

// ListInventoryUseCase answers the inventory query: the matching rolls plus
// stock statistics and the filter values a client can offer.
type ListInventoryUseCase struct {
	rollService roll.Service
}

// NewListInventoryUseCase creates the inventory query use case.
func NewListInventoryUseCase(rollService roll.Service) *ListInventoryUseCase {
	return &ListInventoryUseCase{rollService: rollService}
}

// ListInventoryRequest is the raw query string input. Nothing here is ever
// rejected; bad values fall back to defaults.
type ListInventoryRequest struct {
	FabricType string
	Color      string
	MinStock   string
	OrderBy    string
	OrderDir   string
}

// ListInventoryResponse is the inventory snapshot.
type ListInventoryResponse struct {
	Rolls    []*roll.Roll
	Stats    *roll.Stats
	Filters  *roll.FilterOptions
	OrderBy  roll.SortField
	OrderDir roll.SortDirection
}

// Execute runs the inventory query.
// Steps:
// 1. Normalize filters; min_stock that does not parse or is negative means 0
// 2. Map order_by/order_dir onto the allow-list (fallback entry_date DESC)
// 3. Load rolls, stats and filter options
func (uc *ListInventoryUseCase) Execute(ctx context.Context, req ListInventoryRequest) (*ListInventoryResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListInventory")
	defer span.End()

	// 1-2. Parameters
	params := roll.ListParams{
		FabricType: strings.TrimSpace(req.FabricType),
		Color:      strings.TrimSpace(req.Color),
		MinStock:   parseMinStock(req.MinStock),
		OrderBy:    roll.ParseSortField(req.OrderBy),
		OrderDir:   roll.ParseSortDirection(req.OrderDir),
	}

	// 3. Queries
	rolls, err := uc.rollService.ListRolls(ctx, params)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	stats, err := uc.rollService.InventoryStats(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	filters, err := uc.rollService.FilterOptions(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	return &ListInventoryResponse{
		Rolls:    rolls,
		Stats:    stats,
		Filters:  filters,
		OrderBy:  params.OrderBy,
		OrderDir: params.OrderDir,
	}, nil
}

func parseMinStock(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero
	}
	return v
}
