package roll

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
)

// Service is the roll domain service.
// Design notes:
// 1. Owns the business rules that need more than one entity or the clock
// 2. Depends only on the Repository interface
type Service interface {
	// AddRoll creates a full roll and returns it as read back from the store.
	// Business rules:
	// - length > 0
	// - entry date not later than today
	AddRoll(ctx context.Context, fabricType, color string, length decimal.Decimal, entryDate shared.Date) (*Roll, error)

	// ListRolls returns rolls matching params
	ListRolls(ctx context.Context, params ListParams) ([]*Roll, error)

	// InventoryStats summarizes rolls with stock left, totals rounded to 2 decimals
	InventoryStats(ctx context.Context) (*Stats, error)

	// FilterOptions returns the distinct fabric types and colors in the store
	FilterOptions(ctx context.Context) (*FilterOptions, error)
}

type service struct {
	repo  Repository
	clock shared.Clock
}

// NewService creates the roll domain service.
func NewService(repo Repository, clock shared.Clock) Service {
	return &service{repo: repo, clock: clock}
}

func (s *service) AddRoll(ctx context.Context, fabricType, color string, length decimal.Decimal, entryDate shared.Date) (*Roll, error) {
	// 1. Build the entity (checks length and entry date)
	roll, err := NewRoll(fabricType, color, length, entryDate, s.clock.Today())
	if err != nil {
		return nil, err
	}

	// 2. Persist
	if err := s.repo.Create(ctx, roll); err != nil {
		return nil, err
	}

	// 3. Return the row as stored
	return s.repo.FindByID(ctx, roll.ID)
}

func (s *service) ListRolls(ctx context.Context, params ListParams) ([]*Roll, error) {
	return s.repo.List(ctx, params)
}

func (s *service) InventoryStats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalMeters = stats.TotalMeters.Round(2)
	stats.AvgMetersPerRoll = stats.AvgMetersPerRoll.Round(2)
	return stats, nil
}

func (s *service) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	fabricTypes, err := s.repo.DistinctFabricTypes(ctx)
	if err != nil {
		return nil, err
	}

	colors, err := s.repo.DistinctColors(ctx)
	if err != nil {
		return nil, err
	}

	return &FilterOptions{FabricTypes: fabricTypes, Colors: colors}, nil
}
