package roll

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the roll store (dependency inversion).
// Design notes:
// 1. Defined by the domain, implemented in infrastructure
// 2. Methods called with a transaction-scoped ctx (see shared.Transactor)
//    join that transaction
type Repository interface {
	// Create inserts a roll and fills its ID and timestamps
	Create(ctx context.Context, roll *Roll) error

	// FindByID returns ErrRollNotFound when no roll has this id
	FindByID(ctx context.Context, id uint) (*Roll, error)

	// LockByID reads a roll with SELECT ... FOR UPDATE.
	// Concurrent sales on the same roll queue behind the lock until commit.
	LockByID(ctx context.Context, id uint) (*Roll, error)

	// DecreaseStock subtracts meters from current_length in one guarded
	// UPDATE; it fails with an insufficient-stock error instead of going below 0
	DecreaseStock(ctx context.Context, id uint, meters decimal.Decimal) error

	// List returns rolls matching params in the requested order
	List(ctx context.Context, params ListParams) ([]*Roll, error)

	// Stats aggregates over rolls that still have stock
	Stats(ctx context.Context) (*Stats, error)

	// DistinctFabricTypes returns every fabric type in the store, ascending
	DistinctFabricTypes(ctx context.Context) ([]string, error)

	// DistinctColors returns every color in the store, ascending
	DistinctColors(ctx context.Context) ([]string, error)
}

// ListParams filters and sorts the inventory listing.
type ListParams struct {
	FabricType string          // substring match, empty = any
	Color      string          // substring match, empty = any
	MinStock   decimal.Decimal // current_length >= MinStock
	OrderBy    SortField
	OrderDir   SortDirection
}

// Stats summarizes rolls with current_length > 0.
type Stats struct {
	TotalRolls       int64
	TotalMeters      decimal.Decimal
	AvgMetersPerRoll decimal.Decimal
	FabricTypesCount int64
	ColorsCount      int64
}

// FilterOptions lists the values a client can filter by.
type FilterOptions struct {
	FabricTypes []string
	Colors      []string
}
