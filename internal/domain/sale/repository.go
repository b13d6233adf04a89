package sale

import "context"

// Repository is the sale store.
type Repository interface {
	// Create inserts a sale and fills its ID.
	// A roll id that does not exist fails with roll.ErrRollNotFound.
	Create(ctx context.Context, sale *Sale) error
}
