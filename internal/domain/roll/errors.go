package roll

import (
	"github.com/shopspring/decimal"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
)

// Roll domain errors
var (
	// ErrRollNotFound the referenced roll does not exist
	ErrRollNotFound = apperrors.New(apperrors.ErrCodeBadRequest, "the specified roll does not exist")

	// ErrInvalidLength length must be positive
	ErrInvalidLength = apperrors.New(apperrors.ErrCodeBadRequest, "length must be greater than 0")

	// ErrLengthOutOfRange length the store cannot hold exactly
	ErrLengthOutOfRange = apperrors.New(apperrors.ErrCodeBadRequest, "length must have at most 2 decimals and not exceed 99999999.99")

	// ErrFutureEntryDate entry date is later than today
	ErrFutureEntryDate = apperrors.New(apperrors.ErrCodeBadRequest, "entry date cannot be in the future")

	// ErrInsufficientStock not enough meters left on the roll.
	// Use NewInsufficientStockError to report the quantities.
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeBadRequest, "insufficient stock")
)

// NewInsufficientStockError reports available and requested meters.
// errors.Is(err, ErrInsufficientStock) still holds.
func NewInsufficientStockError(available, requested decimal.Decimal) error {
	return apperrors.Newf(ErrInsufficientStock,
		"insufficient stock: available %s m, requested %s m",
		available.StringFixed(2), requested.StringFixed(2),
	)
}
