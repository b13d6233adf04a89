package sale

import (
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
)

// Sale domain errors
var (
	ErrInvalidRollID    = apperrors.New(apperrors.ErrCodeBadRequest, "roll id must be greater than 0")
	ErrInvalidMeters    = apperrors.New(apperrors.ErrCodeBadRequest, "meters sold must be greater than 0")
	ErrMetersOutOfRange = apperrors.New(apperrors.ErrCodeBadRequest, "meters sold must have at most 2 decimals and not exceed 99999999.99")
	ErrFutureSaleDate   = apperrors.New(apperrors.ErrCodeBadRequest, "sale date cannot be in the future")
)
