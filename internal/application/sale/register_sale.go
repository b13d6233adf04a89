package sale

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/fabric-inventory/internal/domain/event"
	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/sale"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
	"github.com/xiebiao/fabric-inventory/pkg/metrics"
	"github.com/xiebiao/fabric-inventory/pkg/tracing"
)

const tracerName = "inventory/sale"

// Rejection reasons reported in sales_rejected_total.
const (
	reasonInvalidRequest    = "invalid_request"
	reasonRollNotFound      = "roll_not_found"
	reasonInsufficientStock = "insufficient_stock"
	reasonInternal          = "internal"
)

// RegisterSaleUseCase records a sale and takes its meters off the roll.
type RegisterSaleUseCase struct {
	saleRepo  sale.Repository
	rollRepo  roll.Repository
	txManager shared.Transactor
	clock     shared.Clock
	publisher event.Publisher
	logger    *zap.Logger
}

// NewRegisterSaleUseCase creates the register-sale use case.
func NewRegisterSaleUseCase(
	saleRepo sale.Repository,
	rollRepo roll.Repository,
	txManager shared.Transactor,
	clock shared.Clock,
	publisher event.Publisher,
	logger *zap.Logger,
) *RegisterSaleUseCase {
	metrics.InitMetrics()
	return &RegisterSaleUseCase{
		saleRepo:  saleRepo,
		rollRepo:  rollRepo,
		txManager: txManager,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

// RegisterSaleRequest carries already validated input.
type RegisterSaleRequest struct {
	RollID     uint
	MetersSold decimal.Decimal
	SaleDate   shared.Date
}

// RegisterSaleResponse is the committed outcome.
type RegisterSaleResponse struct {
	SaleID         uint
	Roll           *roll.Roll // state after the sale, read inside the transaction
	MetersSold     decimal.Decimal
	RemainingStock decimal.Decimal
}

// Execute registers the sale.
//
// Overselling guard:
//  1. SELECT ... FOR UPDATE locks the roll row
//  2. The locked stock is compared with meters sold
//  3. The sale row is inserted
//  4. current_length is decreased with a guarded UPDATE (current_length >= ?)
//  5. COMMIT releases the lock
//
// Concurrent sales on one roll queue behind the lock, so each sees the stock
// left by the previous one. Any failure in 1-4 rolls everything back.
func (uc *RegisterSaleUseCase) Execute(ctx context.Context, req RegisterSaleRequest) (*RegisterSaleResponse, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "RegisterSale")
	defer span.End()

	// Preconditions, before touching the store
	newSale, err := sale.NewSale(req.RollID, req.MetersSold, req.SaleDate, uc.clock.Today())
	if err != nil {
		return nil, uc.reject(span, err)
	}

	var updated *roll.Roll
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. Lock the roll
		locked, err := uc.rollRepo.LockByID(txCtx, req.RollID)
		if err != nil {
			return err
		}

		// 2. Enough stock?
		if err := locked.EnsureAvailable(req.MetersSold); err != nil {
			return err
		}

		// 3. Sale row
		if err := uc.saleRepo.Create(txCtx, newSale); err != nil {
			return err
		}

		// 4. Stock
		if err := uc.rollRepo.DecreaseStock(txCtx, req.RollID, req.MetersSold); err != nil {
			return err
		}

		// Post-sale state for the response
		updated, err = uc.rollRepo.FindByID(txCtx, req.RollID)
		return err
	})
	if err != nil {
		return nil, uc.reject(span, err)
	}

	// Committed from here on
	metrics.IncCounter(metrics.SalesRegisteredTotal)
	metrics.AddCounter(metrics.MetersSoldTotal, req.MetersSold.InexactFloat64())
	metrics.ObserveHistogram(metrics.SaleRegistrationDuration, time.Since(start).Seconds())

	e := event.NewSaleRegistered(newSale.ID, updated.ID, req.MetersSold, updated.CurrentLength, req.SaleDate.String())
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.logger.Warn("publish sale.registered failed",
			zap.Uint("sale_id", newSale.ID),
			zap.Uint("roll_id", updated.ID),
			zap.Error(err),
		)
	}

	return &RegisterSaleResponse{
		SaleID:         newSale.ID,
		Roll:           updated,
		MetersSold:     req.MetersSold,
		RemainingStock: updated.CurrentLength,
	}, nil
}

// reject counts the failure by reason and marks the span.
func (uc *RegisterSaleUseCase) reject(span trace.Span, err error) error {
	tracing.RecordError(span, err)
	metrics.IncCounterVec(metrics.SalesRejectedTotal, map[string]string{"reason": rejectionReason(err)})
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, roll.ErrRollNotFound):
		return reasonRollNotFound
	case errors.Is(err, roll.ErrInsufficientStock):
		return reasonInsufficientStock
	}
	if apperrors.GetAppError(err).IsInternal() {
		return reasonInternal
	}
	return reasonInvalidRequest
}
