package roll

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/fabric-inventory/internal/domain/event"
	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	"github.com/xiebiao/fabric-inventory/pkg/metrics"
	"github.com/xiebiao/fabric-inventory/pkg/tracing"
)

const tracerName = "inventory/roll"

// AddRollUseCase puts a new full roll into the inventory.
type AddRollUseCase struct {
	rollService roll.Service
	publisher   event.Publisher
	logger      *zap.Logger
}

// NewAddRollUseCase creates the add-roll use case.
func NewAddRollUseCase(rollService roll.Service, publisher event.Publisher, logger *zap.Logger) *AddRollUseCase {
	metrics.InitMetrics()
	return &AddRollUseCase{
		rollService: rollService,
		publisher:   publisher,
		logger:      logger,
	}
}

// AddRollRequest carries already validated input.
type AddRollRequest struct {
	FabricType string
	Color      string
	Length     decimal.Decimal
	EntryDate  shared.Date
}

// AddRollResponse holds the stored roll.
type AddRollResponse struct {
	Roll *roll.Roll
}

// Execute stores the roll and announces it.
// Flow:
// 1. roll.Service checks length and entry date, then inserts
// 2. rolls_created_total is incremented
// 3. roll.created is published (best effort)
func (uc *AddRollUseCase) Execute(ctx context.Context, req AddRollRequest) (*AddRollResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AddRoll")
	defer span.End()

	// 1. Create and persist
	created, err := uc.rollService.AddRoll(ctx, req.FabricType, req.Color, req.Length, req.EntryDate)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	// 2. Metrics
	metrics.IncCounter(metrics.RollsCreatedTotal)

	// 3. Event
	e := event.NewRollCreated(event.RollSnapshot{
		ID:             created.ID,
		FabricType:     created.FabricType,
		Color:          created.Color,
		OriginalLength: created.OriginalLength,
		CurrentLength:  created.CurrentLength,
		EntryDate:      created.EntryDate.String(),
	})
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.logger.Warn("publish roll.created failed",
			zap.Uint("roll_id", created.ID),
			zap.Error(err),
		)
	}

	return &AddRollResponse{Roll: created}, nil
}
