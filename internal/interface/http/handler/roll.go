package handler

import (
	"github.com/gin-gonic/gin"

	approll "github.com/xiebiao/fabric-inventory/internal/application/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	"github.com/xiebiao/fabric-inventory/internal/interface/http/dto"
	"github.com/xiebiao/fabric-inventory/pkg/response"
)

// RollHandler serves roll creation and the inventory query.
type RollHandler struct {
	addRollUseCase       *approll.AddRollUseCase
	listInventoryUseCase *approll.ListInventoryUseCase
}

// NewRollHandler creates the roll handler.
func NewRollHandler(
	addRollUseCase *approll.AddRollUseCase,
	listInventoryUseCase *approll.ListInventoryUseCase,
) *RollHandler {
	return &RollHandler{
		addRollUseCase:       addRollUseCase,
		listInventoryUseCase: listInventoryUseCase,
	}
}

// AddRoll adds a new roll to the inventory
// @Summary      Add roll
// @Description  Stores a new full roll: current length equals the entered length
// @Tags         rolls
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the first response for retries with the same body"
// @Param        request body dto.AddRollRequest true "Roll"
// @Success      201 {object} response.Response{data=dto.RollResponse} "roll added successfully"
// @Failure      400 {object} response.Response "Invalid data or future entry date"
// @Failure      409 {object} response.Response "Same Idempotency-Key still in flight"
// @Failure      500 {object} response.Response "Internal error"
// @Router       /api/v1/rolls [post]
func (h *RollHandler) AddRoll(c *gin.Context) {
	// 1. Bind and validate
	var req dto.AddRollRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	entryDate, err := shared.ParseDate(req.EntryDate)
	if err != nil {
		response.Error(c, dateError("entry_date"))
		return
	}

	// 2. Use case
	result, err := h.addRollUseCase.Execute(c.Request.Context(), approll.AddRollRequest{
		FabricType: req.FabricType,
		Color:      req.Color,
		Length:     *req.Length,
		EntryDate:  entryDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. Response
	response.Created(c, "roll added successfully", dto.NewRollResponse(result.Roll))
}

// ListInventory returns rolls, stock statistics and filter options
// @Summary      Inventory
// @Description  Rolls with current_length >= min_stock matching the substring filters. Unknown order_by/order_dir fall back to entry_date DESC.
// @Tags         rolls
// @Produce      json
// @Param        order_by    query string false "entry_date | current_length | fabric_type | color"
// @Param        order_dir   query string false "ASC | DESC"
// @Param        fabric_type query string false "Substring of the fabric type"
// @Param        color       query string false "Substring of the color"
// @Param        min_stock   query number false "Minimum current length in meters"
// @Success      200 {object} response.Response{data=dto.InventoryResponse}
// @Failure      400 {object} response.Response "Malformed query"
// @Failure      500 {object} response.Response "Internal error"
// @Router       /api/v1/inventory [get]
func (h *RollHandler) ListInventory(c *gin.Context) {
	var req dto.InventoryRequest
	if err := bindQuery(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.listInventoryUseCase.Execute(c.Request.Context(), approll.ListInventoryRequest{
		FabricType: req.FabricType,
		Color:      req.Color,
		MinStock:   req.MinStock,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	rolls := make([]dto.RollResponse, len(result.Rolls))
	for i, r := range result.Rolls {
		rolls[i] = dto.NewRollResponse(r)
	}

	response.Success(c, &dto.InventoryResponse{
		Rolls: rolls,
		Stats: dto.InventoryStats{
			TotalRolls:       result.Stats.TotalRolls,
			TotalMeters:      result.Stats.TotalMeters,
			AvgMetersPerRoll: result.Stats.AvgMetersPerRoll,
			FabricTypesCount: result.Stats.FabricTypesCount,
			ColorsCount:      result.Stats.ColorsCount,
		},
		Filters: dto.InventoryFilters{
			FabricTypes: result.Filters.FabricTypes,
			Colors:      result.Filters.Colors,
		},
		Sort: dto.InventorySort{
			Total:    len(rolls),
			OrderBy:  string(result.OrderBy),
			OrderDir: string(result.OrderDir),
		},
	})
}
