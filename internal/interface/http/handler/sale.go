package handler

import (
	"github.com/gin-gonic/gin"

	appsale "github.com/xiebiao/fabric-inventory/internal/application/sale"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	"github.com/xiebiao/fabric-inventory/internal/interface/http/dto"
	"github.com/xiebiao/fabric-inventory/pkg/response"
)

// SaleHandler serves sale registration.
type SaleHandler struct {
	registerSaleUseCase *appsale.RegisterSaleUseCase
}

// NewSaleHandler creates the sale handler.
func NewSaleHandler(registerSaleUseCase *appsale.RegisterSaleUseCase) *SaleHandler {
	return &SaleHandler{registerSaleUseCase: registerSaleUseCase}
}

// RegisterSale records a sale and decreases the roll's stock
// @Summary      Register sale
// @Description  Locks the roll, checks stock, inserts the sale and decreases current_length in one transaction
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the first response for retries with the same body"
// @Param        request body dto.RegisterSaleRequest true "Sale"
// @Success      201 {object} response.Response{data=dto.SaleResponse} "sale registered successfully"
// @Failure      400 {object} response.Response "Invalid data, unknown roll or insufficient stock"
// @Failure      409 {object} response.Response "Same Idempotency-Key still in flight"
// @Failure      500 {object} response.Response "Internal error"
// @Router       /api/v1/sales [post]
func (h *SaleHandler) RegisterSale(c *gin.Context) {
	// 1. Bind and validate
	var req dto.RegisterSaleRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	saleDate, err := shared.ParseDate(req.SaleDate)
	if err != nil {
		response.Error(c, dateError("sale_date"))
		return
	}

	// 2. Use case (transaction)
	result, err := h.registerSaleUseCase.Execute(c.Request.Context(), appsale.RegisterSaleRequest{
		RollID:     req.RollID,
		MetersSold: *req.MetersSold,
		SaleDate:   saleDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. Response
	response.Created(c, "sale registered successfully", &dto.SaleResponse{
		SaleID:         result.SaleID,
		UpdatedRoll:    dto.NewRollResponse(result.Roll),
		MetersSold:     result.MetersSold,
		RemainingStock: result.RemainingStock,
	})
}
