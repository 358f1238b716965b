package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	invapp "github.com/treadline/backend/internal/application/inventory"
	"github.com/treadline/backend/internal/domain/shared"
	"github.com/treadline/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles stock-related API endpoints
type InventoryHandler struct {
	BaseHandler
	ledger *invapp.InventoryLedger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger *invapp.InventoryLedger) *InventoryHandler {
	return &InventoryHandler{
		ledger: ledger,
	}
}

// Receive handles POST /stock/receive
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req invapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.ledger.ReceiveIntake(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Adjust handles POST /stock/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req invapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.ledger.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetLevels handles PUT /stock/levels
func (h *InventoryHandler) SetLevels(c *gin.Context) {
	var req invapp.SetLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.ledger.SetLevels(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetStock handles GET /stock/:product_id
func (h *InventoryHandler) GetStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	location := c.Query("location")

	resp, err := h.ledger.GetStock(c.Request.Context(), productID, location)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /stock
func (h *InventoryHandler) List(c *gin.Context) {
	var filter invapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	page, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListMovements handles GET /stock/:product_id/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	location := c.Query("location")

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if listReq.Page > 0 {
		filter.Page = listReq.Page
	}
	if listReq.PageSize > 0 {
		filter.PageSize = listReq.PageSize
	}

	page, err := h.ledger.ListMovements(c.Request.Context(), productID, location, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
