package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	saleapp "github.com/lanchonete/backend/internal/application/sale"
)

// SaleHandler handles the sale ledger API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *saleapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *saleapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create registers a new sale with its items
func (h *SaleHandler) Create(c *gin.Context) {
	var req saleapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one sale with items, payments and production state
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	resp, err := h.saleService.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns sales filtered by status, customer and date range
func (h *SaleHandler) List(c *gin.Context) {
	var filter saleapp.SaleListFilter
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

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// UpdateDiscount replaces the sale discount and recomputes the total
func (h *SaleHandler) UpdateDiscount(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req saleapp.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.saleService.UpdateDiscount(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetStatus applies the imperative status override
func (h *SaleHandler) SetStatus(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req saleapp.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.saleService.SetStatus(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
