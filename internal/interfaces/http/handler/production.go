package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	saleapp "github.com/lanchonete/backend/internal/application/sale"
)

// ProductionHandler handles the kitchen tracking API endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *saleapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *saleapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// Start moves an item into em_producao
func (h *ProductionHandler) Start(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid sale item ID format")
		return
	}

	// The cook reference is optional and so is the body itself
	var req saleapp.StartProductionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	resp, err := h.productionService.Start(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete moves an item from em_producao to concluido
func (h *ProductionHandler) Complete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid sale item ID format")
		return
	}

	var req saleapp.CompleteProductionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	resp, err := h.productionService.Complete(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deliver hands an item to the customer
func (h *ProductionHandler) Deliver(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid sale item ID format")
		return
	}

	resp, err := h.productionService.Deliver(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Revert overwrites an item's production stage
func (h *ProductionHandler) Revert(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid sale item ID format")
		return
	}

	var req saleapp.RevertProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.productionService.Revert(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// KitchenQueue lists the undelivered items across open sales
func (h *ProductionHandler) KitchenQueue(c *gin.Context) {
	entries, err := h.productionService.KitchenQueue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
