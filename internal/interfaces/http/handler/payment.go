package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	saleapp "github.com/lanchonete/backend/internal/application/sale"
)

// PaymentHandler handles the payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *saleapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *saleapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PayItem records a payment event against one sale item
func (h *PaymentHandler) PayItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid sale item ID format")
		return
	}

	var req saleapp.PayItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.PayItem(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// PayItems spreads one tendered amount across several items of a sale
func (h *PaymentHandler) PayItems(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req saleapp.PayItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.PayItems(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RefundPayment reverses one exact payment event
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		h.BadRequest(c, "Invalid payment record ID format")
		return
	}

	// The refund reason is optional and so is the body itself
	var req saleapp.RefundPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	resp, err := h.paymentService.RefundItemPayment(c.Request.Context(), recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ProcessPayment settles a whole sale with one or more methods at once
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req saleapp.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.ProcessPaymentWithMethods(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
