package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cashierapp "github.com/lanchonete/backend/internal/application/cashier"
)

// CashierHandler handles the register closing API endpoints
type CashierHandler struct {
	BaseHandler
	closingService *cashierapp.ClosingService
}

// NewCashierHandler creates a new CashierHandler
func NewCashierHandler(closingService *cashierapp.ClosingService) *CashierHandler {
	return &CashierHandler{closingService: closingService}
}

// Close submits an end-of-period register closing
func (h *CashierHandler) Close(c *gin.Context) {
	var req cashierapp.CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.closingService.Close(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one closing snapshot
func (h *CashierHandler) GetByID(c *gin.Context) {
	closingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid closing ID format")
		return
	}

	resp, err := h.closingService.GetByID(c.Request.Context(), closingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns closings, optionally narrowed to a day or a date range.
// Accepted query shapes: none (all closings), date=YYYY-MM-DD, or
// start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *CashierHandler) List(c *gin.Context) {
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			h.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		resp, err := h.closingService.GetByDate(c.Request.Context(), day)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
		return
	}

	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr != "" || endStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			h.BadRequest(c, "Invalid start date format, expected YYYY-MM-DD")
			return
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			h.BadRequest(c, "Invalid end date format, expected YYYY-MM-DD")
			return
		}
		// The end day is inclusive on the wire
		resp, err := h.closingService.ListByRange(c.Request.Context(), start, end.AddDate(0, 0, 1))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
		return
	}

	resp, err := h.closingService.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete soft-deletes a closing snapshot
func (h *CashierHandler) Delete(c *gin.Context) {
	closingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid closing ID format")
		return
	}

	if err := h.closingService.Delete(c.Request.Context(), closingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
