package cashier

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanchonete/backend/internal/domain/cashier"
)

// MethodTotalsRequest carries the counted drawer figures per method
type MethodTotalsRequest struct {
	Money  decimal.Decimal `json:"money"`
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
	Pix    decimal.Decimal `json:"pix"`
}

// CloseRegisterRequest represents an end-of-period closing submission
type CloseRegisterRequest struct {
	OperatorID uuid.UUID           `json:"operator_id" binding:"required"`
	Counted    MethodTotalsRequest `json:"counted"`
	Notes      string              `json:"notes" binding:"max=500"`
	// CloseDate defaults to the current instant when omitted
	CloseDate *time.Time `json:"close_date"`
}

// MethodTotalsResponse mirrors the per-method figures in API responses
type MethodTotalsResponse struct {
	Money  decimal.Decimal `json:"money"`
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
	Pix    decimal.Decimal `json:"pix"`
}

// ClosingResponse represents a register closing in API responses
type ClosingResponse struct {
	ID           uuid.UUID            `json:"id"`
	OperatorID   uuid.UUID            `json:"operator_id"`
	OperatorName string               `json:"operator_name,omitempty"`
	Counted      MethodTotalsResponse `json:"counted"`
	Sold         MethodTotalsResponse `json:"sold"`
	Diff         MethodTotalsResponse `json:"diff"`
	TotalSold    decimal.Decimal      `json:"total_sold"`
	TotalDiff    decimal.Decimal      `json:"total_diff"`
	Notes        string               `json:"notes,omitempty"`
	CloseDate    time.Time            `json:"close_date"`
	CreatedAt    time.Time            `json:"created_at"`
}

func toMethodTotalsResponse(t cashier.MethodTotals) MethodTotalsResponse {
	return MethodTotalsResponse{Money: t.Money, Credit: t.Credit, Debit: t.Debit, Pix: t.Pix}
}

// ToClosingResponse converts a domain Closing to ClosingResponse
func ToClosingResponse(c *cashier.Closing, operatorName string) ClosingResponse {
	return ClosingResponse{
		ID:           c.ID,
		OperatorID:   c.OperatorID,
		OperatorName: operatorName,
		Counted:      toMethodTotalsResponse(c.Counted),
		Sold:         toMethodTotalsResponse(c.Sold),
		Diff:         toMethodTotalsResponse(c.Diff),
		TotalSold:    c.TotalSold,
		TotalDiff:    c.TotalDiff,
		Notes:        c.Notes,
		CloseDate:    c.CloseDate,
		CreatedAt:    c.CreatedAt,
	}
}
