package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanchonete/backend/internal/domain/sale"
)

// CreateSaleItemRequest is one line of a new sale
type CreateSaleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
}

// CreateSaleRequest represents a request to register a sale with its items
type CreateSaleRequest struct {
	Items      []CreateSaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount   decimal.Decimal         `json:"discount"`
	CustomerID *uuid.UUID              `json:"customer_id"`
	Notes      string                  `json:"notes" binding:"max=500"`
}

// UpdateDiscountRequest represents a request to replace the sale discount
type UpdateDiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

// SetStatusRequest represents an imperative status override
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PayItemRequest represents a payment event against one sale item
type PayItemRequest struct {
	Method     string          `json:"method" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	PayerLabel string          `json:"payer_label" binding:"max=100"`
}

// PayItemsRequest spreads one tendered amount across several items of the
// same sale, proportionally to their outstanding balances
type PayItemsRequest struct {
	ItemIDs    []uuid.UUID     `json:"item_ids" binding:"required,min=1"`
	Method     string          `json:"method" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	PayerLabel string          `json:"payer_label" binding:"max=100"`
}

// RefundPaymentRequest represents a request to reverse one payment event
type RefundPaymentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// MethodAmountRequest is one method/amount pair of a settlement
type MethodAmountRequest struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ProcessPaymentRequest settles a whole sale with one or more methods
type ProcessPaymentRequest struct {
	Methods    []MethodAmountRequest `json:"methods" binding:"required,min=1,dive"`
	PayerLabel string                `json:"payer_label" binding:"max=100"`
}

// StartProductionRequest carries the optional cook reference
type StartProductionRequest struct {
	OperatorID *uuid.UUID `json:"operator_id"`
}

// CompleteProductionRequest carries the optional cook reference
type CompleteProductionRequest struct {
	OperatorID *uuid.UUID `json:"operator_id"`
}

// RevertProductionRequest names the target stage to rewind (or push) to
type RevertProductionRequest struct {
	Target string `json:"target" binding:"required"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=pendente parcialmente_paga paga cancelada"`
	CustomerID *uuid.UUID `form:"customer_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleItemResponse represents a sale item in API responses
type SaleItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Kind             string          `json:"kind"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	PaymentStatus    string          `json:"payment_status"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	ProductionStatus string          `json:"production_status"`
}

// PaymentRecordResponse represents a payment event in API responses
type PaymentRecordResponse struct {
	ID         uuid.UUID       `json:"id"`
	SaleItemID *uuid.UUID      `json:"sale_item_id,omitempty"`
	Method     string          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	PayerLabel string          `json:"payer_label,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SaleResponse represents a full sale in API responses
type SaleResponse struct {
	ID            uuid.UUID               `json:"id"`
	Items         []SaleItemResponse      `json:"items"`
	Payments      []PaymentRecordResponse `json:"payments"`
	Total         decimal.Decimal         `json:"total"`
	Discount      decimal.Decimal         `json:"discount"`
	PaymentMethod string                  `json:"payment_method,omitempty"`
	Status        string                  `json:"status"`
	SaleDate      time.Time               `json:"sale_date"`
	CustomerID    *uuid.UUID              `json:"customer_id,omitempty"`
	Notes         string                  `json:"notes,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Version       int                     `json:"version"`
}

// SaleListResponse represents a list item for sales
type SaleListResponse struct {
	ID            uuid.UUID       `json:"id"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Status        string          `json:"status"`
	SaleDate      time.Time       `json:"sale_date"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	ItemCount     int             `json:"item_count"`
}

// PayItemResponse reports the derived state after a per-item payment
type PayItemResponse struct {
	Record        PaymentRecordResponse `json:"record"`
	PaymentStatus string                `json:"payment_status"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	SaleStatus    string                `json:"sale_status"`
}

// PayItemsResponse reports the per-item allocations of a spread payment
type PayItemsResponse struct {
	Allocations []PayItemResponse `json:"allocations"`
	SaleStatus  string            `json:"sale_status"`
}

// RefundPaymentResponse reports the derived state after a refund
type RefundPaymentResponse struct {
	PaymentStatus  string          `json:"payment_status"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	SaleStatus     string          `json:"sale_status"`
}

// ProcessPaymentResponse reports the outcome of a whole-sale settlement
type ProcessPaymentResponse struct {
	SaleStatus string                  `json:"sale_status"`
	Method     string                  `json:"method"`
	Records    []PaymentRecordResponse `json:"records"`
}

// KitchenQueueEntry is one undelivered item on the production read surface.
// Beverages carry their shortcut stage; CategoryName is display data and may
// be empty when the catalog entry is gone.
type KitchenQueueEntry struct {
	SaleID           uuid.UUID  `json:"sale_id"`
	SaleItemID       uuid.UUID  `json:"sale_item_id"`
	ProductName      string     `json:"product_name"`
	CategoryName     string     `json:"category_name,omitempty"`
	Quantity         int        `json:"quantity"`
	ProductionStatus string     `json:"production_status"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	SaleDate         time.Time  `json:"sale_date"`
	Notes            string     `json:"notes,omitempty"`
}

// ToSaleItemResponse converts a domain SaleItem to SaleItemResponse
func ToSaleItemResponse(s *sale.Sale, item *sale.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:               item.ID,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		Kind:             string(item.Kind),
		UnitPrice:        item.UnitPrice,
		Quantity:         item.Quantity,
		Subtotal:         item.Subtotal,
		PaymentStatus:    string(item.PaymentStatus),
		AmountPaid:       item.AmountPaid,
		ProductionStatus: string(s.EffectiveProductionStatus(item.ID)),
	}
}

// ToPaymentRecordResponse converts a domain PaymentRecord to its response
func ToPaymentRecordResponse(r *sale.PaymentRecord) PaymentRecordResponse {
	return PaymentRecordResponse{
		ID:         r.ID,
		SaleItemID: r.SaleItemID,
		Method:     string(r.Method),
		Amount:     r.Amount,
		PayerLabel: r.PayerLabel,
		CreatedAt:  r.CreatedAt,
	}
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *sale.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i := range s.Items {
		items[i] = ToSaleItemResponse(s, &s.Items[i])
	}
	payments := make([]PaymentRecordResponse, len(s.Payments))
	for i := range s.Payments {
		payments[i] = ToPaymentRecordResponse(&s.Payments[i])
	}
	return SaleResponse{
		ID:            s.ID,
		Items:         items,
		Payments:      payments,
		Total:         s.Total,
		Discount:      s.Discount,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		SaleDate:      s.SaleDate,
		CustomerID:    s.CustomerID,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Version:       s.Version,
	}
}

// ToSaleListResponse converts a domain Sale to SaleListResponse
func ToSaleListResponse(s *sale.Sale) SaleListResponse {
	return SaleListResponse{
		ID:            s.ID,
		Total:         s.Total,
		Discount:      s.Discount,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		SaleDate:      s.SaleDate,
		CustomerID:    s.CustomerID,
		ItemCount:     len(s.Items),
	}
}

// ToSaleListResponses converts a slice of domain Sales to SaleListResponses
func ToSaleListResponses(sales []sale.Sale) []SaleListResponse {
	responses := make([]SaleListResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleListResponse(&sales[i])
	}
	return responses
}
