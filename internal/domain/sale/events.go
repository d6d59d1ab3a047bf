package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanchonete/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated        = "SaleCreated"
	EventTypeSaleStatusChanged  = "SaleStatusChanged"
	EventTypeItemPaid           = "ItemPaid"
	EventTypePaymentRefunded    = "PaymentRefunded"
	EventTypeSaleSettled        = "SaleSettled"
	EventTypeProductionStarted  = "ProductionStarted"
	EventTypeProductionComplete = "ProductionCompleted"
	EventTypeItemDelivered      = "ItemDelivered"
	EventTypeProductionReverted = "ProductionReverted"
)

// SaleCreatedEvent is raised when a new sale is created with its items
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID    uuid.UUID       `json:"sale_id"`
	Total     decimal.Decimal `json:"total"`
	Discount  decimal.Decimal `json:"discount"`
	ItemCount int             `json:"item_count"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale, now time.Time) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID, now),
		SaleID:          s.ID,
		Total:           s.Total,
		Discount:        s.Discount,
		ItemCount:       len(s.Items),
	}
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return EventTypeSaleCreated
}

// SaleStatusChangedEvent is raised whenever the aggregate status moves,
// whether derived from item payments or set imperatively
type SaleStatusChangedEvent struct {
	shared.BaseDomainEvent
	SaleID         uuid.UUID  `json:"sale_id"`
	PreviousStatus SaleStatus `json:"previous_status"`
	NewStatus      SaleStatus `json:"new_status"`
}

// NewSaleStatusChangedEvent creates a new SaleStatusChangedEvent
func NewSaleStatusChangedEvent(s *Sale, previous SaleStatus, now time.Time) *SaleStatusChangedEvent {
	return &SaleStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleStatusChanged, AggregateTypeSale, s.ID, now),
		SaleID:          s.ID,
		PreviousStatus:  previous,
		NewStatus:       s.Status,
	}
}

// EventType returns the event type name
func (e *SaleStatusChangedEvent) EventType() string {
	return EventTypeSaleStatusChanged
}

// ItemPaidEvent is raised when a payment event is recorded against an item
type ItemPaidEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID         `json:"sale_id"`
	SaleItemID    uuid.UUID         `json:"sale_item_id"`
	RecordID      uuid.UUID         `json:"record_id"`
	Method        PaymentMethod     `json:"method"`
	Amount        decimal.Decimal   `json:"amount"`
	PaymentStatus ItemPaymentStatus `json:"payment_status"`
	SaleStatus    SaleStatus        `json:"sale_status"`
}

// NewItemPaidEvent creates a new ItemPaidEvent
func NewItemPaidEvent(s *Sale, item *SaleItem, record *PaymentRecord, now time.Time) *ItemPaidEvent {
	return &ItemPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemPaid, AggregateTypeSale, s.ID, now),
		SaleID:          s.ID,
		SaleItemID:      item.ID,
		RecordID:        record.ID,
		Method:          record.Method,
		Amount:          record.Amount,
		PaymentStatus:   item.PaymentStatus,
		SaleStatus:      s.Status,
	}
}

// EventType returns the event type name
func (e *ItemPaidEvent) EventType() string {
	return EventTypeItemPaid
}

// PaymentRefundedEvent is raised when a payment event is reversed and removed
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	SaleID         uuid.UUID       `json:"sale_id"`
	SaleItemID     uuid.UUID       `json:"sale_item_id"`
	RecordID       uuid.UUID       `json:"record_id"`
	Method         PaymentMethod   `json:"method"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Reason         string          `json:"reason"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent
func NewPaymentRefundedEvent(s *Sale, item *SaleItem, record *PaymentRecord, reason string, now time.Time) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, AggregateTypeSale, s.ID, now),
		SaleID:          s.ID,
		SaleItemID:      item.ID,
		RecordID:        record.ID,
		Method:          record.Method,
		RefundedAmount:  record.Amount,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *PaymentRefundedEvent) EventType() string {
	return EventTypePaymentRefunded
}

// SaleSettledEvent is raised when a whole sale is paid in one settlement
type SaleSettledEvent struct {
	shared.BaseDomainEvent
	SaleID         uuid.UUID       `json:"sale_id"`
	DominantMethod PaymentMethod   `json:"dominant_method"`
	Total          decimal.Decimal `json:"total"`
	MethodCount    int             `json:"method_count"`
}

// NewSaleSettledEvent creates a new SaleSettledEvent
func NewSaleSettledEvent(s *Sale, records []PaymentRecord, now time.Time) *SaleSettledEvent {
	return &SaleSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleSettled, AggregateTypeSale, s.ID, now),
		SaleID:          s.ID,
		DominantMethod:  s.PaymentMethod,
		Total:           s.Total,
		MethodCount:     len(records),
	}
}

// EventType returns the event type name
func (e *SaleSettledEvent) EventType() string {
	return EventTypeSaleSettled
}

// productionEvent carries the fields every kitchen transition event shares
type productionEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID `json:"sale_id"`
	SaleItemID  uuid.UUID `json:"sale_item_id"`
	ProductName string    `json:"product_name"`
}

func newProductionEvent(eventType string, s *Sale, item *SaleItem, now time.Time) productionEvent {
	return productionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSale, s.ID, now),
		SaleID:          s.ID,
		SaleItemID:      item.ID,
		ProductName:     item.ProductName,
	}
}

// ProductionStartedEvent is raised when kitchen production begins for an item
type ProductionStartedEvent struct{ productionEvent }

// NewProductionStartedEvent creates a new ProductionStartedEvent
func NewProductionStartedEvent(s *Sale, item *SaleItem, now time.Time) *ProductionStartedEvent {
	return &ProductionStartedEvent{newProductionEvent(EventTypeProductionStarted, s, item, now)}
}

// EventType returns the event type name
func (e *ProductionStartedEvent) EventType() string {
	return EventTypeProductionStarted
}

// ProductionCompletedEvent is raised when an item finishes production
type ProductionCompletedEvent struct{ productionEvent }

// NewProductionCompletedEvent creates a new ProductionCompletedEvent
func NewProductionCompletedEvent(s *Sale, item *SaleItem, now time.Time) *ProductionCompletedEvent {
	return &ProductionCompletedEvent{newProductionEvent(EventTypeProductionComplete, s, item, now)}
}

// EventType returns the event type name
func (e *ProductionCompletedEvent) EventType() string {
	return EventTypeProductionComplete
}

// ItemDeliveredEvent is raised when an item is handed to the customer
type ItemDeliveredEvent struct{ productionEvent }

// NewItemDeliveredEvent creates a new ItemDeliveredEvent
func NewItemDeliveredEvent(s *Sale, item *SaleItem, now time.Time) *ItemDeliveredEvent {
	return &ItemDeliveredEvent{newProductionEvent(EventTypeItemDelivered, s, item, now)}
}

// EventType returns the event type name
func (e *ItemDeliveredEvent) EventType() string {
	return EventTypeItemDelivered
}

// ProductionRevertedEvent is raised when an operator rewinds an item's stage
type ProductionRevertedEvent struct {
	productionEvent
	Target ProductionStatus `json:"target"`
}

// NewProductionRevertedEvent creates a new ProductionRevertedEvent
func NewProductionRevertedEvent(s *Sale, item *SaleItem, target ProductionStatus, now time.Time) *ProductionRevertedEvent {
	return &ProductionRevertedEvent{
		productionEvent: newProductionEvent(EventTypeProductionReverted, s, item, now),
		Target:          target,
	}
}

// EventType returns the event type name
func (e *ProductionRevertedEvent) EventType() string {
	return EventTypeProductionReverted
}
