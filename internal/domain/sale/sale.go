package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanchonete/backend/internal/domain/shared"
	"github.com/lanchonete/backend/internal/domain/shared/valueobject"
)

// Sale is the aggregate root for one customer transaction. It owns the line
// items, their production records and every payment event, so all derived
// status recomputation happens inside a single consistency boundary.
// Concurrent writers are serialized through optimistic locking on Version.
type Sale struct {
	shared.BaseAggregateRoot
	Items         []SaleItem         `gorm:"foreignKey:SaleID"`
	Payments      []PaymentRecord    `gorm:"foreignKey:SaleID"`
	Production    []ProductionRecord `gorm:"foreignKey:SaleID"`
	Total         decimal.Decimal
	Discount      decimal.Decimal
	PaymentMethod PaymentMethod // dominant method label, set on settlement
	Status        SaleStatus
	SaleDate      time.Time
	CustomerID    *uuid.UUID
	Notes         string
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewItemInput describes one line of a sale at creation time
type NewItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Kind        ItemKind
	UnitPrice   valueobject.Money
	Quantity    int
}

// NewSale creates a sale together with its items, atomically. The total is
// the item subtotal sum minus the discount and must not be negative.
func NewSale(inputs []NewItemInput, discount decimal.Decimal, customerID *uuid.UUID, notes string, now time.Time) (*Sale, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Sale requires at least one item")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Discount cannot be negative")
	}

	s := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Items:             make([]SaleItem, 0, len(inputs)),
		Payments:          make([]PaymentRecord, 0),
		Production:        make([]ProductionRecord, 0),
		Discount:          discount,
		Status:            SaleStatusPending,
		SaleDate:          now,
		CustomerID:        customerID,
		Notes:             notes,
	}

	subtotal := decimal.Zero
	for _, in := range inputs {
		item, err := NewSaleItem(s.ID, in.ProductID, in.ProductName, in.Kind, in.UnitPrice, in.Quantity, now)
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, *item)
		subtotal = subtotal.Add(item.Subtotal)
	}

	s.Total = subtotal.Sub(discount)
	if s.Total.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Discount cannot exceed the items subtotal")
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s, now))
	return s, nil
}

// UpdateDiscount replaces the discount and recomputes the total from the
// current item subtotals, never from a cached figure.
func (s *Sale) UpdateDiscount(discount decimal.Decimal, now time.Time) error {
	if discount.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Discount cannot be negative")
	}

	subtotal := decimal.Zero
	for i := range s.Items {
		subtotal = subtotal.Add(s.Items[i].Subtotal)
	}
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Discount cannot exceed the items subtotal")
	}

	s.Discount = discount
	s.Total = total
	s.UpdatedAt = now
	return nil
}

// SetStatus is the imperative status override, independent of the derived
// payment mechanism. Only pendente, paga and cancelada may be set directly.
func (s *Sale) SetStatus(status SaleStatus, now time.Time) error {
	if !status.IsSettableDirectly() {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Status %q cannot be set directly", status))
	}
	previous := s.Status
	s.Status = status
	s.UpdatedAt = now
	if previous != status {
		s.AddDomainEvent(NewSaleStatusChangedEvent(s, previous, now))
	}
	return nil
}

// PayItemResult reports the state after a per-item payment
type PayItemResult struct {
	Record        *PaymentRecord
	PaymentStatus ItemPaymentStatus
	AmountPaid    decimal.Decimal
	SaleStatus    SaleStatus
}

// PayItem records a payment event against one item, re-derives the item's
// payment status and the aggregate sale status from all sibling items.
func (s *Sale) PayItem(itemID uuid.UUID, method PaymentMethod, amount decimal.Decimal, payerLabel string, now time.Time) (*PayItemResult, error) {
	item := s.itemByID(itemID)
	if item == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Sale item not found")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Unknown payment method %q", method))
	}

	if err := item.applyPayment(amount, now); err != nil {
		return nil, err
	}

	record := PaymentRecord{
		ID:         uuid.New(),
		SaleID:     s.ID,
		SaleItemID: &item.ID,
		Method:     method,
		Amount:     amount,
		PayerLabel: payerLabel,
		CreatedAt:  now,
	}
	s.Payments = append(s.Payments, record)

	previous := s.Status
	s.Status = RecomputeSaleStatus(s.Items)
	s.UpdatedAt = now

	s.AddDomainEvent(NewItemPaidEvent(s, item, &record, now))
	if previous != s.Status {
		s.AddDomainEvent(NewSaleStatusChangedEvent(s, previous, now))
	}

	return &PayItemResult{
		Record:        &s.Payments[len(s.Payments)-1],
		PaymentStatus: item.PaymentStatus,
		AmountPaid:    item.AmountPaid,
		SaleStatus:    s.Status,
	}, nil
}

// RefundResult reports the state after a refund
type RefundResult struct {
	PaymentStatus  ItemPaymentStatus
	AmountPaid     decimal.Decimal
	RefundedAmount decimal.Decimal
	SaleStatus     SaleStatus
}

// RefundPayment reverses one exact payment event: the item's paid total drops
// by the record amount (floored at zero), the record itself is deleted.
// Legacy rule kept on purpose: when any sibling remains unpaid after the
// refund the sale demotes straight to pendente instead of re-running the
// three-way derivation, so partial progress on siblings is not reflected.
func (s *Sale) RefundPayment(recordID uuid.UUID, reason string, now time.Time) (*RefundResult, error) {
	idx := s.paymentIndexByID(recordID)
	if idx < 0 {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Payment record not found")
	}
	record := s.Payments[idx]
	if record.SaleItemID == nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Only item payments can be refunded individually")
	}
	item := s.itemByID(*record.SaleItemID)
	if item == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Sale item not found")
	}

	item.revertPayment(record.Amount, now)
	s.Payments = append(s.Payments[:idx], s.Payments[idx+1:]...)

	previous := s.Status
	allPaid := true
	for i := range s.Items {
		if s.Items[i].PaymentStatus != ItemPaymentPaid {
			allPaid = false
			break
		}
	}
	if allPaid {
		s.Status = SaleStatusPaid
	} else {
		s.Status = SaleStatusPending
	}
	s.UpdatedAt = now

	s.AddDomainEvent(NewPaymentRefundedEvent(s, item, &record, reason, now))
	if previous != s.Status {
		s.AddDomainEvent(NewSaleStatusChangedEvent(s, previous, now))
	}

	return &RefundResult{
		PaymentStatus:  item.PaymentStatus,
		AmountPaid:     item.AmountPaid,
		RefundedAmount: record.Amount,
		SaleStatus:     s.Status,
	}, nil
}

// SettleResult reports the outcome of a multi-method settlement
type SettleResult struct {
	SaleStatus SaleStatus
	Method     PaymentMethod
	Records    []PaymentRecord
}

// Settle pays the whole sale with one or more methods at once. The amounts
// must sum to the sale total within the cent tolerance. The sale is marked
// paga and labeled with the dominant method: the one with the largest amount,
// first in input order on ties. Records carry no item reference.
func (s *Sale) Settle(methods []MethodAmount, payerLabel string, now time.Time) (*SettleResult, error) {
	if len(methods) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "At least one payment method is required")
	}

	sum := decimal.Zero
	for _, m := range methods {
		if !m.Method.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Unknown payment method %q", m.Method))
		}
		if m.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
		}
		sum = sum.Add(m.Amount)
	}
	if sum.Sub(s.Total).Abs().GreaterThan(valueobject.CentTolerance) {
		return nil, shared.NewDomainError(shared.CodeAmountMismatch,
			fmt.Sprintf("Payment methods sum to %s, sale total is %s", sum.StringFixed(2), s.Total.StringFixed(2)))
	}

	dominant := methods[0]
	for _, m := range methods[1:] {
		if m.Amount.GreaterThan(dominant.Amount) {
			dominant = m
		}
	}

	records := make([]PaymentRecord, 0, len(methods))
	for _, m := range methods {
		record := PaymentRecord{
			ID:         uuid.New(),
			SaleID:     s.ID,
			Method:     m.Method,
			Amount:     m.Amount,
			PayerLabel: payerLabel,
			CreatedAt:  now,
		}
		s.Payments = append(s.Payments, record)
		records = append(records, record)
	}

	previous := s.Status
	s.Status = SaleStatusPaid
	s.PaymentMethod = dominant.Method
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleSettledEvent(s, records, now))
	if previous != s.Status {
		s.AddDomainEvent(NewSaleStatusChangedEvent(s, previous, now))
	}

	return &SettleResult{
		SaleStatus: s.Status,
		Method:     dominant.Method,
		Records:    records,
	}, nil
}

// StartProduction moves an item into em_producao, creating its production
// record on first touch. Invoking it while already em_producao overwrites the
// start stamp; the legacy system allowed the double start and kitchens rely
// on it to reassign cooks.
func (s *Sale) StartProduction(itemID uuid.UUID, actor *uuid.UUID, now time.Time) error {
	item := s.itemByID(itemID)
	if item == nil {
		return shared.NewDomainError(shared.CodeNotFound, "Sale item not found")
	}

	record := s.productionFor(itemID)
	if record == nil {
		s.Production = append(s.Production, *newProductionRecord(s.ID, itemID, ProductionInProgress, now))
		record = &s.Production[len(s.Production)-1]
	}

	record.Status = ProductionInProgress
	record.StartedBy = actor
	startedAt := now
	record.StartedAt = &startedAt
	record.UpdatedAt = now
	s.UpdatedAt = now

	s.AddDomainEvent(NewProductionStartedEvent(s, item, now))
	return nil
}

// CompleteProduction moves an item from em_producao to concluido
func (s *Sale) CompleteProduction(itemID uuid.UUID, actor *uuid.UUID, now time.Time) error {
	item := s.itemByID(itemID)
	if item == nil {
		return shared.NewDomainError(shared.CodeNotFound, "Sale item not found")
	}
	record := s.productionFor(itemID)
	if record == nil || record.Status != ProductionInProgress {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Item is not in production")
	}

	record.Status = ProductionDone
	record.CompletedBy = actor
	completedAt := now
	record.CompletedAt = &completedAt
	record.UpdatedAt = now
	s.UpdatedAt = now

	s.AddDomainEvent(NewProductionCompletedEvent(s, item, now))
	return nil
}

// DeliverItem moves an item from concluido to entregue. Beverage items bypass
// the kitchen queue: with no production record a beverage gets one
// synthesized straight into concluido and delivered in the same call, and
// delivering an already-delivered beverage is idempotent.
func (s *Sale) DeliverItem(itemID uuid.UUID, now time.Time) error {
	item := s.itemByID(itemID)
	if item == nil {
		return shared.NewDomainError(shared.CodeNotFound, "Sale item not found")
	}

	record := s.productionFor(itemID)
	if record == nil {
		if !item.IsBeverage() {
			return shared.NewDomainError(shared.CodeInvalidTransition, "Item has not completed production")
		}
		s.Production = append(s.Production, *newProductionRecord(s.ID, itemID, ProductionDone, now))
		record = &s.Production[len(s.Production)-1]
	}

	switch {
	case record.Status == ProductionDone:
		// regular delivery
	case record.Status == ProductionDelivered && item.IsBeverage():
		// beverage delivery stays idempotent at entregue
	default:
		return shared.NewDomainError(shared.CodeInvalidTransition, "Item has not completed production")
	}

	record.Status = ProductionDelivered
	deliveredAt := now
	record.DeliveredAt = &deliveredAt
	record.UpdatedAt = now
	s.UpdatedAt = now

	s.AddDomainEvent(NewItemDeliveredEvent(s, item, now))
	return nil
}

// RevertProduction overwrites an item's production stage unconditionally and
// clears the actor/timestamp stamps of every stage at or beyond the target.
func (s *Sale) RevertProduction(itemID uuid.UUID, target ProductionStatus, now time.Time) error {
	item := s.itemByID(itemID)
	if item == nil {
		return shared.NewDomainError(shared.CodeNotFound, "Sale item not found")
	}
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Unknown production status %q", target))
	}

	record := s.productionFor(itemID)
	if record == nil {
		s.Production = append(s.Production, *newProductionRecord(s.ID, itemID, target, now))
		record = &s.Production[len(s.Production)-1]
	}

	record.Status = target
	record.clearStampsBeyond(target)
	record.UpdatedAt = now
	s.UpdatedAt = now

	s.AddDomainEvent(NewProductionRevertedEvent(s, item, target, now))
	return nil
}

// EffectiveProductionStatus resolves the display/transition stage of an item:
// record absence means pendente, or concluido for beverages, which skip the
// kitchen entirely.
func (s *Sale) EffectiveProductionStatus(itemID uuid.UUID) ProductionStatus {
	if record := s.productionFor(itemID); record != nil {
		return record.Status
	}
	if item := s.itemByID(itemID); item != nil && item.IsBeverage() {
		return ProductionDone
	}
	return ProductionPending
}

// HasUndeliveredItems reports whether any item still needs kitchen attention
func (s *Sale) HasUndeliveredItems() bool {
	for i := range s.Items {
		if s.EffectiveProductionStatus(s.Items[i].ID) != ProductionDelivered {
			return true
		}
	}
	return false
}

// GetItem returns an item by its ID, nil when absent
func (s *Sale) GetItem(itemID uuid.UUID) *SaleItem {
	return s.itemByID(itemID)
}

// GetPayment returns a payment record by its ID, nil when absent
func (s *Sale) GetPayment(recordID uuid.UUID) *PaymentRecord {
	if idx := s.paymentIndexByID(recordID); idx >= 0 {
		return &s.Payments[idx]
	}
	return nil
}

// IsCancelled returns true if the sale was cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

func (s *Sale) itemByID(itemID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

func (s *Sale) productionFor(itemID uuid.UUID) *ProductionRecord {
	for idx := range s.Production {
		if s.Production[idx].SaleItemID == itemID {
			return &s.Production[idx]
		}
	}
	return nil
}

func (s *Sale) paymentIndexByID(recordID uuid.UUID) int {
	for idx := range s.Payments {
		if s.Payments[idx].ID == recordID {
			return idx
		}
	}
	return -1
}
