package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanchonete/backend/internal/domain/shared"
	"github.com/lanchonete/backend/internal/domain/shared/valueobject"
)

// SaleItem represents one product line within a sale with independently
// tracked payment progress. Subtotal is always UnitPrice * Quantity.
type SaleItem struct {
	ID            uuid.UUID
	SaleID        uuid.UUID
	ProductID     uuid.UUID
	ProductName   string // snapshot taken at sale creation
	Kind          ItemKind
	UnitPrice     decimal.Decimal
	Quantity      int
	Subtotal      decimal.Decimal
	PaymentStatus ItemPaymentStatus
	AmountPaid    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSaleItem creates a new sale item with payment state zeroed
func NewSaleItem(saleID, productID uuid.UUID, productName string, kind ItemKind, unitPrice valueobject.Money, quantity int, now time.Time) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit price cannot be negative")
	}
	if !kind.IsValid() {
		kind = KindFood
	}

	return &SaleItem{
		ID:            uuid.New(),
		SaleID:        saleID,
		ProductID:     productID,
		ProductName:   productName,
		Kind:          kind,
		UnitPrice:     unitPrice.Amount(),
		Quantity:      quantity,
		Subtotal:      unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		PaymentStatus: ItemPaymentPending,
		AmountPaid:    decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsBeverage reports whether the item bypasses the kitchen queue
func (i *SaleItem) IsBeverage() bool {
	return i.Kind == KindBeverage
}

// applyPayment adds amount to the item's paid total and re-derives its
// payment status. Fails when the new total would exceed the subtotal beyond
// the cent tolerance.
func (i *SaleItem) applyPayment(amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
	}
	newPaid := i.AmountPaid.Add(amount)
	if newPaid.GreaterThan(i.Subtotal.Add(valueobject.CentTolerance)) {
		return shared.NewDomainError(shared.CodeOverpayment, "Payment would exceed the item subtotal")
	}
	i.AmountPaid = newPaid
	i.PaymentStatus = derivePaymentStatus(i.AmountPaid, i.Subtotal)
	i.UpdatedAt = now
	return nil
}

// revertPayment subtracts amount from the item's paid total, flooring at
// zero, and re-derives its payment status.
func (i *SaleItem) revertPayment(amount decimal.Decimal, now time.Time) {
	newPaid := i.AmountPaid.Sub(amount)
	if newPaid.IsNegative() {
		newPaid = decimal.Zero
	}
	i.AmountPaid = newPaid
	i.PaymentStatus = derivePaymentStatus(i.AmountPaid, i.Subtotal)
	i.UpdatedAt = now
}

// derivePaymentStatus is the pure item-level settlement rule:
// pago when amountPaid >= subtotal - tolerance, parcial when some amount was
// paid below that mark, pendente when nothing effective was paid.
func derivePaymentStatus(amountPaid, subtotal decimal.Decimal) ItemPaymentStatus {
	switch {
	case amountPaid.GreaterThanOrEqual(subtotal.Sub(valueobject.CentTolerance)):
		return ItemPaymentPaid
	case amountPaid.GreaterThan(decimal.Zero):
		return ItemPaymentPartial
	default:
		return ItemPaymentPending
	}
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}
