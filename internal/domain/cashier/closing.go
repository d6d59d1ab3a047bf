package cashier

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// MethodTotals holds one monetary figure per recognized payment method
type MethodTotals struct {
	Money  decimal.Decimal `json:"money"`
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
	Pix    decimal.Decimal `json:"pix"`
}

// Sum returns the total over the four tracked methods
func (t MethodTotals) Sum() decimal.Decimal {
	return t.Money.Add(t.Credit).Add(t.Debit).Add(t.Pix)
}

// Sub returns the per-method difference t - other
func (t MethodTotals) Sub(other MethodTotals) MethodTotals {
	return MethodTotals{
		Money:  t.Money.Sub(other.Money),
		Credit: t.Credit.Sub(other.Credit),
		Debit:  t.Debit.Sub(other.Debit),
		Pix:    t.Pix.Sub(other.Pix),
	}
}

// add accumulates an amount into the bucket for the given method and reports
// whether the method was recognized
func (t *MethodTotals) add(method sale.PaymentMethod, amount decimal.Decimal) bool {
	switch method {
	case sale.MethodMoney:
		t.Money = t.Money.Add(amount)
	case sale.MethodCredit:
		t.Credit = t.Credit.Add(amount)
	case sale.MethodDebit:
		t.Debit = t.Debit.Add(amount)
	case sale.MethodPix:
		t.Pix = t.Pix.Add(amount)
	default:
		return false
	}
	return true
}

// SoldTotalsFromRecords sums payment records into per-method sold figures.
// Records with an unrecognized method string contribute to the returned
// grand total but to none of the four buckets, so the amount is never
// dropped even when it cannot be attributed.
func SoldTotalsFromRecords(records []sale.PaymentRecord) (MethodTotals, decimal.Decimal) {
	var sold MethodTotals
	grandTotal := decimal.Zero
	for i := range records {
		grandTotal = grandTotal.Add(records[i].Amount)
		sold.add(records[i].Method, records[i].Amount)
	}
	return sold, grandTotal
}

// Closing is the immutable end-of-period cash register snapshot. It is
// created once per submission and never mutated afterwards; removal is a
// soft delete only.
type Closing struct {
	shared.BaseAggregateRoot
	OperatorID uuid.UUID
	Counted    MethodTotals `gorm:"embedded;embeddedPrefix:counted_"`
	Sold       MethodTotals `gorm:"embedded;embeddedPrefix:sold_"`
	Diff       MethodTotals `gorm:"embedded;embeddedPrefix:diff_"`
	// TotalSold includes amounts recorded under unrecognized methods;
	// TotalDiff covers exactly the four tracked methods.
	TotalSold decimal.Decimal
	TotalDiff decimal.Decimal
	Notes     string
	CloseDate time.Time
	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Closing) TableName() string {
	return "register_closings"
}

// NewClosing creates a closing snapshot, deriving the per-method diffs
// (counted - sold) and the total diff over the four tracked methods.
func NewClosing(operatorID uuid.UUID, counted, sold MethodTotals, totalSold decimal.Decimal, notes string, closeDate time.Time) (*Closing, error) {
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Operator is required")
	}

	diff := counted.Sub(sold)
	return &Closing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(closeDate),
		OperatorID:        operatorID,
		Counted:           counted,
		Sold:              sold,
		Diff:              diff,
		TotalSold:         totalSold,
		TotalDiff:         diff.Sum(),
		Notes:             notes,
		CloseDate:         closeDate,
	}, nil
}

// Aggregate type constant
const AggregateTypeClosing = "RegisterClosing"

// EventTypeRegisterClosed is raised when a closing snapshot is created
const EventTypeRegisterClosed = "RegisterClosed"

// RegisterClosedEvent is raised when a register closing is submitted
type RegisterClosedEvent struct {
	shared.BaseDomainEvent
	ClosingID  uuid.UUID       `json:"closing_id"`
	OperatorID uuid.UUID       `json:"operator_id"`
	TotalDiff  decimal.Decimal `json:"total_diff"`
}

// NewRegisterClosedEvent creates a new RegisterClosedEvent
func NewRegisterClosedEvent(c *Closing) *RegisterClosedEvent {
	return &RegisterClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegisterClosed, AggregateTypeClosing, c.ID, c.CloseDate),
		ClosingID:       c.ID,
		OperatorID:      c.OperatorID,
		TotalDiff:       c.TotalDiff,
	}
}

// EventType returns the event type name
func (e *RegisterClosedEvent) EventType() string {
	return EventTypeRegisterClosed
}
