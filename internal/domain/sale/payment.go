package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRecord is one append-only payment event. Per-item payments carry the
// item reference; whole-sale settlements leave it unset. A record is removed
// only as part of an explicit refund of that exact event.
type PaymentRecord struct {
	ID         uuid.UUID
	SaleID     uuid.UUID
	SaleItemID *uuid.UUID
	Method     PaymentMethod
	Amount     decimal.Decimal
	PayerLabel string
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// MethodAmount is one leg of a multi-method settlement
type MethodAmount struct {
	Method PaymentMethod
	Amount decimal.Decimal
}

// AllocateProportionally splits a tendered amount across item subtotals by
// each item's share, rounding every allocation to cents. Any rounding
// remainder is absorbed by the last element so the allocations always sum to
// the tendered amount exactly.
func AllocateProportionally(subtotals []decimal.Decimal, tendered decimal.Decimal) []decimal.Decimal {
	if len(subtotals) == 0 {
		return nil
	}

	total := decimal.Zero
	for _, s := range subtotals {
		total = total.Add(s)
	}

	allocations := make([]decimal.Decimal, len(subtotals))
	if total.LessThanOrEqual(decimal.Zero) {
		// Degenerate basket: everything lands on the last item.
		for i := range allocations {
			allocations[i] = decimal.Zero
		}
		allocations[len(allocations)-1] = tendered
		return allocations
	}

	allocated := decimal.Zero
	for i, s := range subtotals {
		if i == len(subtotals)-1 {
			allocations[i] = tendered.Sub(allocated)
			break
		}
		share := tendered.Mul(s).Div(total).Round(2)
		allocations[i] = share
		allocated = allocated.Add(share)
	}
	return allocations
}
