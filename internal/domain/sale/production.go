package sale

import (
	"time"

	"github.com/google/uuid"
)

// ProductionRecord tracks the kitchen fulfillment of exactly one sale item.
// Records are created lazily on the first kitchen action; absence reads as
// pendente, or concluido for beverage items.
type ProductionRecord struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	SaleItemID  uuid.UUID
	Status      ProductionStatus
	StartedBy   *uuid.UUID
	StartedAt   *time.Time
	CompletedBy *uuid.UUID
	CompletedAt *time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// newProductionRecord creates a record for the given item at the given stage
func newProductionRecord(saleID, itemID uuid.UUID, status ProductionStatus, now time.Time) *ProductionRecord {
	return &ProductionRecord{
		ID:         uuid.New(),
		SaleID:     saleID,
		SaleItemID: itemID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// clearStampsBeyond drops actor/timestamp fields that belong to stages past
// the given one. Used by revert so a record never carries stamps its status
// does not imply.
func (r *ProductionRecord) clearStampsBeyond(status ProductionStatus) {
	rank := status.rank()
	if rank < ProductionInProgress.rank() {
		r.StartedBy = nil
		r.StartedAt = nil
	}
	if rank < ProductionDone.rank() {
		r.CompletedBy = nil
		r.CompletedAt = nil
	}
	if rank < ProductionDelivered.rank() {
		r.DeliveredAt = nil
	}
}

// TableName returns the table name for GORM
func (ProductionRecord) TableName() string {
	return "production_records"
}
