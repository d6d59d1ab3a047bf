package sale

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lanchonete/backend/internal/domain/shared"
)

// Repository defines the persistence interface for the Sale aggregate.
// Loads always return the full aggregate (items, payments, production) so
// every mutation happens inside the per-sale consistency boundary.
type Repository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByItemID finds the sale owning the given sale item
	FindByItemID(ctx context.Context, itemID uuid.UUID) (*Sale, error)

	// FindByPaymentRecordID finds the sale owning the given payment record
	FindByPaymentRecordID(ctx context.Context, recordID uuid.UUID) (*Sale, error)

	// FindAll finds sales with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindWithOpenProduction finds sales that still have undelivered items
	FindWithOpenProduction(ctx context.Context) ([]Sale, error)

	// Save creates or updates a sale with its children
	Save(ctx context.Context, s *Sale) error

	// SaveWithLock saves with optimistic locking; returns
	// shared.ErrConcurrencyConflict when the stored version diverged
	SaveWithLock(ctx context.Context, s *Sale) error
}

// PaymentLedger is the read side used by cash-register reconciliation: every
// payment record of paga sales whose saleDate falls within [start, end).
type PaymentLedger interface {
	RecordsForPeriod(ctx context.Context, start, end time.Time) ([]PaymentRecord, error)
}
