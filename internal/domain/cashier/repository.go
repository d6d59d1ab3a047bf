package cashier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for register closings.
// Closings are write-once; there is no update path.
type Repository interface {
	// Save persists a new closing
	Save(ctx context.Context, c *Closing) error

	// FindByID finds a closing by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Closing, error)

	// FindByDate finds the closings whose closeDate falls on the given day,
	// newest first
	FindByDate(ctx context.Context, date time.Time) ([]Closing, error)

	// FindByRange finds closings with closeDate within [start, end), newest
	// first
	FindByRange(ctx context.Context, start, end time.Time) ([]Closing, error)

	// FindAll lists all closings, newest first
	FindAll(ctx context.Context) ([]Closing, error)

	// ExistsForDate reports whether any closing exists for the given day
	ExistsForDate(ctx context.Context, date time.Time) (bool, error)

	// SoftDelete marks a closing as deleted without removing the row
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}
