package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lanchonete/backend/internal/domain/cashier"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// GormClosingRepository implements cashier.Repository using GORM. Closings are
// write-once: rows are only ever inserted or soft-deleted.
type GormClosingRepository struct {
	db *gorm.DB
}

// NewGormClosingRepository creates a new GORM-based closing repository
func NewGormClosingRepository(db *gorm.DB) *GormClosingRepository {
	return &GormClosingRepository{db: db}
}

// Save persists a new closing
func (r *GormClosingRepository) Save(ctx context.Context, c *cashier.Closing) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to save closing: %w", err)
	}
	return nil
}

// FindByID finds a closing by ID, excluding soft-deleted rows
func (r *GormClosingRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.Closing, error) {
	var c cashier.Closing
	err := r.notDeleted(r.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find closing: %w", err)
	}
	return &c, nil
}

// FindByDate finds the closings whose close date falls on the given day,
// newest first
func (r *GormClosingRepository) FindByDate(ctx context.Context, date time.Time) ([]cashier.Closing, error) {
	start, end := dayBounds(date)
	return r.FindByRange(ctx, start, end)
}

// FindByRange finds closings with close date within [start, end), newest first
func (r *GormClosingRepository) FindByRange(ctx context.Context, start, end time.Time) ([]cashier.Closing, error) {
	var closings []cashier.Closing
	err := r.notDeleted(r.db.WithContext(ctx)).
		Where("close_date >= ? AND close_date < ?", start, end).
		Order("close_date desc").
		Find(&closings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find closings: %w", err)
	}
	return closings, nil
}

// FindAll lists all closings, newest first
func (r *GormClosingRepository) FindAll(ctx context.Context) ([]cashier.Closing, error) {
	var closings []cashier.Closing
	err := r.notDeleted(r.db.WithContext(ctx)).
		Order("close_date desc").
		Find(&closings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list closings: %w", err)
	}
	return closings, nil
}

// ExistsForDate reports whether any closing exists for the given day
func (r *GormClosingRepository) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	start, end := dayBounds(date)
	var count int64
	err := r.notDeleted(r.db.WithContext(ctx).Model(&cashier.Closing{})).
		Where("close_date >= ? AND close_date < ?", start, end).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check closings for date: %w", err)
	}
	return count > 0, nil
}

// SoftDelete marks a closing as deleted without removing the row
func (r *GormClosingRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&cashier.Closing{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to delete closing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormClosingRepository) notDeleted(tx *gorm.DB) *gorm.DB {
	return tx.Where("deleted_at IS NULL")
}

// dayBounds returns the [midnight, midnight+24h) window containing t, in t's
// location
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
