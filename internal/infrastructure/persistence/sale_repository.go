package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// GormSaleRepository implements sale.Repository and sale.PaymentLedger using GORM.
// Every load returns the complete aggregate; every save writes root and
// children in one transaction.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GORM-based sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by ID with all children loaded
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var s sale.Sale
	err := r.withChildren(r.db.WithContext(ctx)).First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}
	return &s, nil
}

// FindByItemID finds the sale owning the given sale item
func (r *GormSaleRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*sale.Sale, error) {
	owner := r.db.Model(&sale.SaleItem{}).Select("sale_id").Where("id = ?", itemID)

	var s sale.Sale
	err := r.withChildren(r.db.WithContext(ctx)).First(&s, "id = (?)", owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale by item: %w", err)
	}
	return &s, nil
}

// FindByPaymentRecordID finds the sale owning the given payment record
func (r *GormSaleRepository) FindByPaymentRecordID(ctx context.Context, recordID uuid.UUID) (*sale.Sale, error) {
	owner := r.db.Model(&sale.PaymentRecord{}).Select("sale_id").Where("id = ?", recordID)

	var s sale.Sale
	err := r.withChildren(r.db.WithContext(ctx)).First(&s, "id = (?)", owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale by payment record: %w", err)
	}
	return &s, nil
}

// FindAll finds sales with filtering and pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	query := r.applyFilters(r.db.WithContext(ctx).Model(&sale.Sale{}), filter)
	query = r.withChildren(query)

	query = query.Order(fmt.Sprintf("%s %s", r.orderColumn(filter.OrderBy), r.orderDirection(filter.OrderDir)))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var sales []sale.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to find sales: %w", err)
	}
	return sales, nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&sale.Sale{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}
	return count, nil
}

// FindWithOpenProduction finds non-cancelled sales that still have an item
// without a delivered production record. Undelivered beverages count: they
// only get their record synthesized at delivery.
func (r *GormSaleRepository) FindWithOpenProduction(ctx context.Context) ([]sale.Sale, error) {
	var sales []sale.Sale
	err := r.withChildren(r.db.WithContext(ctx)).
		Where("status <> ?", sale.SaleStatusCancelled).
		Where(`EXISTS (
			SELECT 1 FROM sale_items si
			WHERE si.sale_id = sales.id
			  AND NOT EXISTS (
				SELECT 1 FROM production_records pr
				WHERE pr.sale_item_id = si.id AND pr.status = ?
			  )
		)`, sale.ProductionDelivered).
		Order("sale_date asc").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sales with open production: %w", err)
	}
	return sales, nil
}

// Save creates or updates a sale with its children
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(s).Error
		if err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		return r.saveChildren(tx, s)
	})
}

// SaveWithLock saves the aggregate guarded by optimistic locking on the root
// version. The version bump happens here, not in the domain: the update only
// lands when the stored version still matches the loaded one, and the
// in-memory aggregate is advanced after commit.
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, s *sale.Sale) error {
	currentVersion := s.Version
	newVersion := currentVersion + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sale.Sale{}).
			Where("id = ? AND version = ?", s.ID, currentVersion).
			Updates(map[string]interface{}{
				"total":          s.Total,
				"discount":       s.Discount,
				"payment_method": s.PaymentMethod,
				"status":         s.Status,
				"sale_date":      s.SaleDate,
				"customer_id":    s.CustomerID,
				"notes":          s.Notes,
				"version":        newVersion,
				"updated_at":     s.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update sale: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.saveChildren(tx, s)
	})
	if err != nil {
		return err
	}

	s.Version = newVersion
	return nil
}

// RecordsForPeriod implements sale.PaymentLedger: every payment record of paga
// sales whose sale date falls within [start, end).
func (r *GormSaleRepository) RecordsForPeriod(ctx context.Context, start, end time.Time) ([]sale.PaymentRecord, error) {
	var records []sale.PaymentRecord
	err := r.db.WithContext(ctx).Model(&sale.PaymentRecord{}).
		Joins("JOIN sales ON sales.id = payment_records.sale_id").
		Where("sales.status = ?", sale.SaleStatusPaid).
		Where("sales.sale_date >= ? AND sales.sale_date < ?", start, end).
		Order("payment_records.created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load payment records: %w", err)
	}
	return records, nil
}

func (r *GormSaleRepository) withChildren(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Items").Preload("Payments").Preload("Production")
}

// saveChildren upserts items, payments and production records, then removes
// payment records no longer present in the aggregate. Refunds delete their
// record in memory; this is where the deletion reaches the database.
func (r *GormSaleRepository) saveChildren(tx *gorm.DB, s *sale.Sale) error {
	if len(s.Items) > 0 {
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s.Items).Error
		if err != nil {
			return fmt.Errorf("failed to save sale items: %w", err)
		}
	}
	if len(s.Production) > 0 {
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s.Production).Error
		if err != nil {
			return fmt.Errorf("failed to save production records: %w", err)
		}
	}
	if len(s.Payments) > 0 {
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s.Payments).Error
		if err != nil {
			return fmt.Errorf("failed to save payment records: %w", err)
		}
	}

	prune := tx.Where("sale_id = ?", s.ID)
	if len(s.Payments) > 0 {
		keep := make([]uuid.UUID, 0, len(s.Payments))
		for i := range s.Payments {
			keep = append(keep, s.Payments[i].ID)
		}
		prune = prune.Where("id NOT IN ?", keep)
	}
	if err := prune.Delete(&sale.PaymentRecord{}).Error; err != nil {
		return fmt.Errorf("failed to prune payment records: %w", err)
	}
	return nil
}

func (r *GormSaleRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if from, ok := filter.Filters["date_from"]; ok {
		query = query.Where("sale_date >= ?", from)
	}
	if to, ok := filter.Filters["date_to"]; ok {
		query = query.Where("sale_date < ?", to)
	}
	return query
}

func (r *GormSaleRepository) orderColumn(orderBy string) string {
	switch orderBy {
	case "sale_date", "created_at", "total", "status":
		return orderBy
	default:
		return "sale_date"
	}
}

func (r *GormSaleRepository) orderDirection(dir string) string {
	if dir == "asc" {
		return "asc"
	}
	return "desc"
}
