package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// productRow, categoryRow and operatorRow map the tables owned by the catalog
// and staff subsystems. This package only ever reads them.
type productRow struct {
	ID         uuid.UUID
	Name       string
	CategoryID uuid.UUID
}

func (productRow) TableName() string { return "products" }

type categoryRow struct {
	ID   uuid.UUID
	Name string
}

func (categoryRow) TableName() string { return "categories" }

type operatorRow struct {
	ID   uuid.UUID
	Name string
}

func (operatorRow) TableName() string { return "operators" }

// GormCatalogLookup implements catalog.Reader and catalog.OperatorDirectory
// over the shared database
type GormCatalogLookup struct {
	db *gorm.DB
}

// NewGormCatalogLookup creates a new GORM-based catalog lookup
func NewGormCatalogLookup(db *gorm.DB) *GormCatalogLookup {
	return &GormCatalogLookup{db: db}
}

// ProductByID resolves a product by ID
func (l *GormCatalogLookup) ProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var row productRow
	err := l.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &catalog.Product{ID: row.ID, Name: row.Name, CategoryID: row.CategoryID}, nil
}

// CategoryByID resolves a category by ID
func (l *GormCatalogLookup) CategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var row categoryRow
	err := l.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &catalog.Category{ID: row.ID, Name: row.Name}, nil
}

// OperatorByID resolves an operator by ID
func (l *GormCatalogLookup) OperatorByID(ctx context.Context, id uuid.UUID) (*catalog.Operator, error) {
	var row operatorRow
	err := l.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find operator: %w", err)
	}
	return &catalog.Operator{ID: row.ID, Name: row.Name}, nil
}
