package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lanchonete/backend/internal/domain/shared"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&productRow{}, &categoryRow{}, &operatorRow{})
	require.NoError(t, err)

	return db
}

func TestGormCatalogLookup(t *testing.T) {
	db := setupCatalogTestDB(t)
	lookup := NewGormCatalogLookup(db)
	ctx := context.Background()

	categoryID := uuid.New()
	productID := uuid.New()
	operatorID := uuid.New()
	require.NoError(t, db.Create(&categoryRow{ID: categoryID, Name: "Bebidas"}).Error)
	require.NoError(t, db.Create(&productRow{ID: productID, Name: "Suco de Laranja", CategoryID: categoryID}).Error)
	require.NoError(t, db.Create(&operatorRow{ID: operatorID, Name: "Maria"}).Error)

	t.Run("resolves a product", func(t *testing.T) {
		product, err := lookup.ProductByID(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, "Suco de Laranja", product.Name)
		assert.Equal(t, categoryID, product.CategoryID)
	})

	t.Run("resolves a category", func(t *testing.T) {
		category, err := lookup.CategoryByID(ctx, categoryID)
		require.NoError(t, err)
		assert.Equal(t, "Bebidas", category.Name)
	})

	t.Run("resolves an operator", func(t *testing.T) {
		operator, err := lookup.OperatorByID(ctx, operatorID)
		require.NoError(t, err)
		assert.Equal(t, "Maria", operator.Name)
	})

	t.Run("returns ErrNotFound for unknown ids", func(t *testing.T) {
		_, err := lookup.ProductByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)

		_, err = lookup.CategoryByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)

		_, err = lookup.OperatorByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
