package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lanchonete/backend/internal/domain/cashier"
	"github.com/lanchonete/backend/internal/domain/shared"
)

func setupClosingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&cashier.Closing{})
	require.NoError(t, err)

	return db
}

func newTestClosing(t *testing.T, closeDate time.Time) *cashier.Closing {
	t.Helper()
	counted := cashier.MethodTotals{
		Money:  decimal.NewFromFloat(100.00),
		Credit: decimal.NewFromFloat(25.50),
	}
	sold := cashier.MethodTotals{
		Money:  decimal.NewFromFloat(90.00),
		Credit: decimal.NewFromFloat(25.50),
	}
	c, err := cashier.NewClosing(uuid.New(), counted, sold, decimal.NewFromFloat(115.50), "", closeDate)
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestGormClosingRepository_SaveAndFind(t *testing.T) {
	db := setupClosingTestDB(t)
	repo := NewGormClosingRepository(db)
	ctx := context.Background()

	closeDate := time.Date(2026, 8, 28, 22, 15, 0, 0, time.UTC)

	t.Run("saves and reloads a closing", func(t *testing.T) {
		c := newTestClosing(t, closeDate)
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.OperatorID, found.OperatorID)
		assert.True(t, found.Counted.Money.Equal(decimal.NewFromFloat(100.00)))
		assert.True(t, found.Diff.Money.Equal(decimal.NewFromFloat(10.00)))
		assert.True(t, found.TotalDiff.Equal(decimal.NewFromFloat(10.00)))
		assert.True(t, found.TotalSold.Equal(decimal.NewFromFloat(115.50)))
	})

	t.Run("returns ErrNotFound for unknown closing", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormClosingRepository_FindByDate(t *testing.T) {
	db := setupClosingTestDB(t)
	repo := NewGormClosingRepository(db)
	ctx := context.Background()

	morning := newTestClosing(t, time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC))
	evening := newTestClosing(t, time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC))
	otherDay := newTestClosing(t, time.Date(2026, 8, 27, 22, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, morning))
	require.NoError(t, repo.Save(ctx, evening))
	require.NoError(t, repo.Save(ctx, otherDay))

	t.Run("returns the day's closings newest first", func(t *testing.T) {
		closings, err := repo.FindByDate(ctx, time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, closings, 2)
		assert.Equal(t, evening.ID, closings[0].ID)
		assert.Equal(t, morning.ID, closings[1].ID)
	})

	t.Run("reports existence per day", func(t *testing.T) {
		exists, err := repo.ExistsForDate(ctx, time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForDate(ctx, time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormClosingRepository_FindByRange(t *testing.T) {
	db := setupClosingTestDB(t)
	repo := NewGormClosingRepository(db)
	ctx := context.Background()

	first := newTestClosing(t, time.Date(2026, 8, 25, 22, 0, 0, 0, time.UTC))
	second := newTestClosing(t, time.Date(2026, 8, 26, 22, 0, 0, 0, time.UTC))
	outside := newTestClosing(t, time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, outside))

	start := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	closings, err := repo.FindByRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, closings, 2)
	assert.Equal(t, second.ID, closings[0].ID)
	assert.Equal(t, first.ID, closings[1].ID)
}

func TestGormClosingRepository_SoftDelete(t *testing.T) {
	db := setupClosingTestDB(t)
	repo := NewGormClosingRepository(db)
	ctx := context.Background()

	closeDate := time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC)
	c := newTestClosing(t, closeDate)
	require.NoError(t, repo.Save(ctx, c))

	t.Run("hides the closing from every read", func(t *testing.T) {
		err := repo.SoftDelete(ctx, c.ID, closeDate.Add(time.Hour))
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, c.ID)
		assert.Equal(t, shared.ErrNotFound, err)

		exists, err := repo.ExistsForDate(ctx, closeDate)
		require.NoError(t, err)
		assert.False(t, exists)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("deleting twice returns ErrNotFound", func(t *testing.T) {
		err := repo.SoftDelete(ctx, c.ID, closeDate.Add(2*time.Hour))
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("deleting an unknown closing returns ErrNotFound", func(t *testing.T) {
		err := repo.SoftDelete(ctx, uuid.New(), closeDate)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
