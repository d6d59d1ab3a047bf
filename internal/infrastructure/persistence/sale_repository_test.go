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

	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
	"github.com/lanchonete/backend/internal/domain/shared/valueobject"
)

var repoTestNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func setupSaleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&sale.Sale{}, &sale.SaleItem{}, &sale.PaymentRecord{}, &sale.ProductionRecord{})
	require.NoError(t, err)

	return db
}

func newTestSale(t *testing.T, inputs ...sale.NewItemInput) *sale.Sale {
	t.Helper()
	if len(inputs) == 0 {
		inputs = []sale.NewItemInput{{
			ProductID:   uuid.New(),
			ProductName: "X-Salada",
			Kind:        sale.KindFood,
			UnitPrice:   valueobject.NewMoneyBRLFromFloat(8.50),
			Quantity:    1,
		}}
	}
	s, err := sale.NewSale(inputs, decimal.Zero, nil, "", repoTestNow)
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func itemInput(name string, kind sale.ItemKind, price float64, qty int) sale.NewItemInput {
	return sale.NewItemInput{
		ProductID:   uuid.New(),
		ProductName: name,
		Kind:        kind,
		UnitPrice:   valueobject.NewMoneyBRLFromFloat(price),
		Quantity:    qty,
	}
}

func TestGormSaleRepository_SaveAndFindByID(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	t.Run("saves a new sale with its items", func(t *testing.T) {
		s := newTestSale(t,
			itemInput("X-Burger", sale.KindFood, 10.00, 2),
			itemInput("Suco de Laranja", sale.KindBeverage, 6.00, 1),
		)

		err := repo.Save(ctx, s)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, found.ID)
		assert.Equal(t, sale.SaleStatusPending, found.Status)
		assert.True(t, found.Total.Equal(decimal.NewFromFloat(26.00)))
		assert.Len(t, found.Items, 2)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("returns ErrNotFound for unknown sale", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormSaleRepository_FindByItemID(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	s := newTestSale(t)
	require.NoError(t, repo.Save(ctx, s))

	t.Run("finds the owning sale", func(t *testing.T) {
		found, err := repo.FindByItemID(ctx, s.Items[0].ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, found.ID)
		assert.Len(t, found.Items, 1)
	})

	t.Run("returns ErrNotFound for unknown item", func(t *testing.T) {
		found, err := repo.FindByItemID(ctx, uuid.New())
		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormSaleRepository_FindByPaymentRecordID(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	s := newTestSale(t)
	_, err := s.PayItem(s.Items[0].ID, sale.MethodPix, decimal.NewFromFloat(8.50), "", repoTestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByPaymentRecordID(ctx, s.Payments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
	assert.Len(t, found.Payments, 1)
	assert.Equal(t, sale.SaleStatusPaid, found.Status)
}

func TestGormSaleRepository_SaveWithLock(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	t.Run("bumps the version on success", func(t *testing.T) {
		s := newTestSale(t)
		require.NoError(t, repo.Save(ctx, s))

		loaded, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		_, err = loaded.PayItem(loaded.Items[0].ID, sale.MethodMoney, decimal.NewFromFloat(8.50), "", repoTestNow)
		require.NoError(t, err)

		err = repo.SaveWithLock(ctx, loaded)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Version)

		stored, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Version)
		assert.Equal(t, sale.SaleStatusPaid, stored.Status)
		assert.Len(t, stored.Payments, 1)
	})

	t.Run("rejects a stale aggregate", func(t *testing.T) {
		s := newTestSale(t)
		require.NoError(t, repo.Save(ctx, s))

		first, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)

		require.NoError(t, first.UpdateDiscount(decimal.NewFromFloat(1.00), repoTestNow))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.UpdateDiscount(decimal.NewFromFloat(2.00), repoTestNow))
		err = repo.SaveWithLock(ctx, second)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)

		stored, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, stored.Discount.Equal(decimal.NewFromFloat(1.00)))
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("removes refunded payment records", func(t *testing.T) {
		s := newTestSale(t)
		result, err := s.PayItem(s.Items[0].ID, sale.MethodCredit, decimal.NewFromFloat(8.50), "", repoTestNow)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, s))

		loaded, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		_, err = loaded.RefundPayment(result.Record.ID, "wrong item", repoTestNow)
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		stored, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Payments)
		assert.Equal(t, sale.SaleStatusPending, stored.Status)
		assert.True(t, stored.Items[0].AmountPaid.IsZero())
	})
}

func TestGormSaleRepository_FindAll(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	pending := newTestSale(t)
	require.NoError(t, repo.Save(ctx, pending))

	paid := newTestSale(t)
	_, err := paid.PayItem(paid.Items[0].ID, sale.MethodPix, decimal.NewFromFloat(8.50), "", repoTestNow)
	require.NoError(t, err)
	paid.SaleDate = repoTestNow.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, paid))

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = sale.SaleStatusPaid.String()

		sales, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, paid.ID, sales[0].ID)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("paginates newest first", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "sale_date"
		filter.PageSize = 1

		page1, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page1, 1)
		assert.Equal(t, paid.ID, page1[0].ID)

		filter.Page = 2
		page2, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, pending.ID, page2[0].ID)
	})

	t.Run("loads children on listings", func(t *testing.T) {
		sales, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		for _, s := range sales {
			assert.NotEmpty(t, s.Items)
		}
	})
}

func TestGormSaleRepository_FindWithOpenProduction(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	open := newTestSale(t, itemInput("Coxinha", sale.KindFood, 5.00, 1))
	require.NoError(t, repo.Save(ctx, open))

	delivered := newTestSale(t, itemInput("Pastel", sale.KindFood, 7.00, 1))
	require.NoError(t, delivered.StartProduction(delivered.Items[0].ID, nil, repoTestNow))
	require.NoError(t, delivered.CompleteProduction(delivered.Items[0].ID, nil, repoTestNow))
	require.NoError(t, delivered.DeliverItem(delivered.Items[0].ID, repoTestNow))
	require.NoError(t, repo.Save(ctx, delivered))

	// An undelivered beverage keeps the sale open even without kitchen work
	beverageOnly := newTestSale(t, itemInput("Guarana", sale.KindBeverage, 4.00, 1))
	require.NoError(t, repo.Save(ctx, beverageOnly))

	deliveredBeverage := newTestSale(t, itemInput("Suco de Uva", sale.KindBeverage, 4.50, 1))
	require.NoError(t, deliveredBeverage.DeliverItem(deliveredBeverage.Items[0].ID, repoTestNow))
	require.NoError(t, repo.Save(ctx, deliveredBeverage))

	cancelled := newTestSale(t, itemInput("Misto Quente", sale.KindFood, 6.00, 1))
	require.NoError(t, cancelled.SetStatus(sale.SaleStatusCancelled, repoTestNow))
	require.NoError(t, repo.Save(ctx, cancelled))

	sales, err := repo.FindWithOpenProduction(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)

	found := make(map[uuid.UUID]bool, len(sales))
	for i := range sales {
		found[sales[i].ID] = true
		assert.Len(t, sales[i].Items, 1)
	}
	assert.True(t, found[open.ID])
	assert.True(t, found[beverageOnly.ID])
}

func TestGormSaleRepository_RecordsForPeriod(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	inside := newTestSale(t)
	_, err := inside.PayItem(inside.Items[0].ID, sale.MethodMoney, decimal.NewFromFloat(8.50), "", repoTestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inside))

	// Paid but outside the window
	outside := newTestSale(t)
	_, err = outside.PayItem(outside.Items[0].ID, sale.MethodPix, decimal.NewFromFloat(8.50), "", repoTestNow)
	require.NoError(t, err)
	outside.SaleDate = repoTestNow.AddDate(0, 0, -3)
	require.NoError(t, repo.Save(ctx, outside))

	// Inside the window but not settled
	unsettled := newTestSale(t)
	_, err = unsettled.PayItem(unsettled.Items[0].ID, sale.MethodDebit, decimal.NewFromFloat(2.00), "", repoTestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, unsettled))

	start := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	records, err := repo.RecordsForPeriod(ctx, start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, inside.ID, records[0].SaleID)
	assert.Equal(t, sale.MethodMoney, records[0].Method)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromFloat(8.50)))
}
