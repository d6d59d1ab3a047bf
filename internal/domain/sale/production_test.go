package sale

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanchonete/backend/internal/domain/shared"
)

func assertInvalidTransition(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidTransition, domainErr.Code)
}

func TestSale_StartProduction(t *testing.T) {
	t.Run("creates the production record on first start", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		cook := uuid.New()

		require.NoError(t, s.StartProduction(s.Items[0].ID, &cook, testNow))

		require.Len(t, s.Production, 1)
		record := s.Production[0]
		assert.Equal(t, ProductionInProgress, record.Status)
		assert.Equal(t, &cook, record.StartedBy)
		require.NotNil(t, record.StartedAt)
		assert.Equal(t, testNow, *record.StartedAt)
	})

	t.Run("double start is lenient and reassigns the cook", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		first := uuid.New()
		second := uuid.New()
		later := testNow.Add(5 * time.Minute)

		require.NoError(t, s.StartProduction(s.Items[0].ID, &first, testNow))
		require.NoError(t, s.StartProduction(s.Items[0].ID, &second, later))

		require.Len(t, s.Production, 1, "restart reuses the existing record")
		assert.Equal(t, &second, s.Production[0].StartedBy)
		assert.Equal(t, later, *s.Production[0].StartedAt)
	})

	t.Run("fails for unknown item", func(t *testing.T) {
		s := createTestSale(t)
		err := s.StartProduction(uuid.New(), nil, testNow)
		require.Error(t, err)
	})
}

func TestSale_CompleteProduction(t *testing.T) {
	t.Run("moves a started item to concluido", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID
		cook := uuid.New()
		later := testNow.Add(10 * time.Minute)

		require.NoError(t, s.StartProduction(itemID, &cook, testNow))
		require.NoError(t, s.CompleteProduction(itemID, &cook, later))

		record := s.Production[0]
		assert.Equal(t, ProductionDone, record.Status)
		assert.Equal(t, &cook, record.CompletedBy)
		assert.Equal(t, later, *record.CompletedAt)
		assert.Equal(t, testNow, *record.StartedAt, "start stamp survives completion")
	})

	t.Run("fails when production was never started", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		assertInvalidTransition(t, s.CompleteProduction(s.Items[0].ID, nil, testNow))
	})

	t.Run("fails when the item is already concluido", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID
		require.NoError(t, s.StartProduction(itemID, nil, testNow))
		require.NoError(t, s.CompleteProduction(itemID, nil, testNow))

		assertInvalidTransition(t, s.CompleteProduction(itemID, nil, testNow))
	})
}

func TestSale_DeliverItem(t *testing.T) {
	t.Run("delivers a concluido food item", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID
		require.NoError(t, s.StartProduction(itemID, nil, testNow))
		require.NoError(t, s.CompleteProduction(itemID, nil, testNow))

		require.NoError(t, s.DeliverItem(itemID, testNow))

		record := s.Production[0]
		assert.Equal(t, ProductionDelivered, record.Status)
		require.NotNil(t, record.DeliveredAt)
	})

	t.Run("fails for a food item that never entered the kitchen", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		assertInvalidTransition(t, s.DeliverItem(s.Items[0].ID, testNow))
	})

	t.Run("fails for a food item still em_producao", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID
		require.NoError(t, s.StartProduction(itemID, nil, testNow))
		assertInvalidTransition(t, s.DeliverItem(itemID, testNow))
	})

	t.Run("fails for an already delivered food item", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID
		require.NoError(t, s.StartProduction(itemID, nil, testNow))
		require.NoError(t, s.CompleteProduction(itemID, nil, testNow))
		require.NoError(t, s.DeliverItem(itemID, testNow))

		assertInvalidTransition(t, s.DeliverItem(itemID, testNow))
	})

	t.Run("beverage skips the kitchen and delivers in one call", func(t *testing.T) {
		s := createTestSale(t,
			itemInput("X-Salada", KindFood, 8.50, 1),
			itemInput("Refrigerante Lata", KindBeverage, 5.00, 1),
		)
		beverageID := s.Items[1].ID
		require.Empty(t, s.Production)

		require.NoError(t, s.DeliverItem(beverageID, testNow))

		require.Len(t, s.Production, 1)
		record := s.Production[0]
		assert.Equal(t, beverageID, record.SaleItemID)
		assert.Equal(t, ProductionDelivered, record.Status)
		assert.Nil(t, record.StartedAt)
		assert.Nil(t, record.CompletedAt)
		require.NotNil(t, record.DeliveredAt)
	})

	t.Run("delivering a beverage twice is idempotent", func(t *testing.T) {
		s := createTestSale(t, itemInput("Suco de Laranja", KindBeverage, 6.00, 1))
		itemID := s.Items[0].ID
		later := testNow.Add(time.Minute)

		require.NoError(t, s.DeliverItem(itemID, testNow))
		require.NoError(t, s.DeliverItem(itemID, later))

		assert.Equal(t, ProductionDelivered, s.Production[0].Status)
		assert.Equal(t, later, *s.Production[0].DeliveredAt)
	})

	t.Run("beverage may still go through the kitchen explicitly", func(t *testing.T) {
		s := createTestSale(t, itemInput("Suco de Laranja", KindBeverage, 6.00, 1))
		itemID := s.Items[0].ID

		require.NoError(t, s.StartProduction(itemID, nil, testNow))
		assertInvalidTransition(t, s.DeliverItem(itemID, testNow))
	})
}

func TestSale_RevertProduction(t *testing.T) {
	t.Run("revert to pendente clears every stamp", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID
		cook := uuid.New()
		require.NoError(t, s.StartProduction(itemID, &cook, testNow))
		require.NoError(t, s.CompleteProduction(itemID, &cook, testNow))
		require.NoError(t, s.DeliverItem(itemID, testNow))

		require.NoError(t, s.RevertProduction(itemID, ProductionPending, testNow))

		record := s.Production[0]
		assert.Equal(t, ProductionPending, record.Status)
		assert.Nil(t, record.StartedBy)
		assert.Nil(t, record.StartedAt)
		assert.Nil(t, record.CompletedBy)
		assert.Nil(t, record.CompletedAt)
		assert.Nil(t, record.DeliveredAt)
	})

	t.Run("revert to em_producao keeps the start stamp", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID
		cook := uuid.New()
		require.NoError(t, s.StartProduction(itemID, &cook, testNow))
		require.NoError(t, s.CompleteProduction(itemID, &cook, testNow))

		require.NoError(t, s.RevertProduction(itemID, ProductionInProgress, testNow))

		record := s.Production[0]
		assert.Equal(t, ProductionInProgress, record.Status)
		assert.NotNil(t, record.StartedAt)
		assert.Nil(t, record.CompletedAt)
	})

	t.Run("revert may also move forward, unconditionally", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		itemID := s.Items[0].ID

		require.NoError(t, s.RevertProduction(itemID, ProductionDone, testNow))
		assert.Equal(t, ProductionDone, s.EffectiveProductionStatus(itemID))
	})

	t.Run("rejects an unknown target status", func(t *testing.T) {
		s := createTestSale(t, itemInput("X-Salada", KindFood, 8.50, 1))
		err := s.RevertProduction(s.Items[0].ID, ProductionStatus("queimado"), testNow)
		require.Error(t, err)
	})
}

func TestSale_EffectiveProductionStatus(t *testing.T) {
	s := createTestSale(t,
		itemInput("X-Salada", KindFood, 8.50, 1),
		itemInput("Refrigerante Lata", KindBeverage, 5.00, 1),
	)
	foodID := s.Items[0].ID
	beverageID := s.Items[1].ID

	t.Run("food without record is pendente", func(t *testing.T) {
		assert.Equal(t, ProductionPending, s.EffectiveProductionStatus(foodID))
	})

	t.Run("beverage without record is concluido", func(t *testing.T) {
		assert.Equal(t, ProductionDone, s.EffectiveProductionStatus(beverageID))
	})

	t.Run("an explicit record wins over the beverage default", func(t *testing.T) {
		require.NoError(t, s.StartProduction(beverageID, nil, testNow))
		assert.Equal(t, ProductionInProgress, s.EffectiveProductionStatus(beverageID))
	})
}

func TestSale_HasUndeliveredItems(t *testing.T) {
	s := createTestSale(t,
		itemInput("X-Salada", KindFood, 8.50, 1),
		itemInput("Refrigerante Lata", KindBeverage, 5.00, 1),
	)
	foodID := s.Items[0].ID
	beverageID := s.Items[1].ID

	assert.True(t, s.HasUndeliveredItems())

	require.NoError(t, s.StartProduction(foodID, nil, testNow))
	require.NoError(t, s.CompleteProduction(foodID, nil, testNow))
	require.NoError(t, s.DeliverItem(foodID, testNow))
	assert.True(t, s.HasUndeliveredItems(), "beverage defaults to concluido, not entregue")

	require.NoError(t, s.DeliverItem(beverageID, testNow))
	assert.False(t, s.HasUndeliveredItems())
}
