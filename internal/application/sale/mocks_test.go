package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// MockSaleRepository is a mock implementation of sale.Repository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*sale.Sale, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByPaymentRecordID(ctx context.Context, recordID uuid.UUID) (*sale.Sale, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) FindWithOpenProduction(ctx context.Context) ([]sale.Sale, error) {
	args := m.Called(ctx)
	return args.Get(0).([]sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, s *sale.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockCatalogReader is a mock implementation of catalog.Reader
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) ProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalogReader) CategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// Test fixtures

var serviceTestNow = time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)

func serviceTestClock() shared.Clock {
	return shared.FixedClock{Instant: serviceTestNow}
}

// relaxedPublisher returns an event publisher that accepts anything
func relaxedPublisher() *MockEventPublisher {
	bus := new(MockEventPublisher)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return bus
}
