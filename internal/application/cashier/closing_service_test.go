package cashier

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lanchonete/backend/internal/domain/cashier"
	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// MockClosingRepository is a mock implementation of cashier.Repository
type MockClosingRepository struct {
	mock.Mock
}

func (m *MockClosingRepository) Save(ctx context.Context, c *cashier.Closing) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClosingRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.Closing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.Closing), args.Error(1)
}

func (m *MockClosingRepository) FindByDate(ctx context.Context, date time.Time) ([]cashier.Closing, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]cashier.Closing), args.Error(1)
}

func (m *MockClosingRepository) FindByRange(ctx context.Context, start, end time.Time) ([]cashier.Closing, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]cashier.Closing), args.Error(1)
}

func (m *MockClosingRepository) FindAll(ctx context.Context) ([]cashier.Closing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]cashier.Closing), args.Error(1)
}

func (m *MockClosingRepository) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockClosingRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockPaymentLedger is a mock implementation of sale.PaymentLedger
type MockPaymentLedger struct {
	mock.Mock
}

func (m *MockPaymentLedger) RecordsForPeriod(ctx context.Context, start, end time.Time) ([]sale.PaymentRecord, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]sale.PaymentRecord), args.Error(1)
}

// MockOperatorDirectory is a mock implementation of catalog.OperatorDirectory
type MockOperatorDirectory struct {
	mock.Mock
}

func (m *MockOperatorDirectory) OperatorByID(ctx context.Context, id uuid.UUID) (*catalog.Operator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Operator), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var closingTestNow = time.Date(2026, 8, 28, 22, 15, 0, 0, time.UTC)

type closingServiceFixture struct {
	repo      *MockClosingRepository
	ledger    *MockPaymentLedger
	operators *MockOperatorDirectory
	service   *ClosingService
}

func newClosingFixture(policy ClosingPolicy) *closingServiceFixture {
	bus := new(MockEventPublisher)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	f := &closingServiceFixture{
		repo:      new(MockClosingRepository),
		ledger:    new(MockPaymentLedger),
		operators: new(MockOperatorDirectory),
	}
	f.service = NewClosingService(f.repo, f.ledger, f.operators,
		bus, shared.FixedClock{Instant: closingTestNow}, policy)
	return f
}

func (f *closingServiceFixture) expectOperator(id uuid.UUID, name string) {
	f.operators.On("OperatorByID", mock.Anything, id).Return(&catalog.Operator{ID: id, Name: name}, nil)
}

func paymentRecord(method sale.PaymentMethod, amount float64) sale.PaymentRecord {
	return sale.PaymentRecord{ID: uuid.New(), Method: method, Amount: decimal.NewFromFloat(amount)}
}

func TestClosingService_Close_Success(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()
	operatorID := uuid.New()
	f.expectOperator(operatorID, "Maria")

	dayStart := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	f.ledger.On("RecordsForPeriod", ctx, dayStart, dayEnd).Return([]sale.PaymentRecord{
		paymentRecord(sale.MethodMoney, 50.00),
		paymentRecord(sale.MethodMoney, 40.00),
		paymentRecord(sale.MethodPix, 25.50),
	}, nil)
	f.repo.On("Save", ctx, mock.AnythingOfType("*cashier.Closing")).Return(nil)

	result, err := f.service.Close(ctx, CloseRegisterRequest{
		OperatorID: operatorID,
		Counted: MethodTotalsRequest{
			Money: decimal.NewFromFloat(100.00),
			Pix:   decimal.NewFromFloat(25.50),
		},
		Notes: "fechamento da noite",
	})

	require.NoError(t, err)
	assert.Equal(t, "Maria", result.OperatorName)
	assert.True(t, result.Sold.Money.Equal(decimal.NewFromFloat(90.00)))
	assert.True(t, result.Diff.Money.Equal(decimal.NewFromFloat(10.00)), "drawer surplus")
	assert.True(t, result.Diff.Pix.IsZero())
	assert.True(t, result.TotalDiff.Equal(decimal.NewFromFloat(10.00)))
	assert.True(t, result.TotalSold.Equal(decimal.NewFromFloat(115.50)))
	assert.Equal(t, closingTestNow, result.CloseDate)
	f.repo.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestClosingService_Close_UnattributedMethodKeepsGrandTotal(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()
	operatorID := uuid.New()
	f.expectOperator(operatorID, "Maria")

	f.ledger.On("RecordsForPeriod", ctx, mock.Anything, mock.Anything).Return([]sale.PaymentRecord{
		paymentRecord(sale.MethodMoney, 30.00),
		paymentRecord(sale.PaymentMethod("vale_refeicao"), 12.00),
	}, nil)
	f.repo.On("Save", ctx, mock.AnythingOfType("*cashier.Closing")).Return(nil)

	result, err := f.service.Close(ctx, CloseRegisterRequest{OperatorID: operatorID})

	require.NoError(t, err)
	assert.True(t, result.Sold.Money.Equal(decimal.NewFromFloat(30.00)))
	assert.True(t, result.TotalSold.Equal(decimal.NewFromFloat(42.00)))
}

func TestClosingService_Close_RejectsSecondClosingWhenDisallowed(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: false})
	ctx := context.Background()
	operatorID := uuid.New()
	f.expectOperator(operatorID, "Maria")
	f.repo.On("ExistsForDate", ctx, closingTestNow).Return(true, nil)

	_, err := f.service.Close(ctx, CloseRegisterRequest{OperatorID: operatorID})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeAlreadyExists, domainErr.Code)
	f.repo.AssertNotCalled(t, "Save")
}

func TestClosingService_Close_UnknownOperator(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()
	operatorID := uuid.New()
	f.operators.On("OperatorByID", mock.Anything, operatorID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Close(ctx, CloseRegisterRequest{OperatorID: operatorID})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestClosingService_Close_ExplicitCloseDate(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()
	operatorID := uuid.New()
	f.expectOperator(operatorID, "Maria")

	closeDate := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	f.ledger.On("RecordsForPeriod", ctx, dayStart, dayStart.AddDate(0, 0, 1)).
		Return([]sale.PaymentRecord{}, nil)
	f.repo.On("Save", ctx, mock.AnythingOfType("*cashier.Closing")).Return(nil)

	result, err := f.service.Close(ctx, CloseRegisterRequest{OperatorID: operatorID, CloseDate: &closeDate})

	require.NoError(t, err)
	assert.Equal(t, closeDate, result.CloseDate)
	f.ledger.AssertExpectations(t)
}

func TestClosingService_ListByRange(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()
	operatorID := uuid.New()
	f.expectOperator(operatorID, "Maria")

	closing, err := cashier.NewClosing(operatorID,
		cashier.MethodTotals{Money: decimal.NewFromFloat(100)},
		cashier.MethodTotals{Money: decimal.NewFromFloat(100)},
		decimal.NewFromFloat(100), "", closingTestNow)
	require.NoError(t, err)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	f.repo.On("FindByRange", ctx, start, end).Return([]cashier.Closing{*closing}, nil)

	results, err := f.service.ListByRange(ctx, start, end)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Maria", results[0].OperatorName)
	assert.True(t, results[0].TotalDiff.IsZero())
}

func TestClosingService_ListByRange_InvertedBounds(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()

	_, err := f.service.ListByRange(ctx, closingTestNow, closingTestNow.Add(-time.Hour))
	require.Error(t, err)
}

func TestClosingService_GetByDate(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()
	operatorID := uuid.New()
	f.expectOperator(operatorID, "Maria")

	closing, err := cashier.NewClosing(operatorID,
		cashier.MethodTotals{}, cashier.MethodTotals{}, decimal.Zero, "", closingTestNow)
	require.NoError(t, err)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	f.repo.On("FindByDate", ctx, date).Return([]cashier.Closing{*closing}, nil)

	results, err := f.service.GetByDate(ctx, date)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestClosingService_Delete(t *testing.T) {
	f := newClosingFixture(ClosingPolicy{AllowMultiplePerDay: true})
	ctx := context.Background()
	id := uuid.New()
	f.repo.On("SoftDelete", ctx, id, closingTestNow).Return(nil)

	require.NoError(t, f.service.Delete(ctx, id))
	f.repo.AssertExpectations(t)
}
