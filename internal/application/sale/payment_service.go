package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// PaymentService handles payment events against sales: per-item payments,
// refunds and whole-sale settlements. Every mutation loads the owning sale
// aggregate and saves it under optimistic locking, so racing payments on the
// same sale surface as concurrency conflicts instead of lost updates.
type PaymentService struct {
	saleRepo sale.Repository
	eventBus shared.EventPublisher
	clock    shared.Clock
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(saleRepo sale.Repository, eventBus shared.EventPublisher, clock shared.Clock) *PaymentService {
	return &PaymentService{
		saleRepo: saleRepo,
		eventBus: eventBus,
		clock:    clock,
	}
}

// PayItem records a payment event against one item and re-derives the item
// and sale statuses
func (s *PaymentService) PayItem(ctx context.Context, itemID uuid.UUID, req PayItemRequest) (*PayItemResponse, error) {
	loaded, err := s.saleRepo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	result, err := loaded.PayItem(itemID, sale.PaymentMethod(req.Method), req.Amount, req.PayerLabel, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, loaded); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, loaded)

	return &PayItemResponse{
		Record:        ToPaymentRecordResponse(result.Record),
		PaymentStatus: string(result.PaymentStatus),
		AmountPaid:    result.AmountPaid,
		SaleStatus:    string(result.SaleStatus),
	}, nil
}

// PayItems spreads one tendered amount across the named items of a single
// sale, proportionally to each item's outstanding balance with the rounding
// remainder on the last item. All allocations apply atomically: one failing
// share aborts the whole spread.
func (s *PaymentService) PayItems(ctx context.Context, saleID uuid.UUID, req PayItemsRequest) (*PayItemsResponse, error) {
	loaded, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
	}

	outstanding := make([]decimal.Decimal, 0, len(req.ItemIDs))
	for _, itemID := range req.ItemIDs {
		item := loaded.GetItem(itemID)
		if item == nil {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Sale item not found: "+itemID.String())
		}
		outstanding = append(outstanding, item.Subtotal.Sub(item.AmountPaid))
	}

	allocations := sale.AllocateProportionally(outstanding, req.Amount)

	now := s.clock.Now()
	responses := make([]PayItemResponse, 0, len(req.ItemIDs))
	for i, itemID := range req.ItemIDs {
		if allocations[i].IsZero() {
			continue
		}
		result, err := loaded.PayItem(itemID, sale.PaymentMethod(req.Method), allocations[i], req.PayerLabel, now)
		if err != nil {
			return nil, err
		}
		responses = append(responses, PayItemResponse{
			Record:        ToPaymentRecordResponse(result.Record),
			PaymentStatus: string(result.PaymentStatus),
			AmountPaid:    result.AmountPaid,
			SaleStatus:    string(result.SaleStatus),
		})
	}

	if err := s.saleRepo.SaveWithLock(ctx, loaded); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, loaded)

	return &PayItemsResponse{
		Allocations: responses,
		SaleStatus:  string(loaded.Status),
	}, nil
}

// RefundItemPayment reverses one exact payment event by its record ID
func (s *PaymentService) RefundItemPayment(ctx context.Context, recordID uuid.UUID, req RefundPaymentRequest) (*RefundPaymentResponse, error) {
	loaded, err := s.saleRepo.FindByPaymentRecordID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	result, err := loaded.RefundPayment(recordID, req.Reason, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, loaded); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, loaded)

	return &RefundPaymentResponse{
		PaymentStatus:  string(result.PaymentStatus),
		AmountPaid:     result.AmountPaid,
		RefundedAmount: result.RefundedAmount,
		SaleStatus:     string(result.SaleStatus),
	}, nil
}

// ProcessPaymentWithMethods settles a whole sale with one or more methods at
// once; the amounts must cover the sale total within the cent tolerance
func (s *PaymentService) ProcessPaymentWithMethods(ctx context.Context, saleID uuid.UUID, req ProcessPaymentRequest) (*ProcessPaymentResponse, error) {
	loaded, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	methods := make([]sale.MethodAmount, len(req.Methods))
	for i, m := range req.Methods {
		methods[i] = sale.MethodAmount{Method: sale.PaymentMethod(m.Method), Amount: m.Amount}
	}

	result, err := loaded.Settle(methods, req.PayerLabel, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, loaded); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, loaded)

	records := make([]PaymentRecordResponse, len(result.Records))
	for i := range result.Records {
		records[i] = ToPaymentRecordResponse(&result.Records[i])
	}
	return &ProcessPaymentResponse{
		SaleStatus: string(result.SaleStatus),
		Method:     string(result.Method),
		Records:    records,
	}, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, aggregate *sale.Sale) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}
