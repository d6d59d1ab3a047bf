package cashier

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lanchonete/backend/internal/domain/cashier"
	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// ClosingPolicy tunes reconciliation behavior
type ClosingPolicy struct {
	// AllowMultiplePerDay permits more than one closing on the same calendar
	// day, e.g. for shift changes. When false a second submission for an
	// already-closed day is rejected.
	AllowMultiplePerDay bool
}

// ClosingService handles end-of-period cash register reconciliation. A
// closing compares what the operator counted in the drawer against what the
// payment ledger says was sold, per method, and freezes the result.
type ClosingService struct {
	closingRepo cashier.Repository
	ledger      sale.PaymentLedger
	operators   catalog.OperatorDirectory
	eventBus    shared.EventPublisher
	clock       shared.Clock
	policy      ClosingPolicy
}

// NewClosingService creates a new ClosingService
func NewClosingService(
	closingRepo cashier.Repository,
	ledger sale.PaymentLedger,
	operators catalog.OperatorDirectory,
	eventBus shared.EventPublisher,
	clock shared.Clock,
	policy ClosingPolicy,
) *ClosingService {
	return &ClosingService{
		closingRepo: closingRepo,
		ledger:      ledger,
		operators:   operators,
		eventBus:    eventBus,
		clock:       clock,
		policy:      policy,
	}
}

// Close snapshots the register for the day of the close date. The sold side
// is computed from the payment records of settled sales inside that day, per
// method; the per-method differences and their total are derived and stored
// immutably.
func (s *ClosingService) Close(ctx context.Context, req CloseRegisterRequest) (*ClosingResponse, error) {
	operator, err := s.operators.OperatorByID(ctx, req.OperatorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeValidation, "Operator not found")
		}
		return nil, err
	}

	closeDate := s.clock.Now()
	if req.CloseDate != nil {
		closeDate = *req.CloseDate
	}

	if !s.policy.AllowMultiplePerDay {
		exists, err := s.closingRepo.ExistsForDate(ctx, closeDate)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Register already closed for this date")
		}
	}

	dayStart, dayEnd := dayBounds(closeDate)
	records, err := s.ledger.RecordsForPeriod(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	sold, totalSold := cashier.SoldTotalsFromRecords(records)

	counted := cashier.MethodTotals{
		Money:  req.Counted.Money,
		Credit: req.Counted.Credit,
		Debit:  req.Counted.Debit,
		Pix:    req.Counted.Pix,
	}

	closing, err := cashier.NewClosing(req.OperatorID, counted, sold, totalSold, req.Notes, closeDate)
	if err != nil {
		return nil, err
	}
	if err := s.closingRepo.Save(ctx, closing); err != nil {
		return nil, err
	}
	_ = s.eventBus.Publish(ctx, cashier.NewRegisterClosedEvent(closing))

	response := ToClosingResponse(closing, operator.Name)
	return &response, nil
}

// GetByID retrieves one closing snapshot
func (s *ClosingService) GetByID(ctx context.Context, id uuid.UUID) (*ClosingResponse, error) {
	closing, err := s.closingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClosingResponse(closing, s.operatorName(ctx, closing.OperatorID))
	return &response, nil
}

// GetByDate lists the closings of one calendar day, newest first
func (s *ClosingService) GetByDate(ctx context.Context, date time.Time) ([]ClosingResponse, error) {
	closings, err := s.closingRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, closings), nil
}

// ListByRange lists closings with closeDate within [start, end), newest first
func (s *ClosingService) ListByRange(ctx context.Context, start, end time.Time) ([]ClosingResponse, error) {
	if !start.Before(end) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Start date must be before end date")
	}
	closings, err := s.closingRepo.FindByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, closings), nil
}

// ListAll lists every closing, newest first
func (s *ClosingService) ListAll(ctx context.Context) ([]ClosingResponse, error) {
	closings, err := s.closingRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, closings), nil
}

// Delete soft-deletes a closing; the row stays for audit
func (s *ClosingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.closingRepo.SoftDelete(ctx, id, s.clock.Now())
}

func (s *ClosingService) toResponses(ctx context.Context, closings []cashier.Closing) []ClosingResponse {
	responses := make([]ClosingResponse, len(closings))
	for i := range closings {
		responses[i] = ToClosingResponse(&closings[i], s.operatorName(ctx, closings[i].OperatorID))
	}
	return responses
}

// operatorName resolves the operator label for display, empty on any failure
func (s *ClosingService) operatorName(ctx context.Context, id uuid.UUID) string {
	operator, err := s.operators.OperatorByID(ctx, id)
	if err != nil || operator == nil {
		return ""
	}
	return operator.Name
}

// dayBounds returns the [start, end) window of the calendar day containing t
func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
