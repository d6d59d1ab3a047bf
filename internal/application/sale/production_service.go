package sale

import (
	"context"

	"github.com/google/uuid"

	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
)

// ProductionService drives the kitchen state machine of sale items
type ProductionService struct {
	saleRepo sale.Repository
	catalog  catalog.Reader
	eventBus shared.EventPublisher
	clock    shared.Clock
}

// NewProductionService creates a new ProductionService
func NewProductionService(saleRepo sale.Repository, catalogReader catalog.Reader, eventBus shared.EventPublisher, clock shared.Clock) *ProductionService {
	return &ProductionService{
		saleRepo: saleRepo,
		catalog:  catalogReader,
		eventBus: eventBus,
		clock:    clock,
	}
}

// Start moves an item into em_producao, stamping the cook when provided
func (s *ProductionService) Start(ctx context.Context, itemID uuid.UUID, req StartProductionRequest) (*SaleItemResponse, error) {
	return s.transition(ctx, itemID, func(loaded *sale.Sale) error {
		return loaded.StartProduction(itemID, req.OperatorID, s.clock.Now())
	})
}

// Complete moves an item from em_producao to concluido
func (s *ProductionService) Complete(ctx context.Context, itemID uuid.UUID, req CompleteProductionRequest) (*SaleItemResponse, error) {
	return s.transition(ctx, itemID, func(loaded *sale.Sale) error {
		return loaded.CompleteProduction(itemID, req.OperatorID, s.clock.Now())
	})
}

// Deliver moves an item from concluido to entregue. Beverages may be
// delivered directly, skipping the kitchen.
func (s *ProductionService) Deliver(ctx context.Context, itemID uuid.UUID) (*SaleItemResponse, error) {
	return s.transition(ctx, itemID, func(loaded *sale.Sale) error {
		return loaded.DeliverItem(itemID, s.clock.Now())
	})
}

// Revert overwrites an item's production stage unconditionally
func (s *ProductionService) Revert(ctx context.Context, itemID uuid.UUID, req RevertProductionRequest) (*SaleItemResponse, error) {
	return s.transition(ctx, itemID, func(loaded *sale.Sale) error {
		return loaded.RevertProduction(itemID, sale.ProductionStatus(req.Target), s.clock.Now())
	})
}

// transition applies one state-machine step to the owning aggregate and
// persists it under optimistic locking
func (s *ProductionService) transition(ctx context.Context, itemID uuid.UUID, apply func(*sale.Sale) error) (*SaleItemResponse, error) {
	loaded, err := s.saleRepo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := apply(loaded); err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, loaded); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, loaded)

	response := ToSaleItemResponse(loaded, loaded.GetItem(itemID))
	return &response, nil
}

// KitchenQueue lists every undelivered item across sales that still have
// open production, oldest sale first. Beverages appear with their shortcut
// stage concluido, ready to hand over without kitchen work.
func (s *ProductionService) KitchenQueue(ctx context.Context) ([]KitchenQueueEntry, error) {
	sales, err := s.saleRepo.FindWithOpenProduction(ctx)
	if err != nil {
		return nil, err
	}

	queue := make([]KitchenQueueEntry, 0)
	for i := range sales {
		loaded := &sales[i]
		if loaded.IsCancelled() {
			continue
		}
		for j := range loaded.Items {
			item := &loaded.Items[j]
			status := loaded.EffectiveProductionStatus(item.ID)
			if status == sale.ProductionDelivered {
				continue
			}
			entry := KitchenQueueEntry{
				SaleID:           loaded.ID,
				SaleItemID:       item.ID,
				ProductName:      item.ProductName,
				CategoryName:     s.categoryNameFor(ctx, item.ProductID),
				Quantity:         item.Quantity,
				ProductionStatus: string(status),
				SaleDate:         loaded.SaleDate,
				Notes:            loaded.Notes,
			}
			if record := findProductionRecord(loaded, item.ID); record != nil {
				entry.StartedAt = record.StartedAt
			}
			queue = append(queue, entry)
		}
	}
	return queue, nil
}

// categoryNameFor resolves the category display name through the cached
// catalog reader. A product or category gone from the catalog since the sale
// was taken leaves the field empty instead of failing the queue.
func (s *ProductionService) categoryNameFor(ctx context.Context, productID uuid.UUID) string {
	product, err := s.catalog.ProductByID(ctx, productID)
	if err != nil || product.CategoryID == uuid.Nil {
		return ""
	}
	category, err := s.catalog.CategoryByID(ctx, product.CategoryID)
	if err != nil {
		return ""
	}
	return category.Name
}

func findProductionRecord(s *sale.Sale, itemID uuid.UUID) *sale.ProductionRecord {
	for i := range s.Production {
		if s.Production[i].SaleItemID == itemID {
			return &s.Production[i]
		}
	}
	return nil
}

func (s *ProductionService) publishEvents(ctx context.Context, aggregate *sale.Sale) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}
