package sale

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lanchonete/backend/internal/domain/catalog"
	"github.com/lanchonete/backend/internal/domain/sale"
	"github.com/lanchonete/backend/internal/domain/shared"
	"github.com/lanchonete/backend/internal/domain/shared/valueobject"
)

// SaleService handles the sale lifecycle: registration, discount changes and
// imperative status overrides.
type SaleService struct {
	saleRepo   sale.Repository
	catalog    catalog.Reader
	classifier *catalog.BeverageClassifier
	eventBus   shared.EventPublisher
	clock      shared.Clock
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sale.Repository,
	catalogReader catalog.Reader,
	classifier *catalog.BeverageClassifier,
	eventBus shared.EventPublisher,
	clock shared.Clock,
) *SaleService {
	return &SaleService{
		saleRepo:   saleRepo,
		catalog:    catalogReader,
		classifier: classifier,
		eventBus:   eventBus,
		clock:      clock,
	}
}

// Create registers a sale with its items atomically. Each item is resolved
// against the catalog and classified as food or beverage exactly once; the
// tag rides with the item from then on.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	inputs := make([]sale.NewItemInput, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.catalog.ProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeValidation, "Product not found: "+line.ProductID.String())
			}
			return nil, err
		}

		categoryName := ""
		if product.CategoryID != uuid.Nil {
			category, err := s.catalog.CategoryByID(ctx, product.CategoryID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if category != nil {
				categoryName = category.Name
			}
		}

		kind := sale.KindFood
		if s.classifier.IsBeverage(product.Name, categoryName) {
			kind = sale.KindBeverage
		}

		inputs = append(inputs, sale.NewItemInput{
			ProductID:   product.ID,
			ProductName: product.Name,
			Kind:        kind,
			UnitPrice:   valueobject.NewMoneyBRL(line.UnitPrice),
			Quantity:    line.Quantity,
		})
	}

	newSale, err := sale.NewSale(inputs, req.Discount, req.CustomerID, req.Notes, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, newSale); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, newSale)

	response := ToSaleResponse(newSale)
	return &response, nil
}

// GetByID retrieves a full sale with items, payments and production state
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	loaded, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(loaded)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sale_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["date_to"] = *filter.DateTo
	}

	sales, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleListResponses(sales), total, nil
}

// UpdateDiscount replaces the discount and recomputes the total
func (s *SaleService) UpdateDiscount(ctx context.Context, saleID uuid.UUID, req UpdateDiscountRequest) (*SaleResponse, error) {
	loaded, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := loaded.UpdateDiscount(req.Discount, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, loaded); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, loaded)

	response := ToSaleResponse(loaded)
	return &response, nil
}

// SetStatus applies an imperative status override (pendente, paga, cancelada)
func (s *SaleService) SetStatus(ctx context.Context, saleID uuid.UUID, req SetStatusRequest) (*SaleResponse, error) {
	loaded, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := loaded.SetStatus(sale.SaleStatus(req.Status), s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, loaded); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, loaded)

	response := ToSaleResponse(loaded)
	return &response, nil
}

// publishEvents flushes the aggregate's pending events to the bus. Publish
// failures are swallowed: the state change is already durable.
func (s *SaleService) publishEvents(ctx context.Context, aggregate *sale.Sale) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}
