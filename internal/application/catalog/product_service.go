package catalog

import (
	"context"

	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()
}

// Create adds a new product to the catalog
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this code already exists")
	}

	price, err := valueobject.NewMoney(req.UnitPriceHT, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid unit price")
	}
	taxRate, err := valueobject.NewRate(req.TaxRate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tax rate must be between 0 and 1")
	}

	product, err := catalog.NewProduct(req.Code, req.Designation, price, taxRate)
	if err != nil {
		return nil, err
	}
	product.UpdateDescription(req.Description)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by its catalog code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ListFilter) (shared.Paginated[ProductResponse], error) {
	domainFilter := filter.toDomainFilter()

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update changes the catalog data of a product. Existing document lines keep
// their snapshotted values.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Designation != nil {
		if err := product.UpdateDesignation(*req.Designation); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		product.UpdateDescription(*req.Description)
	}
	if req.UnitPriceHT != nil || req.TaxRate != nil {
		price := product.UnitPriceHT
		if req.UnitPriceHT != nil {
			price, err = valueobject.NewMoney(*req.UnitPriceHT, valueobject.DefaultCurrency)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_INPUT", "Invalid unit price")
			}
		}
		taxRate := product.TaxRate
		if req.TaxRate != nil {
			taxRate, err = valueobject.NewRate(*req.TaxRate)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_INPUT", "Tax rate must be between 0 and 1")
			}
		}
		if err := product.ChangePrice(price, taxRate); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate removes the product from new documents without deleting it
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, id, false)
}

// Activate makes the product available again
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *ProductService) setActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog. Document lines that snapshotted
// it keep their frozen values.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
