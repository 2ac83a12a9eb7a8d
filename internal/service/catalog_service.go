package service

import (
	"context"
	"strings"

	"cashierhub-api/internal/model"
	"cashierhub-api/internal/repository"
	"cashierhub-api/pkg/apperr"
	"cashierhub-api/pkg/database"
	"cashierhub-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Catalog events pushed over the websocket feed.
const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
)

var (
	ErrProductNotFound = apperr.NotFound("product not found")
	ErrProductCategory = apperr.Validation("category is required")
	ErrPriceTooLarge   = apperr.Validation("price is too large")

	productUniqueFields = []apperr.UniqueField{
		{Column: "code", Message: "product code already exists"},
	}
)

// EventPublisher delivers catalog change notifications. Publishing must not block.
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListProducts(ctx context.Context) ([]model.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductResponse, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch *model.ProductPatch) (*model.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CreateProductRequest accepts "type" as an alias of "category".
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"notblank"`
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Code     string          `json:"code" validate:"notblank,max=50"`
	Stock    int             `json:"stock" validate:"gte=0,lte=2147483647"`
	Price    decimal.Decimal `json:"price" validate:"dec_gte0"`
}

func (r *CreateProductRequest) categoryName() string {
	if name := strings.TrimSpace(r.Category); name != "" {
		return name
	}
	return strings.TrimSpace(r.Type)
}

type catalogService struct {
	tx           database.TxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	events       EventPublisher
	log          zerolog.Logger
}

func NewCatalogService(
	tx database.TxRunner,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	events EventPublisher,
	log zerolog.Logger,
) CatalogService {
	return &catalogService{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		events:       events,
		log:          log.With().Str("component", "catalog").Logger(),
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "category not found")
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, ErrProductNotFound.Message())
	}
	return model.ToProductResponses(products), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, ErrProductNotFound.Message())
	}
	resp := product.ToResponse()
	return &resp, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.ProductResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.Message(errs))
	}
	if !model.AmountInRange(req.Price) {
		return nil, ErrPriceTooLarge
	}
	categoryName := req.categoryName()
	if categoryName == "" {
		return nil, ErrProductCategory
	}

	product := &model.Product{
		Name:  strings.TrimSpace(req.Name),
		Code:  strings.TrimSpace(req.Code),
		Stock: req.Stock,
		Price: req.Price.Round(2),
	}
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		category, err := s.categoryRepo.FindOrCreate(tx, categoryName)
		if err != nil {
			return err
		}
		product.CategoryID = category.ID
		product.Category = category
		return s.productRepo.Create(tx, product)
	})
	if err != nil {
		return nil, apperr.FromStore(err, ErrProductNotFound.Message(), productUniqueFields...)
	}

	resp := product.ToResponse()
	s.publish(EventProductCreated, resp)
	s.log.Info().Str("product_id", product.ID.String()).Str("code", product.Code).Msg("product created")
	return &resp, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch *model.ProductPatch) (*model.ProductResponse, error) {
	cols, err := patch.Columns()
	if err != nil {
		return nil, err
	}
	categoryName, hasCategory, err := patch.CategoryName()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 && !hasCategory {
		return s.GetProduct(ctx, id)
	}

	err = s.tx.Do(ctx, func(tx *gorm.DB) error {
		if hasCategory {
			category, err := s.categoryRepo.FindOrCreate(tx, categoryName)
			if err != nil {
				return err
			}
			cols["category_id"] = category.ID
		}
		return s.productRepo.Update(tx, id, cols)
	})
	if err != nil {
		return nil, apperr.FromStore(err, ErrProductNotFound.Message(), productUniqueFields...)
	}

	updated, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, updated)
	return updated, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return apperr.FromStore(err, ErrProductNotFound.Message())
	}
	s.publish(EventProductDeleted, map[string]interface{}{"id": id})
	s.log.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *catalogService) publish(eventType string, data interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, data)
}
