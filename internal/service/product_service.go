package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"krubolab/internal/model"
	"krubolab/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
		now:         time.Now,
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return s.Search(ctx, model.ProductFilter{}, limit, offset)
}

// Search retrieves one page of products matching filter. The page size is
// clamped to [1, 100] and defaults to 10.
func (s *productService) Search(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	filter = filter.Normalize()

	var (
		products []model.Product
		err      error
	)
	if filter.IsZero() {
		products, err = s.productRepo.GetAll(ctx, limit, offset)
	} else {
		products, err = s.productRepo.Search(ctx, filter, limit, offset)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Str("search", filter.Search).
			Str("material", filter.Material).
			Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create adds a product.
func (s *productService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	product := productFromInput(in)
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product created")
	return product, nil
}

// Update replaces a product.
func (s *productService) Update(ctx context.Context, id string, in *model.ProductInput) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	product := productFromInput(in)
	product.ID = id
	product.UpdatedAt = s.now().UTC()

	found, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	found, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func validateProduct(in *model.ProductInput) error {
	if in == nil || strings.TrimSpace(in.Name) == "" {
		return model.ErrMissingName
	}
	if in.Price < 0 {
		return model.ErrInvalidPrice
	}
	return nil
}

func productFromInput(in *model.ProductInput) *model.Product {
	return &model.Product{
		ID:                    strings.TrimSpace(in.ID),
		Name:                  strings.TrimSpace(in.Name),
		Price:                 in.Price,
		Description:           in.Description,
		Category:              in.Category,
		Images:                in.Images,
		Colours:               in.Colours,
		Measurements:          in.Measurements,
		Materials:             in.Materials,
		AdditionalInformation: in.AdditionalInformation,
	}
}
