package services

import (
	"context"

	"atelier/internal/apperrors"
	"atelier/internal/cache"
	"atelier/internal/catalogue"
	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/rs/zerolog"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo  repositories.ProductRepository
	infra Infra
	log   zerolog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, infra Infra) *ProductService {
	return &ProductService{
		repo:  repo,
		infra: infra,
		log:   infra.logger("products"),
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return cachedList(ctx, s.infra, s.log, cache.KeyProducts, s.repo.GetAll)
}

// ListProducts reads every product straight from the repository, bypassing the listing
// cache. The back office uses it to re-read after its own writes.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Catalogue returns the product list narrowed and ordered by criteria.
func (s *ProductService) Catalogue(ctx context.Context, criteria catalogue.Criteria) ([]models.Product, error) {
	products, err := s.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	return catalogue.Apply(products, criteria), nil
}

// GetProductBySlug resolves a product detail slug. See catalogue.FindBySlug for the matching rules.
func (s *ProductService) GetProductBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	products, err := s.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	product, ok := catalogue.FindBySlug(products, productSlug)
	if !ok {
		return nil, apperrors.NotFound("product", productSlug)
	}
	return &product, nil
}

// CreateProduct inserts a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	normalizeProduct(product)
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityProduct, ActionCreated, product.ID)
	return nil
}

// UpdateProduct replaces every field of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	normalizeProduct(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityProduct, ActionUpdated, product.ID)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityProduct, ActionDeleted, id)
	return nil
}

// normalizeProduct stores empty lists as [] rather than null.
func normalizeProduct(p *models.Product) {
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
}
