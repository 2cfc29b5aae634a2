package repositories

import (
	"context"
	"slices"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	table *memoryTable[models.Product]
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		table: newMemoryTable(
			func(p *models.Product) *string { return &p.ID },
			func(p *models.Product, created, updated time.Time) { p.CreatedAt, p.UpdatedAt = created, updated },
			func(p models.Product) time.Time { return p.CreatedAt },
			func(p models.Product) models.Product {
				p.Sizes = slices.Clone(p.Sizes)
				p.ImageURLs = slices.Clone(p.ImageURLs)
				return p
			},
		),
	}
}

// GetAll returns all products, newest first.
func (r *MemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("list products", err)
	}
	return r.table.all(func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("get product", err)
	}
	product, ok := r.table.get(id)
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("create product", err)
	}
	return apperrors.Store("create product", r.table.insert(product))
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("update product", err)
	}
	found, err := r.table.replace(product)
	if err != nil {
		return apperrors.Store("update product", err)
	}
	if !found {
		return apperrors.NotFound("product", product.ID)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("delete product", err)
	}
	if !r.table.remove(id) {
		return apperrors.NotFound("product", id)
	}
	return nil
}
