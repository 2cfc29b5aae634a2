package repositories

import (
	"context"

	"atelier/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// GetAll returns every product, newest first.
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update replaces every field of an existing product except its creation time.
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
