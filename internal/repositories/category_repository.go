package repositories

import (
	"context"

	"atelier/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	// GetAll returns every category ordered by name.
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}
