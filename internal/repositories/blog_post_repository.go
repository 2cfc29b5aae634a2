package repositories

import (
	"context"

	"atelier/internal/models"
)

// BlogPostRepository defines the interface for participation article data access.
// Lists are ordered newest first.
type BlogPostRepository interface {
	GetAll(ctx context.Context) ([]models.BlogPost, error)
	// GetPublished returns only posts with IsPublished set.
	GetPublished(ctx context.Context) ([]models.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id string) error
}
