package services

import (
	"context"

	"atelier/internal/cache"
	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/rs/zerolog"
)

// CategoryService handles business logic related to categories. Deleting a category
// never touches the products that reference it by name.
type CategoryService struct {
	repo  repositories.CategoryRepository
	infra Infra
	log   zerolog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, infra Infra) *CategoryService {
	return &CategoryService{repo: repo, infra: infra, log: infra.logger("categories")}
}

// GetAllCategories retrieves all categories ordered by name.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return cachedList(ctx, s.infra, s.log, cache.KeyCategories, s.repo.GetAll)
}

// ListCategories reads every category straight from the repository, bypassing the
// listing cache. The back office uses it to re-read after its own writes.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

// GetCategoryByID returns a single category or a NotFoundError.
func (s *CategoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCategory stores a new category and announces the change.
func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.repo.Create(ctx, category); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityCategory, ActionCreated, category.ID)
	return nil
}

// UpdateCategory replaces a stored category.
func (s *CategoryService) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := s.repo.Update(ctx, category); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityCategory, ActionUpdated, category.ID)
	return nil
}

// DeleteCategory removes a category. Products keep their category ID.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityCategory, ActionDeleted, id)
	return nil
}
