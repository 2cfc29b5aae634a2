package repositories

import (
	"context"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
)

// MemoryCategoryRepository is an in-memory implementation of CategoryRepository.
type MemoryCategoryRepository struct {
	table *memoryTable[models.Category]
}

// NewMemoryCategoryRepository creates an empty in-memory CategoryRepository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		table: newMemoryTable(
			func(c *models.Category) *string { return &c.ID },
			func(c *models.Category, created, updated time.Time) { c.CreatedAt, c.UpdatedAt = created, updated },
			func(c models.Category) time.Time { return c.CreatedAt },
			func(c models.Category) models.Category { return c },
		),
	}
}

func (r *MemoryCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("list categories", err)
	}
	return r.table.all(func(a, b models.Category) bool { return a.Name < b.Name }), nil
}

func (r *MemoryCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("get category", err)
	}
	category, ok := r.table.get(id)
	if !ok {
		return nil, apperrors.NotFound("category", id)
	}
	return &category, nil
}

func (r *MemoryCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("create category", err)
	}
	return apperrors.Store("create category", r.table.insert(category))
}

func (r *MemoryCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("update category", err)
	}
	found, err := r.table.replace(category)
	if err != nil {
		return apperrors.Store("update category", err)
	}
	if !found {
		return apperrors.NotFound("category", category.ID)
	}
	return nil
}

func (r *MemoryCategoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("delete category", err)
	}
	if !r.table.remove(id) {
		return apperrors.NotFound("category", id)
	}
	return nil
}
