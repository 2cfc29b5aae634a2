package repositories

import (
	"context"
	"errors"

	"atelier/internal/apperrors"
	"atelier/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, apperrors.Store("list categories", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, apperrors.Store("get category", err)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return apperrors.Store("create category", err)
	}
	return nil
}

func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	db := r.db.WithContext(ctx)
	res := db.Model(category).Select("*").Omit("id", "created_at").Updates(category)
	if res.Error != nil {
		return apperrors.Store("update category", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("category", category.ID)
	}
	if err := db.First(category, "id = ?", category.ID).Error; err != nil {
		return apperrors.Store("reload category", err)
	}
	return nil
}

func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Store("delete category", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("category", id)
	}
	return nil
}
