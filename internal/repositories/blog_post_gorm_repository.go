package repositories

import (
	"context"
	"errors"

	"atelier/internal/apperrors"
	"atelier/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBlogPostRepository is a GORM implementation of BlogPostRepository.
type GORMBlogPostRepository struct {
	db *gorm.DB
}

// NewGORMBlogPostRepository creates a new instance of GORMBlogPostRepository.
func NewGORMBlogPostRepository(db *gorm.DB) *GORMBlogPostRepository {
	return &GORMBlogPostRepository{db: db}
}

// GetAll retrieves every post, drafts included.
func (r *GORMBlogPostRepository) GetAll(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, apperrors.Store("list posts", err)
	}
	return posts, nil
}

// GetPublished retrieves the posts visible on the public site.
func (r *GORMBlogPostRepository) GetPublished(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Store("list published posts", err)
	}
	return posts, nil
}

// GetPublishedBySlug retrieves a single published post. Drafts are reported as not found.
func (r *GORMBlogPostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post", slug)
		}
		return nil, apperrors.Store("get post", err)
	}
	return &post, nil
}

func (r *GORMBlogPostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, apperrors.Store("get post", err)
	}
	return &post, nil
}

func (r *GORMBlogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return apperrors.Store("create post", err)
	}
	return nil
}

func (r *GORMBlogPostRepository) Update(ctx context.Context, post *models.BlogPost) error {
	db := r.db.WithContext(ctx)
	res := db.Model(post).Select("*").Omit("id", "created_at").Updates(post)
	if res.Error != nil {
		return apperrors.Store("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("post", post.ID)
	}
	if err := db.First(post, "id = ?", post.ID).Error; err != nil {
		return apperrors.Store("reload post", err)
	}
	return nil
}

func (r *GORMBlogPostRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Store("delete post", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("post", id)
	}
	return nil
}
