package repositories

import (
	"context"
	"fmt"
	"slices"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
)

// MemoryBlogPostRepository is an in-memory implementation of BlogPostRepository.
// Like the SQL schema it enforces unique slugs.
type MemoryBlogPostRepository struct {
	table *memoryTable[models.BlogPost]
}

// NewMemoryBlogPostRepository creates an empty in-memory BlogPostRepository.
func NewMemoryBlogPostRepository() *MemoryBlogPostRepository {
	table := newMemoryTable(
		func(p *models.BlogPost) *string { return &p.ID },
		func(p *models.BlogPost, created, updated time.Time) { p.CreatedAt, p.UpdatedAt = created, updated },
		func(p models.BlogPost) time.Time { return p.CreatedAt },
		func(p models.BlogPost) models.BlogPost {
			p.ImageURLs = slices.Clone(p.ImageURLs)
			return p
		},
	)
	table.conflict = func(stored, candidate models.BlogPost) error {
		if stored.Slug == candidate.Slug {
			return fmt.Errorf("duplicate key value violates unique constraint \"idx_blog_posts_slug\"")
		}
		return nil
	}
	return &MemoryBlogPostRepository{table: table}
}

func newestPostFirst(a, b models.BlogPost) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *MemoryBlogPostRepository) GetAll(ctx context.Context) ([]models.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("list posts", err)
	}
	return r.table.all(newestPostFirst), nil
}

func (r *MemoryBlogPostRepository) GetPublished(ctx context.Context) ([]models.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("list published posts", err)
	}
	all := r.table.all(newestPostFirst)
	published := make([]models.BlogPost, 0, len(all))
	for _, p := range all {
		if p.IsPublished {
			published = append(published, p)
		}
	}
	return published, nil
}

func (r *MemoryBlogPostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("get post", err)
	}
	post, ok := r.table.find(func(p models.BlogPost) bool { return p.IsPublished && p.Slug == slug })
	if !ok {
		return nil, apperrors.NotFound("post", slug)
	}
	return &post, nil
}

func (r *MemoryBlogPostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("get post", err)
	}
	post, ok := r.table.get(id)
	if !ok {
		return nil, apperrors.NotFound("post", id)
	}
	return &post, nil
}

func (r *MemoryBlogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("create post", err)
	}
	return apperrors.Store("create post", r.table.insert(post))
}

func (r *MemoryBlogPostRepository) Update(ctx context.Context, post *models.BlogPost) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("update post", err)
	}
	found, err := r.table.replace(post)
	if err != nil {
		return apperrors.Store("update post", err)
	}
	if !found {
		return apperrors.NotFound("post", post.ID)
	}
	return nil
}

func (r *MemoryBlogPostRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("delete post", err)
	}
	if !r.table.remove(id) {
		return apperrors.NotFound("post", id)
	}
	return nil
}
