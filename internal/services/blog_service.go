package services

import (
	"context"

	"atelier/internal/apperrors"
	"atelier/internal/cache"
	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/rs/zerolog"
)

// BlogService handles the participation articles. Public reads only ever see published posts.
type BlogService struct {
	repo  repositories.BlogPostRepository
	infra Infra
	log   zerolog.Logger
}

// NewBlogService creates a new BlogService.
func NewBlogService(repo repositories.BlogPostRepository, infra Infra) *BlogService {
	return &BlogService{repo: repo, infra: infra, log: infra.logger("posts")}
}

// GetAllPosts returns every post, drafts included, for the back office.
func (s *BlogService) GetAllPosts(ctx context.Context) ([]models.BlogPost, error) {
	return s.repo.GetAll(ctx)
}

// GetPublishedPosts returns the public listing, newest first.
func (s *BlogService) GetPublishedPosts(ctx context.Context) ([]models.BlogPost, error) {
	return cachedList(ctx, s.infra, s.log, cache.KeyPosts, s.repo.GetPublished)
}

// GetPublishedPost returns a published post by slug; drafts are not found.
func (s *BlogService) GetPublishedPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	return s.repo.GetPublishedBySlug(ctx, slug)
}

// GetPostByID returns any post, draft or published.
func (s *BlogService) GetPostByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

// CreatePost inserts a post and drops the public listing. A post needs a slug: a title
// made only of punctuation derives none, so one must be given.
func (s *BlogService) CreatePost(ctx context.Context, post *models.BlogPost) error {
	normalizePost(post)
	if post.Slug == "" {
		return &apperrors.ValidationError{Field: "slug", Tag: "required"}
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityBlogPost, ActionCreated, post.ID)
	return nil
}

// UpdatePost replaces every field of an existing post.
func (s *BlogService) UpdatePost(ctx context.Context, post *models.BlogPost) error {
	normalizePost(post)
	if post.Slug == "" {
		return &apperrors.ValidationError{Field: "slug", Tag: "required"}
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityBlogPost, ActionUpdated, post.ID)
	return nil
}

// DeletePost deletes a post by its ID.
func (s *BlogService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	changed(ctx, s.infra, s.log, EntityBlogPost, ActionDeleted, id)
	return nil
}

func normalizePost(p *models.BlogPost) {
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
}
