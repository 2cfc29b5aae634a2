package services

import (
	"context"
)

// DashboardStats are the back office home counters.
type DashboardStats struct {
	Products         int `json:"products"`
	FeaturedProducts int `json:"featured_products"`
	Categories       int `json:"categories"`
	Posts            int `json:"posts"`
	PublishedPosts   int `json:"published_posts"`
}

// DashboardService computes DashboardStats from full list reads.
type DashboardService struct {
	products   *ProductService
	categories *CategoryService
	posts      *BlogService
}

// NewDashboardService creates a DashboardService over the three catalogue services.
func NewDashboardService(products *ProductService, categories *CategoryService, posts *BlogService) *DashboardService {
	return &DashboardService{products: products, categories: categories, posts: posts}
}

// Stats counts products, categories and posts straight from the repositories.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return stats, err
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return stats, err
	}
	posts, err := s.posts.GetAllPosts(ctx)
	if err != nil {
		return stats, err
	}

	stats.Products = len(products)
	for _, p := range products {
		if p.IsFeatured {
			stats.FeaturedProducts++
		}
	}
	stats.Categories = len(categories)
	stats.Posts = len(posts)
	for _, p := range posts {
		if p.IsPublished {
			stats.PublishedPosts++
		}
	}
	return stats, nil
}
