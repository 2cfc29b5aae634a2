package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implementations returns a fresh GORM (sqlite) and in-memory set for each test.
func implementations(t *testing.T) map[string]repositories.Repositories {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repositories.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return map[string]repositories.Repositories{
		"gorm":   repositories.NewGORMRepositories(db),
		"memory": repositories.NewMemoryRepositories(),
	}
}

func TestProductRepository(t *testing.T) {
	for name, repos := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := repos.Products
			base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

			older := &models.Product{
				Name:      "Robe Maxi",
				Price:     decimal.NewNullDecimal(decimal.RequireFromString("120.5")),
				Sizes:     []string{"S", "M"},
				Category:  "Robes",
				ImageURLs: []string{"a.jpg"},
				CreatedAt: base,
			}
			newer := &models.Product{Name: "Veste", Category: "Vestes", CreatedAt: base.Add(time.Hour)}
			require.NoError(t, repo.Create(ctx, older))
			require.NoError(t, repo.Create(ctx, newer))
			assert.NotEmpty(t, older.ID)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Veste", all[0].Name, "newest first")
			assert.Equal(t, "Robe Maxi", all[1].Name)

			got, err := repo.GetByID(ctx, older.ID)
			require.NoError(t, err)
			assert.True(t, got.Price.Valid)
			assert.True(t, got.Price.Decimal.Equal(decimal.RequireFromString("120.5")))
			assert.Equal(t, []string{"S", "M"}, []string(got.Sizes))
			assert.Equal(t, []string{"a.jpg"}, []string(got.ImageURLs))

			got.Price = decimal.NullDecimal{}
			got.IsFeatured = true
			got.ImageURLs = append(got.ImageURLs, "b.jpg")
			require.NoError(t, repo.Update(ctx, got))

			updated, err := repo.GetByID(ctx, older.ID)
			require.NoError(t, err)
			assert.False(t, updated.Price.Valid, "price cleared")
			assert.True(t, updated.IsFeatured)
			assert.Equal(t, []string{"a.jpg", "b.jpg"}, []string(updated.ImageURLs))
			assert.True(t, updated.CreatedAt.Equal(base), "creation time kept")

			missing := &models.Product{ID: "does-not-exist", Name: "Ghost"}
			assert.True(t, apperrors.IsNotFound(repo.Update(ctx, missing)))

			require.NoError(t, repo.Delete(ctx, older.ID))
			_, err = repo.GetByID(ctx, older.ID)
			assert.True(t, apperrors.IsNotFound(err))
			assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, older.ID)))
		})
	}
}

func TestCategoryRepositoryOrdersByName(t *testing.T) {
	for name, repos := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := repos.Categories
			for _, n := range []string{"Vestes", "Accessoires", "Robes"} {
				require.NoError(t, repo.Create(ctx, &models.Category{Name: n}))
			}

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			names := make([]string, 0, len(all))
			for _, c := range all {
				names = append(names, c.Name)
			}
			assert.Equal(t, []string{"Accessoires", "Robes", "Vestes"}, names)

			cat := all[0]
			cat.Description = "Sacs et foulards"
			require.NoError(t, repo.Update(ctx, &cat))
			got, err := repo.GetByID(ctx, cat.ID)
			require.NoError(t, err)
			assert.Equal(t, "Sacs et foulards", got.Description)

			_, err = repo.GetByID(ctx, "nope")
			assert.True(t, apperrors.IsNotFound(err))
		})
	}
}

func TestBlogPostRepositoryPublishedViews(t *testing.T) {
	for name, repos := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := repos.Posts
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			posts := []*models.BlogPost{
				{Title: "Draft", Slug: "draft", IsPublished: false, CreatedAt: base.Add(3 * time.Hour)},
				{Title: "First", Slug: "first", IsPublished: true, CreatedAt: base},
				{Title: "Second", Slug: "second", IsPublished: true, CreatedAt: base.Add(time.Hour)},
			}
			for _, p := range posts {
				require.NoError(t, repo.Create(ctx, p))
			}

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 3)

			published, err := repo.GetPublished(ctx)
			require.NoError(t, err)
			require.Len(t, published, 2)
			assert.Equal(t, "Second", published[0].Title)
			assert.Equal(t, "First", published[1].Title)

			post, err := repo.GetPublishedBySlug(ctx, "first")
			require.NoError(t, err)
			assert.Equal(t, "First", post.Title)

			_, err = repo.GetPublishedBySlug(ctx, "draft")
			assert.True(t, apperrors.IsNotFound(err), "drafts are hidden")

			dup := &models.BlogPost{Title: "Again", Slug: "first"}
			err = repo.Create(ctx, dup)
			require.Error(t, err)
			var storeErr *apperrors.StoreError
			assert.ErrorAs(t, err, &storeErr)

			require.NoError(t, repo.Create(ctx, &models.BlogPost{Title: "?!"}))
			err = repo.Create(ctx, &models.BlogPost{Title: "..."})
			assert.ErrorAs(t, err, &storeErr, "a second empty slug collides like any other")
		})
	}
}

func TestUserRepository(t *testing.T) {
	for name, repos := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := repos.Users
			user := &models.User{Username: "admin", Email: "admin@example.com", Password: "hash"}
			require.NoError(t, repo.Create(ctx, user))

			byName, err := repo.GetByUsername(ctx, "admin")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byName.ID)

			byEmail, err := repo.GetByEmail(ctx, "admin@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)

			byID, err := repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "admin", byID.Username)

			_, err = repo.GetByUsername(ctx, "nobody")
			assert.True(t, apperrors.IsNotFound(err))

			assert.Error(t, repo.Create(ctx, &models.User{Username: "admin", Email: "other@example.com", Password: "x"}))
		})
	}
}

func TestMemoryRepositoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := repositories.NewMemoryProductRepository()
	_, err := repo.GetAll(ctx)
	var storeErr *apperrors.StoreError
	assert.ErrorAs(t, err, &storeErr)
}
