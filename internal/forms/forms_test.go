package forms_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/catalogue"
	"atelier/internal/forms"
	"atelier/internal/models"
	"atelier/internal/notify"
	"atelier/internal/repositories"
	"atelier/internal/services"
	"atelier/internal/upload"
	"atelier/pkg/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repos      repositories.Repositories
	products   *services.ProductService
	categories *services.CategoryService
	posts      *services.BlogService
	objects    *storage.MemoryStore
	productUp  *upload.Pipeline
	blogUp     *upload.Pipeline
	notes      *notify.Recorder
}

func newFixture() *fixture {
	repos := repositories.NewMemoryRepositories()
	objects := storage.NewMemoryStore("https://cdn.test")
	tick := int64(1700000000000)
	clock := func() time.Time {
		tick++
		return time.UnixMilli(tick)
	}
	tokens := func() string { return "tok" }

	return &fixture{
		repos:      repos,
		products:   services.NewProductService(repos.Products, services.Infra{}),
		categories: services.NewCategoryService(repos.Categories, services.Infra{}),
		posts:      services.NewBlogService(repos.Posts, services.Infra{}),
		objects:    objects,
		productUp:  upload.New(objects, "product-images", "products", zerolog.Nop(), upload.WithClock(clock), upload.WithTokens(tokens)),
		blogUp:     upload.New(objects, "blog-images", "blog", zerolog.Nop(), upload.WithClock(clock), upload.WithTokens(tokens)),
		notes:      &notify.Recorder{},
	}
}

func (f *fixture) productForm() *forms.ProductController {
	return forms.NewProductController(f.products, f.productUp, forms.Options{Notifier: f.notes})
}

func file(name, body string) upload.File {
	return upload.File{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

func brokenFile(name string) upload.File {
	return upload.File{
		Name: name,
		Open: func() (io.ReadCloser, error) { return nil, errors.New("disk unplugged") },
	}
}

func lastNote(t *testing.T, r *notify.Recorder) notify.Notification {
	t.Helper()
	all := r.All()
	require.NotEmpty(t, all)
	return all[len(all)-1]
}

// Scenario: a new product with two images and a size list.
func TestCreateLinenShirt(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	form := f.productForm()

	form.SetDraft(forms.ProductDraft{
		Name:     "Linen Shirt",
		Category: "Shirts",
		Price:    "45",
		Sizes:    "S, M ,, L",
		Fabric:   "Linen",
	})
	form.Select(file("front.jpg", "a"), file("back.png", "b"))

	saved, err := form.Submit(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, []string{"S", "M", "L"}, []string(saved.Sizes))
	assert.True(t, saved.Price.Decimal.Equal(decimal.NewFromInt(45)))
	require.Len(t, saved.ImageURLs, 2)
	assert.Equal(t, "https://cdn.test/product-images/products/1700000000001-tok.jpg", saved.ImageURLs[0])
	assert.Equal(t, "https://cdn.test/product-images/products/1700000000002-tok.png", saved.ImageURLs[1])
	assert.Equal(t, 2, f.objects.Len())

	assert.Equal(t, notify.Success("Success", "Product created successfully"), lastNote(t, f.notes))

	items, ok := form.Items()
	require.True(t, ok, "list re-read after the write")
	require.Len(t, items, 1)
	assert.Equal(t, "Linen Shirt", items[0].Name)

	assert.Equal(t, forms.ProductDraft{}, form.Draft(), "form reset")
	assert.Empty(t, form.Selected())
	_, editing := form.Editing()
	assert.False(t, editing)

	found, err := f.products.GetProductBySlug(ctx, "linen-shirt")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
}

// Scenario: editing the price keeps id and images and appends new uploads.
func TestEditPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	original := &models.Product{Name: "Linen Shirt", Category: "Shirts", Sizes: []string{"M", "S"}, ImageURLs: []string{"u1", "u2"}}
	require.NoError(t, f.products.CreateProduct(ctx, original))

	form := f.productForm()
	form.LoadForEdit(*original)
	draft := form.Draft()
	assert.Equal(t, "M, S", draft.Sizes)
	assert.Equal(t, "", draft.Price)

	draft.Price = "29.99"
	form.SetDraft(draft)
	form.Select(file("detail.webp", "c"))

	saved, err := form.Submit(ctx)
	require.NoError(t, err)

	stored, err := f.products.GetProductByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.ID, saved.ID)
	assert.Equal(t, "29.99", stored.Price.Decimal.String())
	assert.Equal(t, []string{"M", "S"}, []string(stored.Sizes))
	require.Len(t, stored.ImageURLs, 3)
	assert.Equal(t, []string{"u1", "u2"}, []string(stored.ImageURLs[:2]))
	assert.Equal(t, notify.Success("Success", "Product updated successfully"), lastNote(t, f.notes))

	all, err := f.products.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "updated in place")
}

// Scenario: deleting a category leaves its products pointing at the old name.
func TestDeleteCategoryOrphansProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	form := forms.NewCategoryController(f.categories, forms.Options{Notifier: f.notes})

	form.SetDraft(forms.CategoryDraft{Name: "Summer Shirts"})
	cat, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "summer-shirts", cat.Slug)

	require.NoError(t, f.products.CreateProduct(ctx, &models.Product{Name: "Linen Shirt", Category: "Summer Shirts"}))

	err = form.Delete(ctx, cat.ID, forms.Confirmed(false))
	assert.ErrorIs(t, err, apperrors.ErrConfirmationRequired)
	_, err = f.categories.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err, "declined delete leaves the store untouched")

	require.NoError(t, form.Delete(ctx, cat.ID, forms.Confirmed(true)))
	assert.Equal(t, notify.Success("Success", "Category deleted successfully"), lastNote(t, f.notes))
	items, ok := form.Items()
	require.True(t, ok)
	assert.Empty(t, items)

	products, err := f.products.Catalogue(ctx, catalogue.Criteria{Category: "Summer Shirts"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Summer Shirts", products[0].Category)
}

func TestDeletingRecordOpenForEditResetsForm(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	keep := &models.Product{Name: "Wool Coat", Category: "Coats"}
	gone := &models.Product{Name: "Linen Shirt", Category: "Shirts"}
	require.NoError(t, f.products.CreateProduct(ctx, keep))
	require.NoError(t, f.products.CreateProduct(ctx, gone))

	form := f.productForm()
	form.LoadForEdit(*gone)
	require.NoError(t, form.Delete(ctx, keep.ID, forms.Confirmed(true)))
	editing, ok := form.Editing()
	require.True(t, ok, "deleting another record keeps the edit open")
	assert.Equal(t, gone.ID, editing.ID)

	require.NoError(t, form.Delete(ctx, gone.ID, forms.Confirmed(true)))
	_, ok = form.Editing()
	assert.False(t, ok)
	assert.Equal(t, forms.ProductDraft{}, form.Draft())
}

// Scenario: a post's slug is derived from its title and drafts are hidden from the public.
func TestBlogSlugAndUnpublished(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	form := forms.NewBlogPostController(f.posts, f.blogUp, forms.Options{Notifier: f.notes})

	assert.Equal(t, forms.DefaultAuthor, form.Draft().AuthorName)

	draft := form.Draft()
	draft.Title = "Spring Pop-Up 2024"
	draft.Content = "Join us.\n\nSaturday only."
	form.SetDraft(draft)

	post, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "spring-pop-up-2024", post.Slug)
	assert.Equal(t, "Admin", post.AuthorName)
	assert.Empty(t, post.ImageURLs)
	assert.Equal(t, notify.Success("Success", "Post created successfully"), lastNote(t, f.notes))

	_, err = f.posts.GetPublishedPost(ctx, "spring-pop-up-2024")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBlogImageUploadBeatsPastedURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	form := forms.NewBlogPostController(f.posts, f.blogUp, forms.Options{Notifier: f.notes})

	form.SetDraft(forms.BlogPostDraft{Title: "Pasted", Content: "x", ImageURL: "https://elsewhere/img.jpg"})
	pasted, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://elsewhere/img.jpg"}, []string(pasted.ImageURLs))

	form.LoadForEdit(pasted)
	assert.Equal(t, "https://elsewhere/img.jpg", form.Draft().ImageURL)
	form.Select(file("first.jpg", "1"), file("cover.jpg", "2"))
	require.Len(t, form.Selected(), 1, "a post takes a single image")
	assert.Equal(t, "cover.jpg", form.Selected()[0].Name)

	updated, err := form.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, updated.ImageURLs, 1)
	assert.True(t, strings.HasPrefix(updated.ImageURLs[0], "https://cdn.test/blog-images/blog/"))
	assert.True(t, strings.HasSuffix(updated.ImageURLs[0], ".jpg"))
}

func TestBlogFailedUploadFallsBackToPastedURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	form := forms.NewBlogPostController(f.posts, f.blogUp, forms.Options{Notifier: f.notes})

	form.SetDraft(forms.BlogPostDraft{Title: "Fallback", Content: "x", ImageURL: "https://elsewhere/img.jpg"})
	form.Select(brokenFile("cover.jpg"))

	post, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://elsewhere/img.jpg"}, []string(post.ImageURLs))
	assert.Equal(t, notify.LevelError, f.notes.All()[0].Level)
}

func TestValidationNeverReachesTheStore(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{}
	form := forms.New(forms.ProductCodec(nil), forms.Store[models.Product](store), forms.Options{})

	form.SetDraft(forms.ProductDraft{Name: "   ", Category: "Shirts"})
	_, err := form.Submit(ctx)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	form.SetDraft(forms.ProductDraft{Name: "Linen Shirt"})
	_, err = form.Submit(ctx)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)

	assert.Zero(t, store.writes)
	assert.Equal(t, "Linen Shirt", form.Draft().Name, "draft kept")
}

func TestPartialUploadIsSavedAndNotified(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	form := f.productForm()

	form.SetDraft(forms.ProductDraft{Name: "Coat", Category: "Outerwear"})
	form.Select(file("one.jpg", "1"), brokenFile("two.jpg"), file("three.jpg", "3"))

	saved, err := form.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, saved.ImageURLs, 1, "only the file before the failure")

	notes := f.notes.All()
	require.Len(t, notes, 2)
	assert.Equal(t, notify.LevelError, notes[0].Level)
	assert.Equal(t, "Error uploading images", notes[0].Title)
	assert.Equal(t, notify.LevelSuccess, notes[1].Level)
}

func TestStoreFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{failWith: errors.New(`duplicate key value violates unique constraint "idx_blog_posts_slug"`)}
	notes := &notify.Recorder{}
	form := forms.New(forms.BlogPostCodec(nil), forms.Store[models.BlogPost](blogStore{store}), forms.Options{Notifier: notes})

	draft := forms.BlogPostDraft{Title: "Hello", Content: "World", AuthorName: "Admin"}
	form.SetDraft(draft)

	_, err := form.Submit(ctx)
	var storeErr *apperrors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, `duplicate key value violates unique constraint "idx_blog_posts_slug"`, err.Error())
	assert.Equal(t, notify.Error("Error", `duplicate key value violates unique constraint "idx_blog_posts_slug"`), lastNote(t, notes))
	assert.Equal(t, draft, form.Draft())
}

func TestUnselect(t *testing.T) {
	form := newFixture().productForm()
	form.Select(file("a.jpg", "a"), file("b.jpg", "b"), file("c.jpg", "c"))

	assert.True(t, form.Unselect(1))
	assert.False(t, form.Unselect(5))

	names := []string{}
	for _, s := range form.Selected() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, names)

	form.Reset()
	assert.Empty(t, form.Selected())
}

func TestRefreshAfterCloseIsIgnored(t *testing.T) {
	store := &blockingStore{release: make(chan struct{}), started: make(chan struct{})}
	notes := &notify.Recorder{}
	form := forms.New(forms.CategoryCodec(), forms.Store[models.Category](store), forms.Options{Notifier: notes})

	var wg sync.WaitGroup
	var refreshErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		refreshErr = form.Refresh(context.Background())
	}()

	<-store.started
	form.Close()
	close(store.release)
	wg.Wait()

	assert.NoError(t, refreshErr)
	_, ok := form.Items()
	assert.False(t, ok)
	assert.Empty(t, notes.All())
}

func TestRefreshFailureIsNotified(t *testing.T) {
	store := &countingStore{failWith: errors.New("connection refused")}
	notes := &notify.Recorder{}
	form := forms.New(forms.ProductCodec(nil), forms.Store[models.Product](store), forms.Options{Notifier: notes})

	assert.Error(t, form.Refresh(context.Background()))
	assert.Equal(t, notify.Error("Error", "Failed to fetch data: connection refused"), lastNote(t, notes))
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"":      "",
		"  ":    "",
		"abc":   "",
		"-3":    "",
		"0":     "0",
		"29.99": "29.99",
		" 45 ":  "45",
	}
	for in, want := range cases {
		assert.Equal(t, want, forms.FormatPrice(forms.ParsePrice(in)), "input %q", in)
	}
}

func TestSplitJoinList(t *testing.T) {
	assert.Equal(t, []string{"S", "M", "S"}, forms.SplitList(" S,M , ,S"))
	assert.Equal(t, []string{}, forms.SplitList(""))
	assert.Equal(t, "S, M", forms.JoinList([]string{"S", "M"}))
}

// countingStore is a Store[models.Product] that records writes and can fail them all.
type countingStore struct {
	mu       sync.Mutex
	writes   int
	failWith error
}

func (s *countingStore) List(context.Context) ([]models.Product, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return []models.Product{}, nil
}

func (s *countingStore) write() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	return s.failWith
}

func (s *countingStore) Create(context.Context, *models.Product) error { return s.write() }
func (s *countingStore) Update(context.Context, *models.Product) error { return s.write() }
func (s *countingStore) Delete(context.Context, string) error { return s.write() }

// blogStore reuses countingStore for posts.
type blogStore struct{ *countingStore }

func (s blogStore) List(context.Context) ([]models.BlogPost, error) {
	return nil, fmt.Errorf("not listed in this test")
}
func (s blogStore) Create(context.Context, *models.BlogPost) error { return s.write() }
func (s blogStore) Update(context.Context, *models.BlogPost) error { return s.write() }

// blockingStore holds List until released.
type blockingStore struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingStore) List(context.Context) ([]models.Category, error) {
	close(s.started)
	<-s.release
	return []models.Category{{Name: "late"}}, nil
}
func (s *blockingStore) Create(context.Context, *models.Category) error { return nil }
func (s *blockingStore) Update(context.Context, *models.Category) error { return nil }
func (s *blockingStore) Delete(context.Context, string) error { return nil }
