package handlers

import (
	"atelier/internal/catalogue"
	"atelier/internal/gallery"
	"atelier/internal/models"
	"atelier/internal/services"
	"atelier/internal/slug"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductView is a product as shown by the storefront: its routing slug and gallery state.
type ProductView struct {
	models.Product
	Slug    string       `json:"slug"`
	Gallery gallery.View `json:"gallery"`
}

func newProductView(p models.Product, image int) ProductView {
	g := gallery.New(p.ImageURLs)
	g.Select(image)
	return ProductView{Product: p, Slug: slug.Product(p.Name), Gallery: g.View()}
}

// CatalogueHandler serves the public product catalogue.
type CatalogueHandler struct {
	products   *services.ProductService
	categories *services.CategoryService
	log        zerolog.Logger
}

// NewCatalogueHandler creates a new CatalogueHandler.
func NewCatalogueHandler(products *services.ProductService, categories *services.CategoryService, log zerolog.Logger) *CatalogueHandler {
	return &CatalogueHandler{
		products:   products,
		categories: categories,
		log:        log.With().Str("component", "catalogue_handler").Logger(),
	}
}

// RegisterRoutes registers the catalogue routes.
func (h *CatalogueHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/catalogue", h.ListProducts)
	router.Get("/catalogue/:productSlug", h.GetProduct)
	router.Get("/categories", h.ListCategories)
}

// ListProducts handles GET /catalogue?q=&category=&sort=.
func (h *CatalogueHandler) ListProducts(c *fiber.Ctx) error {
	criteria := catalogue.Criteria{
		Query:    c.Query("q"),
		Category: c.Query("category", catalogue.AllCategories),
		Sort:     catalogue.ParseSortKey(c.Query("sort")),
	}

	products, err := h.products.Catalogue(c.UserContext(), criteria)
	if err != nil {
		return fail(c, h.log, err, nil)
	}
	categories, err := h.categories.GetAllCategories(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, nil)
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, 0))
	}
	return c.JSON(fiber.Map{
		"products":   views,
		"categories": categories,
		"count":      len(views),
		"criteria":   criteria,
	})
}

// GetProduct handles GET /catalogue/:productSlug?image=N.
func (h *CatalogueHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.products.GetProductBySlug(c.UserContext(), c.Params("productSlug"))
	if err != nil {
		return fail(c, h.log, err, nil)
	}
	return c.JSON(newProductView(*product, c.QueryInt("image", 0)))
}

// ListCategories handles GET /categories.
func (h *CatalogueHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.GetAllCategories(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, nil)
	}
	return c.JSON(categories)
}
