package forms

import (
	"strings"

	"atelier/internal/models"
	"atelier/internal/services"
)

// ProductDraft is the product edit form. Lists and price are free text until submit.
type ProductDraft struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Category    string `json:"category" form:"category" validate:"required"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
	Sizes       string `json:"sizes" form:"sizes"`
	Color       string `json:"color" form:"color"`
	Fabric      string `json:"fabric" form:"fabric"`
	IsFeatured  bool   `json:"is_featured" form:"is_featured"`
}

// ProductController is the Controller of the product form.
type ProductController = Controller[ProductDraft, models.Product]

// ProductCodec maps ProductDraft onto models.Product. Uploaded images are appended to the
// images already stored on the edited product.
func ProductCodec(uploader Uploader) Codec[ProductDraft, models.Product] {
	return Codec[ProductDraft, models.Product]{
		Entity: "Product",
		Blank:  func() ProductDraft { return ProductDraft{} },
		Normalize: func(d ProductDraft) ProductDraft {
			d.Name = strings.TrimSpace(d.Name)
			d.Category = strings.TrimSpace(d.Category)
			d.Description = strings.TrimSpace(d.Description)
			d.Price = strings.TrimSpace(d.Price)
			d.Sizes = strings.TrimSpace(d.Sizes)
			d.Color = strings.TrimSpace(d.Color)
			d.Fabric = strings.TrimSpace(d.Fabric)
			return d
		},
		Encode: func(p models.Product) ProductDraft {
			return ProductDraft{
				Name:        p.Name,
				Category:    p.Category,
				Description: p.Description,
				Price:       FormatPrice(p.Price),
				Sizes:       JoinList(p.Sizes),
				Color:       p.Color,
				Fabric:      p.Fabric,
				IsFeatured:  p.IsFeatured,
			}
		},
		Decode: func(d ProductDraft, editing *models.Product) models.Product {
			p := models.Product{
				Name:        d.Name,
				Category:    d.Category,
				Description: d.Description,
				Price:       ParsePrice(d.Price),
				Sizes:       SplitList(d.Sizes),
				Color:       d.Color,
				Fabric:      d.Fabric,
				IsFeatured:  d.IsFeatured,
			}
			if editing != nil {
				p.ID = editing.ID
				p.CreatedAt = editing.CreatedAt
			}
			return p
		},
		Key: func(p models.Product) string { return p.ID },
		ClearToggles: func(d ProductDraft) ProductDraft {
			d.IsFeatured = false
			return d
		},
		Images: &Images[ProductDraft, models.Product]{
			Uploader: uploader,
			Existing: func(p models.Product) []string { return p.ImageURLs },
			Set:      func(p *models.Product, urls []string) { p.ImageURLs = urls },
		},
	}
}

// NewProductController wires a product form to the product service.
func NewProductController(svc *services.ProductService, uploader Uploader, opts Options) *ProductController {
	store := StoreFuncs[models.Product]{
		ListFn:   svc.ListProducts,
		CreateFn: svc.CreateProduct,
		UpdateFn: svc.UpdateProduct,
		DeleteFn: svc.DeleteProduct,
	}
	return New(ProductCodec(uploader), Store[models.Product](store), opts)
}
