package forms

import (
	"strings"

	"atelier/internal/models"
	"atelier/internal/services"
	"atelier/internal/slug"
)

// CategoryDraft is the category edit form. A blank slug is derived from the name.
type CategoryDraft struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description" form:"description"`
	Slug        string `json:"slug" form:"slug"`
}

// CategoryController is the Controller of the category form.
type CategoryController = Controller[CategoryDraft, models.Category]

// CategoryCodec maps CategoryDraft onto models.Category, deriving a blank slug from the name.
func CategoryCodec() Codec[CategoryDraft, models.Category] {
	return Codec[CategoryDraft, models.Category]{
		Entity: "Category",
		Blank:  func() CategoryDraft { return CategoryDraft{} },
		Normalize: func(d CategoryDraft) CategoryDraft {
			d.Name = strings.TrimSpace(d.Name)
			d.Description = strings.TrimSpace(d.Description)
			d.Slug = strings.TrimSpace(d.Slug)
			return d
		},
		Encode: func(c models.Category) CategoryDraft {
			return CategoryDraft{Name: c.Name, Description: c.Description, Slug: c.Slug}
		},
		Decode: func(d CategoryDraft, editing *models.Category) models.Category {
			c := models.Category{Name: d.Name, Description: d.Description, Slug: d.Slug}
			if c.Slug == "" {
				c.Slug = slug.Category(d.Name)
			}
			if editing != nil {
				c.ID = editing.ID
				c.CreatedAt = editing.CreatedAt
			}
			return c
		},
		Key: func(c models.Category) string { return c.ID },
	}
}

// NewCategoryController wires a category form to the category service.
func NewCategoryController(svc *services.CategoryService, opts Options) *CategoryController {
	store := StoreFuncs[models.Category]{
		ListFn:   svc.ListCategories,
		CreateFn: svc.CreateCategory,
		UpdateFn: svc.UpdateCategory,
		DeleteFn: svc.DeleteCategory,
	}
	return New(CategoryCodec(), Store[models.Category](store), opts)
}
