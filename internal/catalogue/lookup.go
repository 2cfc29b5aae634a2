package catalogue

import (
	"strings"

	"atelier/internal/models"
	"atelier/internal/slug"
)

// FindBySlug resolves a product detail URL segment back to a product. The slug is turned
// back into a name (hyphens become spaces) and matched case-insensitively against
// product names, first exactly, then as a prefix. The first match in list order wins, so
// two products whose names share a slug resolve to whichever the store lists first.
func FindBySlug(products []models.Product, productSlug string) (models.Product, bool) {
	name := strings.TrimSpace(slug.NameFromProductSlug(productSlug))
	if name == "" {
		return models.Product{}, false
	}

	for _, p := range products {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}

	prefix := strings.ToLower(name)
	for _, p := range products {
		if strings.HasPrefix(strings.ToLower(p.Name), prefix) {
			return p, true
		}
	}
	return models.Product{}, false
}
