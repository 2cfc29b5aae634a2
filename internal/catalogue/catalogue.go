// Package catalogue filters and orders the in-memory product list shown by the
// storefront. Everything here is a pure function of its inputs.
package catalogue

import (
	"sort"
	"strings"

	"atelier/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories is the category selection that disables the category filter.
const AllCategories = "all"

// SortKey names one of the supported orderings.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByPrice    SortKey = "price"
	SortByCategory SortKey = "category"
	SortByFeatured SortKey = "featured"
)

// ParseSortKey maps a query value onto a SortKey. Unknown values yield "", which keeps
// the store order.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByName, SortByPrice, SortByCategory, SortByFeatured:
		return k
	default:
		return ""
	}
}

// Criteria is the user selection applied to the product list.
type Criteria struct {
	Query    string  `json:"q"`
	Category string  `json:"category"`
	Sort     SortKey `json:"sort"`
}

// Apply returns the products matching c, in c.Sort order. The input slice is not modified.
func Apply(products []models.Product, c Criteria) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !MatchesQuery(p, c.Query) || !MatchesCategory(p, c.Category) {
			continue
		}
		out = append(out, p)
	}
	Sort(out, c.Sort)
	return out
}

// MatchesQuery reports whether the lowercased query is a substring of the product's
// name, description, category, color or fabric. An empty query matches everything.
func MatchesQuery(p models.Product, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{p.Name, p.Description, p.Category, p.Color, p.Fabric} {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// MatchesCategory is exact, case-sensitive equality unless category is "all" or empty.
func MatchesCategory(p models.Product, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return p.Category == category
}

// Sort orders products in place by key using a stable sort, so equal elements keep
// their relative order.
func Sort(products []models.Product, key SortKey) {
	switch key {
	case SortByName:
		col := collate.New(language.Und)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortByCategory:
		col := collate.New(language.Und)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Category, products[j].Category) < 0
		})
	case SortByPrice:
		sort.SliceStable(products, func(i, j int) bool {
			return priceOf(products[i]).LessThan(priceOf(products[j]))
		})
	case SortByFeatured:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsFeatured && !products[j].IsFeatured
		})
	}
}

// priceOf treats an absent price as zero.
func priceOf(p models.Product) decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}
