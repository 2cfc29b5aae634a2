package slug_test

import (
	"testing"

	"atelier/internal/slug"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Spring Pop-Up 2024":         "spring-pop-up-2024",
		"  Hello,   World!  ":        "hello-world",
		"Déjà vu":                    "d-j-vu",
		"---":                        "",
		"":                           "",
		"already-a-slug":             "already-a-slug",
		"Notre défilé d'été (Paris)": "notre-d-fil-d-t-paris",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Slugify(in), "Slugify(%q)", in)
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	inputs := []string{
		"Spring Pop-Up 2024", "  --Weird__Input--  ", "ÀÉÎÕÜ", "a  b\tc\nd", "123", "", "-a-", "Ünïcödé & Co.",
	}
	for _, in := range inputs {
		once := slug.Slugify(in)
		assert.Equal(t, once, slug.Slugify(once), "Slugify not idempotent for %q", in)
	}
}

func TestProduct(t *testing.T) {
	assert.Equal(t, "linen-shirt", slug.Product("Linen Shirt"))
	assert.Equal(t, "linen-shirt", slug.Product("Linen   Shirt"))
	assert.Equal(t, "robe-maxi_2", slug.Product("Robe Maxi_2"))
	assert.Equal(t, "caf-noir", slug.Product("Café Noir"))
	assert.Equal(t, "silk-scarf", slug.Product("Silk Scarf!"))
}

func TestNameFromProductSlugIsLossy(t *testing.T) {
	assert.Equal(t, "linen shirt", slug.NameFromProductSlug(slug.Product("Linen Shirt")))
	// A name that already contained a hyphen cannot be reconstructed.
	assert.Equal(t, "pop up tote", slug.NameFromProductSlug(slug.Product("Pop-Up Tote")))
	// Stripped punctuation is gone for good.
	assert.Equal(t, "caf noir", slug.NameFromProductSlug(slug.Product("Café Noir")))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "summer-dresses", slug.Category("Summer Dresses"))
	assert.Equal(t, "t-shirts-&-tops", slug.Category("T-Shirts & Tops"))
	assert.Equal(t, "shirts", slug.Category("Shirts"))
}
