package models_test

import (
	"testing"

	"atelier/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBlogPostParagraphsDropBlankLines(t *testing.T) {
	post := models.BlogPost{Content: "First paragraph.\n\n   \nSecond one.\nThird."}
	assert.Equal(t, []string{"First paragraph.", "Second one.", "Third."}, post.Paragraphs())
	assert.Empty(t, models.BlogPost{}.Paragraphs())
}

func TestCoverImages(t *testing.T) {
	assert.Equal(t, "", models.Product{}.CoverImage())
	assert.Equal(t, "a.jpg", models.Product{ImageURLs: []string{"a.jpg", "b.jpg"}}.CoverImage())
	assert.Equal(t, "", models.BlogPost{}.FeaturedImageURL())
	assert.Equal(t, "cover.png", models.BlogPost{ImageURLs: []string{"cover.png"}}.FeaturedImageURL())
}
