package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// BlogPost is an article of the participation section.
type BlogPost struct {
	ID          string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string                      `json:"title" gorm:"type:varchar(255);not null"`
	Content     string                      `json:"content" gorm:"type:text"`
	Excerpt     string                      `json:"excerpt"`
	AuthorName  string                      `json:"author_name" gorm:"type:varchar(255)"`
	Slug        string                      `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	ImageURLs   datatypes.JSONSlice[string] `json:"image_urls" gorm:"column:image_urls"`
	IsPublished bool                        `json:"is_published" gorm:"index"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// FeaturedImageURL is the cover image of the post, the first of ImageURLs.
func (p BlogPost) FeaturedImageURL() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// Paragraphs splits Content on newlines and drops blank paragraphs.
func (p BlogPost) Paragraphs() []string {
	lines := strings.Split(p.Content, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		paragraphs = append(paragraphs, line)
	}
	return paragraphs
}
