package forms

import (
	"strings"

	"atelier/internal/models"
	"atelier/internal/services"
	"atelier/internal/slug"
)

// DefaultAuthor pre-fills the author of a new post.
const DefaultAuthor = "Admin"

// BlogPostDraft is the participation article form. ImageURL holds the featured image: it
// is pre-filled when editing and may be pasted by hand; an uploaded file takes precedence.
type BlogPostDraft struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Content     string `json:"content" form:"content" validate:"required"`
	AuthorName  string `json:"author_name" form:"author_name"`
	Excerpt     string `json:"excerpt" form:"excerpt"`
	Slug        string `json:"slug" form:"slug"`
	ImageURL    string `json:"image_url" form:"image_url"`
	IsPublished bool   `json:"is_published" form:"is_published"`
}

// BlogPostController is the Controller of the post form.
type BlogPostController = Controller[BlogPostDraft, models.BlogPost]

// BlogPostCodec maps BlogPostDraft onto models.BlogPost. A post carries a single featured
// image, so at most one file can be pending.
func BlogPostCodec(uploader Uploader) Codec[BlogPostDraft, models.BlogPost] {
	return Codec[BlogPostDraft, models.BlogPost]{
		Entity: "Post",
		Blank:  func() BlogPostDraft { return BlogPostDraft{AuthorName: DefaultAuthor} },
		Normalize: func(d BlogPostDraft) BlogPostDraft {
			d.Title = strings.TrimSpace(d.Title)
			d.Content = strings.TrimSpace(d.Content)
			d.AuthorName = strings.TrimSpace(d.AuthorName)
			d.Excerpt = strings.TrimSpace(d.Excerpt)
			d.Slug = strings.TrimSpace(d.Slug)
			d.ImageURL = strings.TrimSpace(d.ImageURL)
			return d
		},
		Encode: func(p models.BlogPost) BlogPostDraft {
			return BlogPostDraft{
				Title:       p.Title,
				Content:     p.Content,
				AuthorName:  p.AuthorName,
				Excerpt:     p.Excerpt,
				Slug:        p.Slug,
				ImageURL:    p.FeaturedImageURL(),
				IsPublished: p.IsPublished,
			}
		},
		Decode: func(d BlogPostDraft, editing *models.BlogPost) models.BlogPost {
			p := models.BlogPost{
				Title:       d.Title,
				Content:     d.Content,
				AuthorName:  d.AuthorName,
				Excerpt:     d.Excerpt,
				Slug:        d.Slug,
				IsPublished: d.IsPublished,
			}
			if p.Slug == "" {
				p.Slug = slug.Slugify(d.Title)
			}
			if editing != nil {
				p.ID = editing.ID
				p.CreatedAt = editing.CreatedAt
			}
			return p
		},
		Key: func(p models.BlogPost) string { return p.ID },
		ClearToggles: func(d BlogPostDraft) BlogPostDraft {
			d.IsPublished = false
			return d
		},
		Images: &Images[BlogPostDraft, models.BlogPost]{
			Uploader: uploader,
			MaxFiles: 1,
			Fallback: func(d BlogPostDraft) string { return d.ImageURL },
			Set:      func(p *models.BlogPost, urls []string) { p.ImageURLs = urls },
		},
	}
}

// NewBlogPostController wires a post form to the blog service.
func NewBlogPostController(svc *services.BlogService, uploader Uploader, opts Options) *BlogPostController {
	store := StoreFuncs[models.BlogPost]{
		ListFn:   svc.GetAllPosts,
		CreateFn: svc.CreatePost,
		UpdateFn: svc.UpdatePost,
		DeleteFn: svc.DeletePost,
	}
	return New(BlogPostCodec(uploader), Store[models.BlogPost](store), opts)
}
