package handlers

import (
	"atelier/internal/gallery"
	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// DisplayDateLayout formats post dates for readers.
const DisplayDateLayout = "January 2, 2006"

// PostView is a published post with its derived reading fields.
type PostView struct {
	models.BlogPost
	FeaturedImageURL string       `json:"featured_image_url"`
	DisplayDate      string       `json:"display_date"`
	Paragraphs       []string     `json:"paragraphs,omitempty"`
	Gallery          gallery.View `json:"gallery"`
}

func newPostView(p models.BlogPost, image int, full bool) PostView {
	g := gallery.New(p.ImageURLs)
	g.Select(image)
	v := PostView{
		BlogPost:         p,
		FeaturedImageURL: p.FeaturedImageURL(),
		DisplayDate:      p.CreatedAt.Format(DisplayDateLayout),
		Gallery:          g.View(),
	}
	if full {
		v.Paragraphs = p.Paragraphs()
	}
	return v
}

// ParticipationHandler serves the public blog.
type ParticipationHandler struct {
	posts *services.BlogService
	log   zerolog.Logger
}

// NewParticipationHandler creates a new ParticipationHandler.
func NewParticipationHandler(posts *services.BlogService, log zerolog.Logger) *ParticipationHandler {
	return &ParticipationHandler{posts: posts, log: log.With().Str("component", "participation_handler").Logger()}
}

// RegisterRoutes registers the public blog routes.
func (h *ParticipationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/participation", h.ListPosts)
	router.Get("/participation/:slug", h.GetPost)
}

// ListPosts handles GET /participation: published posts, newest first.
func (h *ParticipationHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.posts.GetPublishedPosts(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, nil)
	}
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, 0, false))
	}
	return c.JSON(views)
}

// GetPost handles GET /participation/:slug?image=N. Unpublished posts are not found.
func (h *ParticipationHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.posts.GetPublishedPost(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, h.log, err, nil)
	}
	return c.JSON(newPostView(*post, c.QueryInt("image", 0), true))
}
