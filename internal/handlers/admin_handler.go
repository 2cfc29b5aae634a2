package handlers

import (
	"context"
	"strings"

	"atelier/internal/forms"
	"atelier/internal/models"
	"atelier/internal/notify"
	"atelier/internal/services"
	"atelier/internal/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AdminHandler serves the back office: dashboard counters and the three edit forms.
type AdminHandler struct {
	products   *services.ProductService
	categories *services.CategoryService
	posts      *services.BlogService
	dashboard  *services.DashboardService
	productUp  forms.Uploader
	blogUp     forms.Uploader
	log        zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler. productUp and blogUp push images to the
// product and blog buckets.
func NewAdminHandler(
	products *services.ProductService,
	categories *services.CategoryService,
	posts *services.BlogService,
	productUp, blogUp forms.Uploader,
	log zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products:   products,
		categories: categories,
		posts:      posts,
		dashboard:  services.NewDashboardService(products, categories, posts),
		productUp:  productUp,
		blogUp:     blogUp,
		log:        log.With().Str("component", "admin_handler").Logger(),
	}
}

// RegisterRoutes registers the back office routes. router is expected to be behind
// middleware.AuthRequired.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin")
	admin.Get("/dashboard", h.Dashboard)

	resource[forms.ProductDraft, models.Product]{
		log:        h.log,
		imageField: "images",
		newForm: func(n notify.Notifier) *forms.ProductController {
			return forms.NewProductController(h.products, h.productUp, forms.Options{Notifier: n, Logger: &h.log})
		},
		get: h.products.GetProductByID,
	}.register(admin.Group("/products"))

	resource[forms.CategoryDraft, models.Category]{
		log: h.log,
		newForm: func(n notify.Notifier) *forms.CategoryController {
			return forms.NewCategoryController(h.categories, forms.Options{Notifier: n, Logger: &h.log})
		},
		get: h.categories.GetCategoryByID,
	}.register(admin.Group("/categories"))

	resource[forms.BlogPostDraft, models.BlogPost]{
		log:        h.log,
		imageField: "image",
		newForm: func(n notify.Notifier) *forms.BlogPostController {
			return forms.NewBlogPostController(h.posts, h.blogUp, forms.Options{Notifier: n, Logger: &h.log})
		},
		get: h.posts.GetPostByID,
	}.register(admin.Group("/posts"))
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, nil)
	}
	return c.JSON(stats)
}

// resource exposes one form controller as list / draft / create / update / delete routes.
// Every request gets a fresh controller and its own notification recorder.
type resource[D, R any] struct {
	log        zerolog.Logger
	imageField string
	newForm    func(notify.Notifier) *forms.Controller[D, R]
	get        func(ctx context.Context, id string) (*R, error)
}

func (r resource[D, R]) register(router fiber.Router) {
	router.Get("/", r.list)
	router.Post("/", r.create)
	router.Get("/:id/draft", r.draft)
	router.Put("/:id", r.update)
	router.Delete("/:id", r.delete)
}

func (r resource[D, R]) list(c *fiber.Ctx) error {
	rec := &notify.Recorder{}
	form := r.newForm(rec)
	defer form.Close()

	if err := form.Refresh(c.UserContext()); err != nil {
		return fail(c, r.log, err, rec)
	}
	items, _ := form.Items()
	return c.JSON(fiber.Map{"items": items})
}

// draft returns the edit form pre-filled from a stored record.
func (r resource[D, R]) draft(c *fiber.Ctx) error {
	rec := &notify.Recorder{}
	form := r.newForm(rec)
	defer form.Close()

	record, err := r.get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, r.log, err, rec)
	}
	form.LoadForEdit(*record)
	return c.JSON(fiber.Map{"draft": form.Draft(), "record": record})
}

func (r resource[D, R]) create(c *fiber.Ctx) error {
	rec := &notify.Recorder{}
	form := r.newForm(rec)
	defer form.Close()

	if err := r.bind(c, form); err != nil {
		return err
	}
	return r.submit(c, form, rec, fiber.StatusCreated)
}

// update overlays the request body on the draft of the stored record, so omitted fields
// keep their stored value. Form posts omit unchecked boxes, so for them toggles start off.
func (r resource[D, R]) update(c *fiber.Ctx) error {
	rec := &notify.Recorder{}
	form := r.newForm(rec)
	defer form.Close()

	record, err := r.get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, r.log, err, rec)
	}
	form.LoadForEdit(*record)

	if err := r.bind(c, form); err != nil {
		return err
	}
	return r.submit(c, form, rec, fiber.StatusOK)
}

func (r resource[D, R]) delete(c *fiber.Ctx) error {
	rec := &notify.Recorder{}
	form := r.newForm(rec)
	defer form.Close()

	confirmed := forms.Confirmed(c.QueryBool("confirm", false))
	if err := form.Delete(c.UserContext(), c.Params("id"), confirmed); err != nil {
		return fail(c, r.log, err, rec)
	}
	items, _ := form.Items()
	return c.JSON(fiber.Map{
		"message":       "Deleted",
		"items":         items,
		"notifications": notesOf(rec),
	})
}

// bind parses the body onto the form's draft and queues any uploaded files under imageField.
func (r resource[D, R]) bind(c *fiber.Ctx, form *forms.Controller[D, R]) error {
	contentType := string(c.Request().Header.ContentType())
	multipart := strings.HasPrefix(contentType, fiber.MIMEMultipartForm)
	if multipart || strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		form.ClearToggles()
	}

	draft := form.Draft()
	if err := c.BodyParser(&draft); err != nil {
		r.log.Debug().Err(err).Msg("error parsing form body")
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	form.SetDraft(draft)

	if r.imageField == "" || !multipart {
		return nil
	}
	mf, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form: "+err.Error())
	}
	for _, fh := range mf.File[r.imageField] {
		form.Select(upload.FromFileHeader(fh))
	}
	return nil
}

func (r resource[D, R]) submit(c *fiber.Ctx, form *forms.Controller[D, R], rec *notify.Recorder, status int) error {
	record, err := form.Submit(c.UserContext())
	if err != nil {
		return fail(c, r.log, err, rec)
	}
	items, _ := form.Items()
	return c.Status(status).JSON(fiber.Map{
		"message":       "Saved",
		"data":          record,
		"items":         items,
		"notifications": notesOf(rec),
	})
}
