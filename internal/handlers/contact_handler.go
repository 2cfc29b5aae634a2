package handlers

import (
	"atelier/internal/notify"
	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	contact *services.ContactService
	log     zerolog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contact *services.ContactService, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, log: log.With().Str("component", "contact_handler").Logger()}
}

// RegisterRoutes registers the contact route.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleContact)
}

// HandleContact handles POST /contact.
func (h *ContactHandler) HandleContact(c *fiber.Ctx) error {
	var msg services.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	rec := &notify.Recorder{}
	if err := h.contact.Send(c.UserContext(), msg); err != nil {
		return fail(c, h.log, err, rec)
	}

	rec.Notify(notify.Success("Message sent", "Thank you, we will get back to you soon."))
	return c.JSON(fiber.Map{
		"message":       "Message sent",
		"notifications": notesOf(rec),
	})
}
