package services

import (
	"context"
	"time"

	"atelier/internal/validation"

	"github.com/rs/zerolog"
)

// ContactMessage is a visitor's contact form submission.
type ContactMessage struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

// ContactService accepts contact messages. Nothing is sent or stored: after validation it
// waits the simulated latency and reports success.
type ContactService struct {
	delay    time.Duration
	validate *validation.Validator
	log      zerolog.Logger
}

// NewContactService creates a ContactService that waits delay before accepting a message.
func NewContactService(delay time.Duration, log zerolog.Logger) *ContactService {
	return &ContactService{
		delay:    delay,
		validate: validation.New("json"),
		log:      log.With().Str("component", "contact").Logger(),
	}
}

// Send validates msg and waits out the simulated latency. It returns ctx.Err() if the
// caller goes away first.
func (s *ContactService) Send(ctx context.Context, msg ContactMessage) error {
	if err := s.validate.Struct(msg); err != nil {
		return err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	s.log.Info().Str("subject", msg.Subject).Msg("contact message accepted")
	return nil
}
