package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
)

type contactRelay interface {
	ContactMessage(name, email, phone, subject, message string)
}

// ContactService accepts contact-form submissions and relays them by email.
type ContactService struct {
	relay     contactRelay
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactService constructs a ContactService. relay may be nil.
func NewContactService(relay contactRelay, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{relay: relay, validator: validate, logger: logger}
}

// Submit validates the form and queues the relay email.
func (s *ContactService) Submit(_ context.Context, req dto.ContactRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	s.logger.Info("contact form received",
		zap.String("name", req.Name),
		zap.String("subject", req.Subject),
	)
	if s.relay != nil {
		s.relay.ContactMessage(req.Name, req.Email, req.Phone, req.Subject, req.Message)
	}
	return nil
}
