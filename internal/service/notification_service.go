package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ecs-booking-api/internal/models"
	"github.com/noah-isme/ecs-booking-api/pkg/jobs"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers outbound email. Implementations must be safe for
// concurrent use by queue workers.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer writes outbound mail to the log instead of a provider. Used in
// development and as the default when no provider is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.logger.Info("outbound email",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
	)
	return nil
}

type notificationLog interface {
	Insert(ctx context.Context, notification *models.EmailNotification) error
}

// NotificationConfig carries the sender identity and school contact details
// rendered into outbound mail.
type NotificationConfig struct {
	Enabled     bool
	FromAddress string
	AdminEmail  string
	SchoolName  string
	SchoolPhone string
	SchoolEmail string
}

type emailJob struct {
	BookingID *string
	Type      models.NotificationType
	Email     Email
}

// NotificationService renders and dispatches email asynchronously. Delivery
// runs on a background queue; every attempt is recorded in the notification
// log and failures are never surfaced to the caller that triggered them.
type NotificationService struct {
	mailer Mailer
	log    notificationLog
	cfg    NotificationConfig
	logger *zap.Logger
	queue  *jobs.Queue
}

// NewNotificationService wires the service and its queue. Call Start before
// enqueueing and Stop on shutdown.
func NewNotificationService(mailer Mailer, log notificationLog, cfg NotificationConfig, workers int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	s := &NotificationService{mailer: mailer, log: log, cfg: cfg, logger: logger}
	s.queue = jobs.NewQueue("email", s.process, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// BookingCreated queues the parent confirmation and the admin alert.
func (s *NotificationService) BookingCreated(booking *models.Booking) {
	if !s.cfg.Enabled || booking == nil {
		return
	}
	date := booking.Date.Format(dateLayout)

	s.enqueue(emailJob{
		BookingID: &booking.ID,
		Type:      models.NotificationBookingCreated,
		Email: Email{
			To:      booking.ParentEmail,
			Subject: fmt.Sprintf("Appointment request received: %s", booking.ReferenceNumber),
			Body: fmt.Sprintf(
				"Dear %s,\n\nYour appointment request at %s has been received.\n\nReference: %s\nDate: %s\nTime: %s\n\nQuestions? Call %s or reply to %s.\n",
				booking.ParentName, s.cfg.SchoolName, booking.ReferenceNumber, date, booking.TimeSlot,
				s.cfg.SchoolPhone, s.cfg.SchoolEmail,
			),
		},
	})

	if s.cfg.AdminEmail == "" {
		return
	}
	s.enqueue(emailJob{
		BookingID: &booking.ID,
		Type:      models.NotificationAdminAlert,
		Email: Email{
			To:      s.cfg.AdminEmail,
			Subject: fmt.Sprintf("New booking %s on %s %s", booking.ReferenceNumber, date, booking.TimeSlot),
			Body: fmt.Sprintf(
				"New %s booking.\n\nReference: %s\nDate: %s\nTime: %s\nParent: %s (%s, %s)\n",
				booking.AppointmentType, booking.ReferenceNumber, date, booking.TimeSlot,
				booking.ParentName, booking.ParentEmail, booking.ParentPhone,
			),
		},
	})
}

// ContactMessage queues a contact-form relay to the school inbox.
func (s *NotificationService) ContactMessage(name, email, phone, subject, message string) {
	if !s.cfg.Enabled || s.cfg.AdminEmail == "" {
		return
	}
	s.enqueue(emailJob{
		Type: models.NotificationContactForm,
		Email: Email{
			To:      s.cfg.AdminEmail,
			Subject: fmt.Sprintf("Contact form: %s", subject),
			Body: fmt.Sprintf(
				"From: %s <%s>\nPhone: %s\n\n%s\n",
				name, email, phone, message,
			),
		},
	})
}

func (s *NotificationService) enqueue(job emailJob) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    string(job.Type),
		Payload: job,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue email", zap.String("type", string(job.Type)), zap.Error(err))
	}
}

// process delivers one email and records the outcome. It always returns nil;
// the delivery log is the record of failures and the queue must not retry
// forever against a dead provider.
func (s *NotificationService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(emailJob)
	if !ok {
		s.logger.Error("unexpected email job payload", zap.String("job_id", job.ID))
		return nil
	}

	record := &models.EmailNotification{
		BookingID: payload.BookingID,
		Type:      payload.Type,
		Recipient: payload.Email.To,
		Status:    models.NotificationSent,
	}
	if err := s.mailer.Send(ctx, payload.Email); err != nil {
		msg := err.Error()
		record.Status = models.NotificationFailed
		record.Error = &msg
		s.logger.Warn("email delivery failed",
			zap.String("type", string(payload.Type)),
			zap.String("to", payload.Email.To),
			zap.Error(err),
		)
	}

	if s.log != nil {
		if err := s.log.Insert(ctx, record); err != nil {
			s.logger.Warn("failed to record notification", zap.Error(err))
		}
	}
	return nil
}
