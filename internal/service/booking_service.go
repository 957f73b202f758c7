package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	"github.com/noah-isme/ecs-booking-api/internal/models"
	"github.com/noah-isme/ecs-booking-api/internal/repository"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
	"github.com/noah-isme/ecs-booking-api/pkg/export"
)

const dateLayout = "2006-01-02"

type bookingStore interface {
	InsertActive(ctx context.Context, booking *models.Booking) error
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByReference(ctx context.Context, reference string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus, adminNotes *string, updatedBy *string) error
	Reschedule(ctx context.Context, id string, date time.Time, slot string, updatedBy *string) error
}

type slotGate interface {
	SlotBlocked(ctx context.Context, date time.Time, slot string) (bool, error)
	InvalidateDate(ctx context.Context, date time.Time)
}

type bookingNotifier interface {
	BookingCreated(booking *models.Booking)
}

type bookingMetrics interface {
	RecordBookingOutcome(outcome string)
}

// BookingService is the admission controller for appointment bookings. The
// double-booking race is settled by the store's conditional insert, never by
// in-process locking; this service validates, generates the reference, maps
// store conflicts to user-facing errors and triggers side effects.
type BookingService struct {
	repo      bookingStore
	gate      slotGate
	notifier  bookingNotifier
	refs      *ReferenceGenerator
	metrics   bookingMetrics
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService constructs a BookingService. notifier and metrics may be nil.
func NewBookingService(repo bookingStore, gate slotGate, notifier bookingNotifier, refs *ReferenceGenerator, metrics bookingMetrics, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if refs == nil {
		refs = NewReferenceGenerator("APP", 10)
	}
	return &BookingService{
		repo:      repo,
		gate:      gate,
		notifier:  notifier,
		refs:      refs,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Create admits or rejects a booking request. Validation failures and past
// dates never reach the store.
func (s *BookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	today := truncateToDay(s.now())
	if date.Before(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot book appointments in the past")
	}

	blocked, err := s.gate.SlotBlocked(ctx, date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if blocked {
		s.recordOutcome("blocked")
		return nil, appErrors.Clone(appErrors.ErrSlotConflict, "the selected time slot is no longer available, please select another time")
	}

	booking := &models.Booking{
		AppointmentType: models.AppointmentType(req.AppointmentType),
		Date:            date,
		TimeSlot:        req.TimeSlot,
		Status:          models.BookingPending,
		ParentName:      req.ParentName,
		ParentEmail:     req.ParentEmail,
		ParentPhone:     req.ParentPhone,
		ChildName:       optional(req.ChildName),
		ChildAgeGrade:   optional(req.ChildAgeGrade),
		AdditionalNotes: optional(req.AdditionalNotes),
	}

	// The reference uniqueness constraint can still trip between generation
	// and insert; regenerate and retry a few times before giving up.
	const insertAttempts = 3
	for attempt := 0; attempt < insertAttempts; attempt++ {
		reference, err := s.refs.Generate(ctx, date, s.repo.ReferenceExists)
		if err != nil {
			return nil, s.storeError(err, "failed to generate booking reference")
		}
		booking.ReferenceNumber = reference

		err = s.repo.InsertActive(ctx, booking)
		if err == nil {
			s.afterCreate(ctx, booking)
			return &dto.BookingCreatedResponse{BookingID: booking.ID, ReferenceNumber: booking.ReferenceNumber}, nil
		}
		if errors.Is(err, repository.ErrSlotTaken) {
			s.recordOutcome("conflict")
			return nil, appErrors.Clone(appErrors.ErrSlotConflict, "the selected time slot is no longer available, please select another time")
		}
		if errors.Is(err, repository.ErrReferenceTaken) {
			continue
		}
		return nil, s.storeError(err, "failed to persist booking")
	}
	return nil, appErrors.Wrap(fmt.Errorf("reference collisions exhausted %d insert attempts", insertAttempts),
		appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate a booking reference")
}

func (s *BookingService) afterCreate(ctx context.Context, booking *models.Booking) {
	s.gate.InvalidateDate(ctx, booking.Date)
	s.recordOutcome("created")
	if s.notifier != nil {
		s.notifier.BookingCreated(booking)
	}
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("reference", booking.ReferenceNumber),
		zap.String("date", booking.Date.Format(dateLayout)),
		zap.String("slot", booking.TimeSlot),
	)
}

// GetByReference returns a booking by its public reference number.
func (s *BookingService) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	booking, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, s.storeError(err, "failed to load booking")
	}
	return booking, nil
}

// List returns bookings for the admin surface.
func (s *BookingService) List(ctx context.Context, req dto.BookingListRequest) ([]models.Booking, *models.Pagination, error) {
	filter := models.BookingFilter{Search: req.Search, Page: req.Page, PageSize: req.PageSize}
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
		}
		filter.Date = &date
	}
	if req.Status != "" {
		status := models.BookingStatus(req.Status)
		if !status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
		}
		filter.Status = &status
	}

	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, s.storeError(err, "failed to list bookings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return bookings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update applies admin mutations: status changes, note edits and reschedules.
// A reschedule re-checks occupancy of the target slot at the store; the moved
// booking never conflicts with itself.
func (s *BookingService) Update(ctx context.Context, id string, req dto.UpdateBookingRequest, claims *models.JWTClaims) (*models.Booking, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, s.storeError(err, "failed to load booking")
	}

	updatedBy := &claims.UserID

	if req.Date != "" || req.TimeSlot != "" {
		newDate := existing.Date
		if req.Date != "" {
			parsed, err := time.Parse(dateLayout, req.Date)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
			}
			newDate = parsed
		}
		newSlot := existing.TimeSlot
		if req.TimeSlot != "" {
			newSlot = req.TimeSlot
		}

		if err := s.repo.Reschedule(ctx, id, newDate, newSlot, updatedBy); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return nil, appErrors.Clone(appErrors.ErrSlotConflict, "the requested time slot is already booked")
			}
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
			}
			return nil, s.storeError(err, "failed to reschedule booking")
		}
		s.gate.InvalidateDate(ctx, existing.Date)
		s.gate.InvalidateDate(ctx, newDate)
	}

	if req.Status != "" || req.AdminNotes != "" {
		status := existing.Status
		if req.Status != "" {
			status = models.BookingStatus(req.Status)
		}
		if err := s.repo.UpdateStatus(ctx, id, status, optional(req.AdminNotes), updatedBy); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
			}
			return nil, s.storeError(err, "failed to update booking")
		}
		if status == models.BookingCancelled && existing.Status != models.BookingCancelled {
			// Cancelling releases the slot for new admissions.
			s.gate.InvalidateDate(ctx, existing.Date)
			s.recordOutcome("cancelled")
		}
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "failed to reload booking")
	}
	return updated, nil
}

// ExportDay renders the bookings of one date as CSV or PDF.
func (s *BookingService) ExportDay(ctx context.Context, date time.Time, format string) ([]byte, string, error) {
	bookings, _, err := s.repo.List(ctx, models.BookingFilter{Date: &date, PageSize: 200})
	if err != nil {
		return nil, "", s.storeError(err, "failed to load bookings for export")
	}

	dataset := export.Dataset{
		Headers: []string{"Reference", "Time", "Type", "Parent", "Email", "Phone", "Child", "Status"},
		Rows:    make([]map[string]string, 0, len(bookings)),
	}
	for _, b := range bookings {
		row := map[string]string{
			"Reference": b.ReferenceNumber,
			"Time":      b.TimeSlot,
			"Type":      string(b.AppointmentType),
			"Parent":    b.ParentName,
			"Email":     b.ParentEmail,
			"Phone":     b.ParentPhone,
			"Status":    string(b.Status),
		}
		if b.ChildName != nil {
			row["Child"] = *b.ChildName
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	title := "Appointments " + date.Format(dateLayout)
	switch format {
	case "pdf":
		raw, err := export.NewPDFExporter().Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return raw, "application/pdf", nil
	case "", "csv":
		raw, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return raw, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *BookingService) storeError(err error, message string) error {
	return mapStoreError(err, s.logger, message)
}

func (s *BookingService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordBookingOutcome(outcome)
	}
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return fmt.Sprintf("field %s failed validation on %s", first.Field(), first.Tag())
	}
	return "validation failed"
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
