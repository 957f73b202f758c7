package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecs-booking-api/internal/models"
)

// Sentinel errors surfaced by conditional writes so the service layer can map
// them to user-facing conflicts instead of generic failures.
var (
	ErrSlotTaken      = errors.New("slot already booked")
	ErrReferenceTaken = errors.New("reference number already exists")
)

const activeSlotIndex = "bookings_active_slot_idx"

// BookingRepository persists appointment bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// InsertActive commits a new booking. The bookings_active_slot_idx partial
// unique index guarantees at most one non-cancelled booking per (date, slot);
// a losing concurrent insert receives ErrSlotTaken rather than succeeding.
func (r *BookingRepository) InsertActive(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	const query = `
INSERT INTO bookings (id, reference_number, appointment_type, date, time_slot, status,
	parent_name, parent_email, parent_phone, child_name, child_age_grade,
	additional_notes, admin_notes, updated_by, created_at, updated_at)
VALUES (:id, :reference_number, :appointment_type, :date, :time_slot, :status,
	:parent_name, :parent_email, :parent_phone, :child_name, :child_age_grade,
	:additional_notes, :admin_notes, :updated_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		if isUniqueViolation(err, activeSlotIndex) {
			return ErrSlotTaken
		}
		if isUniqueViolation(err, "bookings_reference_number_key") {
			return ErrReferenceTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ReferenceExists reports whether a reference number is already assigned.
func (r *BookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE reference_number = $1)`, reference); err != nil {
		return false, fmt.Errorf("check reference: %w", err)
	}
	return exists, nil
}

// FindByID fetches a booking by identity.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	const query = `SELECT id, reference_number, appointment_type, date, time_slot, status,
	parent_name, parent_email, parent_phone, child_name, child_age_grade,
	additional_notes, admin_notes, updated_by, created_at, updated_at
FROM bookings WHERE id = $1`
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByReference fetches a booking by its human-facing reference number.
func (r *BookingRepository) FindByReference(ctx context.Context, reference string) (*models.Booking, error) {
	const query = `SELECT id, reference_number, appointment_type, date, time_slot, status,
	parent_name, parent_email, parent_phone, child_name, child_age_grade,
	additional_notes, admin_notes, updated_by, created_at, updated_at
FROM bookings WHERE reference_number = $1`
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, reference); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListActiveSlotsByDate returns time slots claimed by non-cancelled bookings
// on a date, for availability resolution.
func (r *BookingRepository) ListActiveSlotsByDate(ctx context.Context, date time.Time) ([]string, error) {
	const query = `SELECT time_slot FROM bookings WHERE date = $1 AND status <> 'cancelled' ORDER BY time_slot ASC`
	var slots []string
	if err := r.db.SelectContext(ctx, &slots, query, date); err != nil {
		return nil, fmt.Errorf("list booked slots: %w", err)
	}
	return slots, nil
}

// List returns bookings matching the filter plus a total count.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Date != nil {
		where = append(where, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, *filter.Date)
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(parent_name ILIKE $%d OR parent_email ILIKE $%d OR reference_number ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, reference_number, appointment_type, date, time_slot, status,
	parent_name, parent_email, parent_phone, child_name, child_age_grade,
	additional_notes, admin_notes, updated_by, created_at, updated_at
FROM bookings WHERE %s ORDER BY date ASC, time_slot ASC LIMIT %d OFFSET %d`, whereClause, size, offset)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookings WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}
	return bookings, total, nil
}

// UpdateStatus mutates a booking's status and admin notes by identity.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus, adminNotes *string, updatedBy *string) error {
	const query = `UPDATE bookings SET status = $1, admin_notes = COALESCE($2, admin_notes),
	updated_by = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, status, adminNotes, updatedBy, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Reschedule moves a booking to a new (date, slot). The partial unique index
// rejects a move onto a slot held by another active booking while a no-op
// move onto the booking's own slot succeeds.
func (r *BookingRepository) Reschedule(ctx context.Context, id string, date time.Time, slot string, updatedBy *string) error {
	const query = `UPDATE bookings SET date = $1, time_slot = $2, updated_by = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, date, slot, updatedBy, time.Now().UTC(), id)
	if err != nil {
		if isUniqueViolation(err, activeSlotIndex) {
			return ErrSlotTaken
		}
		return fmt.Errorf("reschedule booking: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
