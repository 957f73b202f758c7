package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecs-booking-api/internal/models"
)

// NotificationRepository records email delivery outcomes.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a notification repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert stores one delivery-status record.
func (r *NotificationRepository) Insert(ctx context.Context, notification *models.EmailNotification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO email_notifications (id, booking_id, type, recipient, status, error, created_at)
VALUES (:id, :booking_id, :type, :recipient, :status, :error, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("insert email notification: %w", err)
	}
	return nil
}

// ListByBooking returns delivery records for one booking, newest first.
func (r *NotificationRepository) ListByBooking(ctx context.Context, bookingID string) ([]models.EmailNotification, error) {
	const query = `SELECT id, booking_id, type, recipient, status, error, created_at
FROM email_notifications WHERE booking_id = $1 ORDER BY created_at DESC`
	var notifications []models.EmailNotification
	if err := r.db.SelectContext(ctx, &notifications, query, bookingID); err != nil {
		return nil, fmt.Errorf("list email notifications: %w", err)
	}
	return notifications, nil
}
