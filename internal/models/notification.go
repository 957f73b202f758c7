package models

import "time"

// NotificationType labels the kind of outbound email.
type NotificationType string

const (
	NotificationBookingCreated NotificationType = "booking_created"
	NotificationAdminAlert     NotificationType = "admin_notification"
	NotificationContactForm    NotificationType = "contact_form"
)

// NotificationStatus records the best-effort delivery outcome.
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// EmailNotification is a delivery-status record stored alongside a booking.
// Delivery failures never fail the booking that triggered them.
type EmailNotification struct {
	ID        string             `db:"id" json:"id"`
	BookingID *string            `db:"booking_id" json:"booking_id,omitempty"`
	Type      NotificationType   `db:"type" json:"type"`
	Recipient string             `db:"recipient" json:"recipient"`
	Status    NotificationStatus `db:"status" json:"status"`
	Error     *string            `db:"error" json:"error,omitempty"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}
