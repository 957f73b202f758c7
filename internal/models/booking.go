package models

import "time"

// BookingStatus enumerates the lifecycle states of an appointment booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// AppointmentType enumerates the kinds of appointments parents can book.
type AppointmentType string

const (
	AppointmentSchoolTour     AppointmentType = "school_tour"
	AppointmentConsultation   AppointmentType = "admissions_consultation"
	AppointmentGeneralInquiry AppointmentType = "general_inquiry"
	AppointmentOther          AppointmentType = "other"
)

// Valid reports whether the appointment type is one of the known values.
func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentSchoolTour, AppointmentConsultation, AppointmentGeneralInquiry, AppointmentOther:
		return true
	}
	return false
}

// Booking represents a parent's claim on one (date, time slot) pair.
// At most one booking with status other than cancelled may exist per pair;
// the bookings_active_slot_idx partial unique index enforces this in the store.
type Booking struct {
	ID              string          `db:"id" json:"id"`
	ReferenceNumber string          `db:"reference_number" json:"reference_number"`
	AppointmentType AppointmentType `db:"appointment_type" json:"appointment_type"`
	Date            time.Time       `db:"date" json:"date"`
	TimeSlot        string          `db:"time_slot" json:"time_slot"`
	Status          BookingStatus   `db:"status" json:"status"`
	ParentName      string          `db:"parent_name" json:"parent_name"`
	ParentEmail     string          `db:"parent_email" json:"parent_email"`
	ParentPhone     string          `db:"parent_phone" json:"parent_phone"`
	ChildName       *string         `db:"child_name" json:"child_name,omitempty"`
	ChildAgeGrade   *string         `db:"child_age_grade" json:"child_age_grade,omitempty"`
	AdditionalNotes *string         `db:"additional_notes" json:"additional_notes,omitempty"`
	AdminNotes      *string         `db:"admin_notes" json:"admin_notes,omitempty"`
	UpdatedBy       *string         `db:"updated_by" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// BookingFilter captures filtering criteria for listing bookings.
type BookingFilter struct {
	Date     *time.Time
	Status   *BookingStatus
	Search   string
	Page     int
	PageSize int
}
