package dto

// CreateBookingRequest is the public booking submission payload.
type CreateBookingRequest struct {
	AppointmentType string `json:"appointment_type" binding:"required" validate:"required,oneof=school_tour admissions_consultation general_inquiry other"`
	Date            string `json:"date" binding:"required" validate:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"time_slot" binding:"required" validate:"required,len=5"`
	ParentName      string `json:"parent_name" binding:"required" validate:"required,min=2,max=100"`
	ParentEmail     string `json:"parent_email" binding:"required" validate:"required,email"`
	ParentPhone     string `json:"parent_phone" binding:"required" validate:"required,min=10,max=20"`
	ChildName       string `json:"child_name,omitempty" validate:"omitempty,max=100"`
	ChildAgeGrade   string `json:"child_age_grade,omitempty" validate:"omitempty,max=50"`
	AdditionalNotes string `json:"additional_notes,omitempty" validate:"omitempty,max=500"`
}

// BookingCreatedResponse confirms a successful admission.
type BookingCreatedResponse struct {
	BookingID       string `json:"booking_id"`
	ReferenceNumber string `json:"reference_number"`
}

// UpdateBookingRequest is the admin mutation payload. Any combination of
// status change, note edit and reschedule may be supplied.
type UpdateBookingRequest struct {
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled"`
	AdminNotes string `json:"admin_notes,omitempty" validate:"omitempty,max=1000"`
	Date       string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TimeSlot   string `json:"time_slot,omitempty" validate:"omitempty,len=5"`
}

// BookingListRequest captures admin list filters.
type BookingListRequest struct {
	Date     string
	Status   string
	Search   string
	Page     int
	PageSize int
}
