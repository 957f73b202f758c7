package dto

// AvailabilityResponse is the public availability query result.
type AvailabilityResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
}

// UpsertOverrideRequest sets or updates a single (date, slot) override.
type UpsertOverrideRequest struct {
	Date        string `json:"date" binding:"required" validate:"required,datetime=2006-01-02"`
	TimeSlot    string `json:"time_slot" binding:"required" validate:"required,len=5"`
	IsAvailable bool   `json:"is_available"`
	IsBlocked   bool   `json:"is_blocked"`
	AdminNotes  string `json:"admin_notes,omitempty" validate:"omitempty,max=500"`
}

// BulkOverrideRequest applies one block/unblock decision across many
// dates and slots at once.
type BulkOverrideRequest struct {
	Dates       []string `json:"dates" binding:"required" validate:"required,min=1,dive,datetime=2006-01-02"`
	TimeSlots   []string `json:"time_slots" binding:"required" validate:"required,min=1,dive,len=5"`
	IsAvailable bool     `json:"is_available"`
	IsBlocked   bool     `json:"is_blocked"`
}

// UpsertPatternRequest replaces the weekly template for one weekday.
type UpsertPatternRequest struct {
	Slots []string `json:"slots" validate:"dive,len=5"`
}
