package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AvailabilityOverride is an explicit admin decision about one (date, time slot) pair.
// IsBlocked takes precedence over IsAvailable.
type AvailabilityOverride struct {
	ID          string    `db:"id" json:"id"`
	Date        time.Time `db:"date" json:"date"`
	TimeSlot    string    `db:"time_slot" json:"time_slot"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	IsBlocked   bool      `db:"is_blocked" json:"is_blocked"`
	AdminNotes  *string   `db:"admin_notes" json:"admin_notes,omitempty"`
	UpdatedBy   *string   `db:"updated_by" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SlotList stores an ordered set of HH:MM labels as a jsonb column.
type SlotList []string

// Value implements driver.Valuer.
func (s SlotList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *SlotList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported slot list type %T", src)
	}
}

// RecurringPattern is the admin's default weekly template for one weekday.
// Absence of a row for a weekday means "use configured defaults".
type RecurringPattern struct {
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	Slots     SlotList  `db:"slots" json:"slots"`
	UpdatedBy *string   `db:"updated_by" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
