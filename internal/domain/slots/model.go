package slots

import (
	"time"

	"github.com/google/uuid"
)

// Source records which definition branch produced a materialized slot.
type Source string

const (
	SourceSpecific  Source = "SPECIFIC"
	SourceRecurring Source = "RECURRING"
)

// Status of a materialized slot. Blocked slots are kept in the table so a
// regeneration never resurrects a time a patient already booked.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBlocked   Status = "BLOCKED"
)

// MaterializedSlot is one bookable interval on a concrete date. Start and End
// are wall-clock times in HH:MM within Day; StartAt and EndAt are the same
// boundaries as instants in the reference timezone.
type MaterializedSlot struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`
	Day       time.Time `json:"date" db:"day"`
	Start     string    `json:"start" db:"start_time"`
	End       string    `json:"end" db:"end_time"`
	StartAt   time.Time `json:"start_at" db:"start_at"`
	EndAt     time.Time `json:"end_at" db:"end_at"`
	Source    Source    `json:"source" db:"source"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Instant places a clock-minute offset on a date in loc.
func Instant(day time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc)
}

// BlockedKey identifies a slot start instant for appointment collision
// checks, formatted as "2006-01-02T15:04".
func BlockedKey(day time.Time, clock string) string {
	return day.Format("2006-01-02") + "T" + clock
}
