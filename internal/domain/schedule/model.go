package schedule

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleMode selects which definition kind currently governs a doctor.
type ScheduleMode string

const (
	ModeRecurring ScheduleMode = "RECURRING"
	ModeSpecific  ScheduleMode = "SPECIFIC"
)

// TimeWindow is one bookable stretch within a day. Start and End are strict
// HH:mm clock strings in the reference timezone. Interval and end-buffer
// overrides, when present, take precedence over the owning settings record.
type TimeWindow struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Start            string    `db:"start_time" json:"start"`
	End              string    `db:"end_time" json:"end"`
	IntervalMinutes  *int      `db:"interval_minutes" json:"interval_minutes,omitempty"`
	EndBufferMinutes *int      `db:"end_buffer_minutes" json:"end_buffer_minutes,omitempty"`
}

// RecurringRule holds the weekly template for one weekday. An absent rule
// means no availability on that weekday.
type RecurringRule struct {
	ID       uuid.UUID    `db:"id" json:"id"`
	DoctorID uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	Weekday  Weekday      `db:"weekday" json:"weekday"`
	Enabled  bool         `db:"enabled" json:"enabled"`
	Windows  []TimeWindow `json:"windows"`
}

// RecurringSettings carries the interval/buffer defaults and active date
// range for the weekly template.
type RecurringSettings struct {
	DoctorID        uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	IntervalMinutes int        `db:"interval_minutes" json:"interval_minutes"`
	BufferMinutes   int        `db:"buffer_minutes" json:"buffer_minutes"`
	StartDate       *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate         *time.Time `db:"end_date" json:"end_date,omitempty"`
	NoEndDate       bool       `db:"no_end_date" json:"no_end_date"`
	Enabled         bool       `db:"enabled" json:"enabled"`
	RecurringActive bool       `db:"recurring_active" json:"recurring_active"`
}

// SpecificDay is a one-off override for a calendar date. When present it
// fully supersedes the recurring rule for that date.
type SpecificDay struct {
	ID       uuid.UUID    `db:"id" json:"id"`
	DoctorID uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	Day      time.Time    `db:"day" json:"day"`
	Windows  []TimeWindow `json:"windows"`
}

// SpecificSettings holds the interval/buffer defaults for specific days.
type SpecificSettings struct {
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	IntervalMinutes int       `db:"interval_minutes" json:"interval_minutes"`
	BufferMinutes   int       `db:"buffer_minutes" json:"buffer_minutes"`
}

// ExceptionDate suppresses recurring availability on one date even when the
// weekday rule is enabled and the date falls inside the active range.
type ExceptionDate struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Day         time.Time `db:"day" json:"day"`
	Description *string   `db:"description" json:"description,omitempty"`
}

// Definitions is the full persisted definition set for one doctor.
type Definitions struct {
	Rules             []RecurringRule
	RecurringSettings *RecurringSettings
	SpecificDays      []SpecificDay
	SpecificSettings  *SpecificSettings
	Exceptions        []ExceptionDate
}

// RuleFor returns the recurring rule for the given weekday, or nil.
func (d *Definitions) RuleFor(w Weekday) *RecurringRule {
	for i := range d.Rules {
		if d.Rules[i].Weekday == w {
			return &d.Rules[i]
		}
	}
	return nil
}

// SpecificFor returns the specific-day override for the given date, or nil.
func (d *Definitions) SpecificFor(day time.Time) *SpecificDay {
	for i := range d.SpecificDays {
		if SameDate(d.SpecificDays[i].Day, day) {
			return &d.SpecificDays[i]
		}
	}
	return nil
}

// IsException reports whether the given date carries an exception.
func (d *Definitions) IsException(day time.Time) bool {
	for i := range d.Exceptions {
		if SameDate(d.Exceptions[i].Day, day) {
			return true
		}
	}
	return false
}

// DateOnly truncates t to its calendar date, dropping the clock and zone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

const DateLayout = "2006-01-02"

// FormatDate renders a date column value as ISO yyyy-mm-dd.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
