package slotbatch

import (
	"time"

	"github.com/google/uuid"
)

// Raw slot sources. SourceNone is the blocked-day sentinel: a single row with
// a null time that marks the whole day as unavailable.
const (
	SourceSpecific  = "SPECIFIC"
	SourceRecurring = "RECURRING"
	SourceNone      = "NONE"
)

// DeleteReasonReplaced marks rows superseded by a newer upload for the same
// day. Soft-deleted rows stay in the table so the version history is
// reconstructible.
const DeleteReasonReplaced = "replaced_by_upload"

// RawSlot is one uploaded slot row. Time is nil only for the blocked-day
// sentinel. Version is shared by every row of one upload for one day.
type RawSlot struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	DoctorID     uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	Day          time.Time  `json:"date" db:"day"`
	Time         *string    `json:"time" db:"slot_time"`
	Source       string     `json:"source" db:"source"`
	Version      int        `json:"version" db:"version"`
	Deleted      bool       `json:"deleted" db:"deleted"`
	DeleteReason *string    `json:"delete_reason,omitempty" db:"delete_reason"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	DeletedBy    *uuid.UUID `json:"deleted_by,omitempty" db:"deleted_by"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Blocked reports whether the day's active rows represent a blocked day:
// at least one row, all with null times.
func Blocked(rows []RawSlot) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if r.Time != nil {
			return false
		}
	}
	return true
}
