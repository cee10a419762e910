package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is one schedule change record. OldPayload and NewPayload are full
// JSON snapshots of the affected state before and after the change.
type Entry struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	DoctorID   uuid.UUID       `json:"doctor_id" db:"doctor_id"`
	ChangeType string          `json:"change_type" db:"change_type"`
	OldPayload json.RawMessage `json:"old_payload" db:"old_payload"`
	NewPayload json.RawMessage `json:"new_payload" db:"new_payload"`
	ChangedBy  *uuid.UUID      `json:"changed_by,omitempty" db:"changed_by"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
