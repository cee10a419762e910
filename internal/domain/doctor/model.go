package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table. ScheduleMode records which definition
// kind currently governs the doctor's agenda; its values are owned by the
// schedule domain and stored here as plain text.
type Doctor struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	ScheduleMode string    `db:"schedule_mode" json:"schedule_mode"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
