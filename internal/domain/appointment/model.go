package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses that keep a slot blocked. Cancelled and no-show
// appointments release the slot on the next regeneration.
var BlockingStatuses = []string{"pending", "confirmed", "in_progress", "done"}

type Appointment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	Day       time.Time `json:"date" db:"day"`
	Start     string    `json:"start" db:"start_time"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
