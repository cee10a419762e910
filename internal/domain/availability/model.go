package availability

import "github.com/google/uuid"

// DayEntry is one calendar day in the patient-facing view. Label carries the
// Portuguese weekday name for direct display. Times lists open slot starts;
// a blocked day has none and Blocked set.
type DayEntry struct {
	Date    string   `json:"date"`
	Label   string   `json:"label"`
	Source  string   `json:"source"`
	Blocked bool     `json:"blocked"`
	Times   []string `json:"times"`
}

// WeekSchedule is the availability response for one doctor over a date range.
// Timezone names the reference zone all times are expressed in.
type WeekSchedule struct {
	DoctorID uuid.UUID  `json:"doctor_id"`
	Start    string     `json:"start"`
	End      string     `json:"end"`
	Timezone string     `json:"timezone"`
	Days     []DayEntry `json:"days"`
}

const SourceNone = "NONE"
