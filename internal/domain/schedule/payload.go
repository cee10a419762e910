package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

// SavePayload is the wholesale definition-replace request. Day keys in the
// recurring map accept the weekday synonym table; day keys in the specific
// map are ISO dates.
type SavePayload struct {
	Mode      string            `json:"mode"`
	Recurring *RecurringPayload `json:"recurring,omitempty"`
	Specific  *SpecificPayload  `json:"specific,omitempty"`
}

type RecurringPayload struct {
	Settings RecurringSettingsPayload   `json:"settings"`
	Days     map[string][]WindowPayload `json:"days"`
}

type RecurringSettingsPayload struct {
	IntervalMinutes int    `json:"interval_minutes"`
	BufferMinutes   int    `json:"buffer_minutes"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	NoEndDate       bool   `json:"no_end_date"`
	Enabled         bool   `json:"enabled"`
	RecurringActive bool   `json:"recurring_active"`
}

type SpecificPayload struct {
	Settings *SpecificSettingsPayload   `json:"settings,omitempty"`
	Days     map[string][]WindowPayload `json:"days"`
}

type SpecificSettingsPayload struct {
	IntervalMinutes int `json:"interval_minutes"`
	BufferMinutes   int `json:"buffer_minutes"`
}

type WindowPayload struct {
	Start            string `json:"start"`
	End              string `json:"end"`
	IntervalMinutes  *int   `json:"interval_minutes,omitempty"`
	EndBufferMinutes *int   `json:"end_buffer_minutes,omitempty"`
}

// BuildDefinitions validates the payload in full and converts it to the
// persisted definition set. No write happens before this returns nil error,
// which is what makes the save all-or-nothing.
func (p *SavePayload) BuildDefinitions(doctorID uuid.UUID) (*Definitions, ScheduleMode, error) {
	mode := ScheduleMode(p.Mode)
	if mode == "" {
		mode = ModeRecurring
	}
	if mode != ModeRecurring && mode != ModeSpecific {
		return nil, "", apperror.Validation("VALIDATION_ERROR", "mode must be RECURRING or SPECIFIC").
			WithDetail("mode", p.Mode)
	}

	defs := &Definitions{}

	if p.Recurring != nil {
		settings, err := p.Recurring.Settings.build(doctorID)
		if err != nil {
			return nil, "", err
		}
		defs.RecurringSettings = settings

		for key, windows := range p.Recurring.Days {
			weekday, ok := ParseWeekday(key)
			if !ok {
				return nil, "", apperror.Validation("INVALID_WEEKDAY", "unrecognized weekday key").
					WithDetail("day", key)
			}
			built, err := buildWindows(key, windows)
			if err != nil {
				return nil, "", err
			}
			defs.Rules = append(defs.Rules, RecurringRule{
				ID:       uuid.New(),
				DoctorID: doctorID,
				Weekday:  weekday,
				Enabled:  true,
				Windows:  built,
			})
		}
		sort.Slice(defs.Rules, func(i, j int) bool {
			return defs.Rules[i].Weekday < defs.Rules[j].Weekday
		})
	}

	if p.Specific != nil {
		if len(p.Specific.Days) > 0 {
			if p.Specific.Settings == nil {
				return nil, "", apperror.Validation("VALIDATION_ERROR",
					"specific settings are required when specific days are supplied").
					WithDetail("field", "specific.settings")
			}
			if p.Specific.Settings.IntervalMinutes <= 0 {
				return nil, "", apperror.Validation("INVALID_INTERVAL",
					"specific interval_minutes must be positive").
					WithDetail("interval_minutes", p.Specific.Settings.IntervalMinutes)
			}
			if p.Specific.Settings.BufferMinutes < 0 {
				return nil, "", apperror.Validation("INVALID_BUFFER",
					"specific buffer_minutes must not be negative").
					WithDetail("buffer_minutes", p.Specific.Settings.BufferMinutes)
			}
		}
		if p.Specific.Settings != nil {
			defs.SpecificSettings = &SpecificSettings{
				DoctorID:        doctorID,
				IntervalMinutes: p.Specific.Settings.IntervalMinutes,
				BufferMinutes:   p.Specific.Settings.BufferMinutes,
			}
		}

		for key, windows := range p.Specific.Days {
			day, err := time.Parse(DateLayout, key)
			if err != nil {
				return nil, "", apperror.Validation("INVALID_DATE", "invalid specific day date").
					WithDetail("date", key)
			}
			built, err := buildWindows(key, windows)
			if err != nil {
				return nil, "", err
			}
			defs.SpecificDays = append(defs.SpecificDays, SpecificDay{
				ID:       uuid.New(),
				DoctorID: doctorID,
				Day:      day,
				Windows:  built,
			})
		}
		sort.Slice(defs.SpecificDays, func(i, j int) bool {
			return defs.SpecificDays[i].Day.Before(defs.SpecificDays[j].Day)
		})
	}

	return defs, mode, nil
}

func (sp *RecurringSettingsPayload) build(doctorID uuid.UUID) (*RecurringSettings, error) {
	if sp.IntervalMinutes <= 0 {
		return nil, apperror.Validation("INVALID_INTERVAL", "recurring interval_minutes must be positive").
			WithDetail("interval_minutes", sp.IntervalMinutes)
	}
	if sp.BufferMinutes < 0 {
		return nil, apperror.Validation("INVALID_BUFFER", "recurring buffer_minutes must not be negative").
			WithDetail("buffer_minutes", sp.BufferMinutes)
	}

	s := &RecurringSettings{
		DoctorID:        doctorID,
		IntervalMinutes: sp.IntervalMinutes,
		BufferMinutes:   sp.BufferMinutes,
		NoEndDate:       sp.NoEndDate,
		Enabled:         sp.Enabled,
		RecurringActive: sp.RecurringActive,
	}

	if sp.StartDate != "" {
		start, err := time.Parse(DateLayout, sp.StartDate)
		if err != nil {
			return nil, apperror.Validation("INVALID_DATE", "invalid recurring start_date").
				WithDetail("start_date", sp.StartDate)
		}
		s.StartDate = &start
	}
	if sp.EndDate != "" {
		if sp.NoEndDate {
			return nil, apperror.Validation("VALIDATION_ERROR",
				"end_date must be empty when no_end_date is set").
				WithDetail("end_date", sp.EndDate)
		}
		end, err := time.Parse(DateLayout, sp.EndDate)
		if err != nil {
			return nil, apperror.Validation("INVALID_DATE", "invalid recurring end_date").
				WithDetail("end_date", sp.EndDate)
		}
		if s.StartDate != nil && end.Before(*s.StartDate) {
			return nil, apperror.Validation("VALIDATION_ERROR",
				"end_date must not be before start_date").
				WithDetail("start_date", sp.StartDate).
				WithDetail("end_date", sp.EndDate)
		}
		s.EndDate = &end
	}

	return s, nil
}

// buildWindows sorts the windows chronologically and validates shape,
// ordering and overrides. dayKey only feeds the error details.
func buildWindows(dayKey string, windows []WindowPayload) ([]TimeWindow, error) {
	sorted := make([]WindowPayload, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	built := make([]TimeWindow, 0, len(sorted))
	prevEnd := -1
	for i, w := range sorted {
		if w.Start == "" || w.End == "" {
			return nil, apperror.Validation("VALIDATION_ERROR", "window start and end are required").
				WithDetail("day", dayKey).WithDetail("index", i)
		}
		start, err := ParseClock(w.Start)
		if err != nil {
			return nil, apperror.Validation("INVALID_TIME_FORMAT", err.Error()).
				WithDetail("day", dayKey).WithDetail("index", i)
		}
		end, err := ParseClock(w.End)
		if err != nil {
			return nil, apperror.Validation("INVALID_TIME_FORMAT", err.Error()).
				WithDetail("day", dayKey).WithDetail("index", i)
		}
		if start >= end {
			return nil, apperror.Validation("INVALID_TIME_RANGE", "window start must be before end").
				WithDetail("day", dayKey).WithDetail("index", i)
		}
		if start < prevEnd {
			return nil, apperror.Validation("WINDOW_OVERLAP", "window overlaps the previous one").
				WithDetail("day", dayKey).WithDetail("index", i)
		}
		if w.IntervalMinutes != nil && *w.IntervalMinutes <= 0 {
			return nil, apperror.Validation("INVALID_INTERVAL", "window interval_minutes must be positive").
				WithDetail("day", dayKey).WithDetail("index", i)
		}
		if w.EndBufferMinutes != nil && *w.EndBufferMinutes < 0 {
			return nil, apperror.Validation("INVALID_BUFFER", "window end_buffer_minutes must not be negative").
				WithDetail("day", dayKey).WithDetail("index", i)
		}

		prevEnd = end
		built = append(built, TimeWindow{
			ID:               uuid.New(),
			Start:            w.Start,
			End:              w.End,
			IntervalMinutes:  w.IntervalMinutes,
			EndBufferMinutes: w.EndBufferMinutes,
		})
	}

	return built, nil
}
