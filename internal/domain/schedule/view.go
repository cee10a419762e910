package schedule

// Snapshot is the external view of a doctor's full schedule definition. It is
// returned by the read and save endpoints and stored verbatim in audit
// entries, so its shape mirrors SavePayload.
type Snapshot struct {
	Mode       string          `json:"mode"`
	Recurring  *RecurringView  `json:"recurring,omitempty"`
	Specific   *SpecificView   `json:"specific,omitempty"`
	Exceptions []ExceptionView `json:"exceptions"`
}

type RecurringView struct {
	Settings RecurringSettingsPayload   `json:"settings"`
	Days     map[string][]WindowPayload `json:"days"`
}

type SpecificView struct {
	Settings *SpecificSettingsPayload   `json:"settings,omitempty"`
	Days     map[string][]WindowPayload `json:"days"`
}

type ExceptionView struct {
	Date        string  `json:"date"`
	Description *string `json:"description,omitempty"`
}

// NewSnapshot renders the persisted definitions in payload shape.
func NewSnapshot(mode ScheduleMode, defs *Definitions) *Snapshot {
	snap := &Snapshot{
		Mode:       string(mode),
		Exceptions: make([]ExceptionView, 0, len(defs.Exceptions)),
	}

	if defs.RecurringSettings != nil || len(defs.Rules) > 0 {
		view := &RecurringView{Days: make(map[string][]WindowPayload, len(defs.Rules))}
		if s := defs.RecurringSettings; s != nil {
			view.Settings = RecurringSettingsPayload{
				IntervalMinutes: s.IntervalMinutes,
				BufferMinutes:   s.BufferMinutes,
				NoEndDate:       s.NoEndDate,
				Enabled:         s.Enabled,
				RecurringActive: s.RecurringActive,
			}
			if s.StartDate != nil {
				view.Settings.StartDate = FormatDate(*s.StartDate)
			}
			if s.EndDate != nil {
				view.Settings.EndDate = FormatDate(*s.EndDate)
			}
		}
		for _, rule := range defs.Rules {
			view.Days[string(rule.Weekday)] = windowViews(rule.Windows)
		}
		snap.Recurring = view
	}

	if defs.SpecificSettings != nil || len(defs.SpecificDays) > 0 {
		view := &SpecificView{Days: make(map[string][]WindowPayload, len(defs.SpecificDays))}
		if s := defs.SpecificSettings; s != nil {
			view.Settings = &SpecificSettingsPayload{
				IntervalMinutes: s.IntervalMinutes,
				BufferMinutes:   s.BufferMinutes,
			}
		}
		for _, day := range defs.SpecificDays {
			view.Days[FormatDate(day.Day)] = windowViews(day.Windows)
		}
		snap.Specific = view
	}

	for _, exc := range defs.Exceptions {
		snap.Exceptions = append(snap.Exceptions, ExceptionView{
			Date:        FormatDate(exc.Day),
			Description: exc.Description,
		})
	}

	return snap
}

func windowViews(windows []TimeWindow) []WindowPayload {
	views := make([]WindowPayload, 0, len(windows))
	for _, w := range windows {
		views = append(views, WindowPayload{
			Start:            w.Start,
			End:              w.End,
			IntervalMinutes:  w.IntervalMinutes,
			EndBufferMinutes: w.EndBufferMinutes,
		})
	}
	return views
}
