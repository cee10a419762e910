package slots

import (
	"time"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/schedule"
)

// DayPlan is the resolved generation input for one date: which windows apply,
// where they came from, and the day-level interval and buffer defaults.
type DayPlan struct {
	Source          Source
	Windows         []schedule.TimeWindow
	IntervalMinutes int
	BufferMinutes   int
}

// ResolveDay decides what applies on a single date. Precedence: a specific day
// with windows supersedes everything else; otherwise the recurring rule for the
// weekday applies when the recurring configuration is active, the date is not
// an exception and it falls inside the validity range. Exceptions only suppress
// recurring availability, never a specific override.
// Returns nil when nothing generates on that date.
func ResolveDay(defs *schedule.Definitions, day time.Time) *DayPlan {
	if specific := defs.SpecificFor(day); specific != nil && len(specific.Windows) > 0 {
		plan := &DayPlan{
			Source:          SourceSpecific,
			Windows:         specific.Windows,
			IntervalMinutes: 30,
		}
		if s := defs.SpecificSettings; s != nil {
			plan.IntervalMinutes = s.IntervalMinutes
			plan.BufferMinutes = s.BufferMinutes
		}
		return plan
	}

	s := defs.RecurringSettings
	if s == nil || !s.Enabled || !s.RecurringActive {
		return nil
	}
	if defs.IsException(day) {
		return nil
	}
	if s.StartDate != nil && day.Before(schedule.DateOnly(*s.StartDate)) {
		return nil
	}
	if !s.NoEndDate && s.EndDate != nil && day.After(schedule.DateOnly(*s.EndDate)) {
		return nil
	}

	rule := defs.RuleFor(schedule.WeekdayOf(day))
	if rule == nil || !rule.Enabled {
		return nil
	}

	return &DayPlan{
		Source:          SourceRecurring,
		Windows:         rule.Windows,
		IntervalMinutes: s.IntervalMinutes,
		BufferMinutes:   s.BufferMinutes,
	}
}

// Expand walks one window and returns the slot start minutes it yields.
// Window-level overrides beat the plan defaults; the interval is clamped to
// at least one minute and buffers to zero so degenerate stored values cannot
// hang the generator. The end buffer shortens the usable window, the step
// buffer spaces consecutive slots.
func (p *DayPlan) Expand(w schedule.TimeWindow) []int {
	start, err := schedule.ParseClock(w.Start)
	if err != nil {
		return nil
	}
	end, err := schedule.ParseClock(w.End)
	if err != nil {
		return nil
	}

	interval := p.IntervalMinutes
	if w.IntervalMinutes != nil {
		interval = *w.IntervalMinutes
	}
	if interval < 1 {
		interval = 1
	}

	stepBuffer := p.BufferMinutes
	if stepBuffer < 0 {
		stepBuffer = 0
	}

	endBuffer := 0
	if w.EndBufferMinutes != nil && *w.EndBufferMinutes > 0 {
		endBuffer = *w.EndBufferMinutes
	}
	effectiveEnd := end - endBuffer

	var starts []int
	for cursor := start; cursor+interval <= effectiveEnd; cursor += interval + stepBuffer {
		starts = append(starts, cursor)
	}
	return starts
}

// SlotInterval reports the interval Expand used for w, for deriving the slot
// end time.
func (p *DayPlan) SlotInterval(w schedule.TimeWindow) int {
	interval := p.IntervalMinutes
	if w.IntervalMinutes != nil {
		interval = *w.IntervalMinutes
	}
	if interval < 1 {
		interval = 1
	}
	return interval
}
