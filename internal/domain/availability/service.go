package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/schedule"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/slotbatch"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/slots"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

// DoctorChecker answers whether a doctor exists. Availability is read-only,
// so no lock is taken.
type DoctorChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Options struct {
	WeekLengthDays int
	MaxRangeDays   int
	Location       *time.Location
}

type Service struct {
	slots   slots.Repository
	raw     slotbatch.Repository
	doctors DoctorChecker
	opts    Options
	now     func() time.Time
	logger  zerolog.Logger
}

func NewService(slotRepo slots.Repository, rawRepo slotbatch.Repository, doctors DoctorChecker, opts Options, logger zerolog.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		slots:   slotRepo,
		raw:     rawRepo,
		doctors: doctors,
		opts:    opts,
		now:     time.Now,
		logger:  logger.With().Str("component", "availability-service").Logger(),
	}
}

// WithClock overrides the service time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Query resolves the requested range and assembles the per-day view. The
// range start is clamped to today so past days never leak into the patient
// response, and the clamped range must still fit inside one week.
func (s *Service) Query(ctx context.Context, doctorID uuid.UUID, startStr, endStr string) (*WeekSchedule, error) {
	today := schedule.DateOnly(s.now().In(s.opts.Location))

	start := today
	if startStr != "" {
		parsed, err := time.Parse(schedule.DateLayout, startStr)
		if err != nil {
			return nil, apperror.Validation("INVALID_DATE", "invalid start date").
				WithDetail("start", startStr)
		}
		start = parsed
	}
	if start.Before(today) {
		start = today
	}

	end := start.AddDate(0, 0, s.opts.WeekLengthDays-1)
	if endStr != "" {
		parsed, err := time.Parse(schedule.DateLayout, endStr)
		if err != nil {
			return nil, apperror.Validation("INVALID_DATE", "invalid end date").
				WithDetail("end", endStr)
		}
		end = parsed
	}

	if end.Before(start) {
		return nil, apperror.Validation("RANGE_END_BEFORE_START", "end date is before start date").
			WithDetail("start", schedule.FormatDate(start)).
			WithDetail("end", schedule.FormatDate(end))
	}
	span := int(end.Sub(start).Hours()/24) + 1
	if span > s.opts.MaxRangeDays {
		return nil, apperror.Validation("RANGE_EXCEEDS_MAX_DAYS", "range exceeds the maximum query window").
			WithDetail("days", span).WithDetail("limit", s.opts.MaxRangeDays)
	}
	if span > s.opts.WeekLengthDays {
		return nil, apperror.Validation("RANGE_EXCEEDS_WEEK", "range exceeds one week").
			WithDetail("days", span).WithDetail("limit", s.opts.WeekLengthDays)
	}

	known, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, apperror.Internal("check doctor", err)
	}
	if !known {
		return nil, apperror.NotFound("DOCTOR_NOT_FOUND", "doctor not found").
			WithDetail("doctor_id", doctorID.String())
	}

	rangeEnd := end.AddDate(0, 0, 1)
	materialized, err := s.slots.ListRange(ctx, doctorID, start, rangeEnd)
	if err != nil {
		return nil, apperror.Internal("load slots", err)
	}
	raw, err := s.raw.ListActiveRange(ctx, doctorID, start, rangeEnd)
	if err != nil {
		return nil, apperror.Internal("load raw slots", err)
	}

	week := &WeekSchedule{
		DoctorID: doctorID,
		Start:    schedule.FormatDate(start),
		End:      schedule.FormatDate(end),
		Timezone: s.opts.Location.String(),
		Days:     make([]DayEntry, 0, span),
	}
	for day := start; day.Before(rangeEnd); day = day.AddDate(0, 0, 1) {
		week.Days = append(week.Days, buildDay(day, materialized, raw))
	}
	return week, nil
}

// buildDay merges the two slot stores for one date. Raw rows decide the
// blocked flag and the source attribution, materialized AVAILABLE rows carry
// the bookable times. A day with times but no raw rows reports SPECIFIC.
func buildDay(day time.Time, materialized []slots.MaterializedSlot, raw []slotbatch.RawSlot) DayEntry {
	entry := DayEntry{
		Date:   schedule.FormatDate(day),
		Label:  schedule.WeekdayOf(day).Label(),
		Source: SourceNone,
		Times:  []string{},
	}

	var rawDay []slotbatch.RawSlot
	for _, r := range raw {
		if schedule.SameDate(r.Day, day) {
			rawDay = append(rawDay, r)
		}
	}
	if len(rawDay) > 0 {
		entry.Source = rawDay[0].Source
		entry.Blocked = slotbatch.Blocked(rawDay)
	}
	if entry.Blocked {
		return entry
	}

	for _, m := range materialized {
		if !schedule.SameDate(m.Day, day) || m.Status != slots.StatusAvailable {
			continue
		}
		entry.Times = append(entry.Times, m.Start)
	}
	if len(rawDay) == 0 && len(entry.Times) > 0 {
		entry.Source = string(slots.SourceSpecific)
	}
	return entry
}
