package slotbatch

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/schedule"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
)

const ChangeSlotsUpload = "slots_upload"

// DoctorLocker serializes uploads against other mutations on the same
// doctor row.
type DoctorLocker interface {
	LockForUpdate(ctx context.Context, id uuid.UUID) error
}

// ChangeRecorder appends an audit entry with before/after day states.
type ChangeRecorder interface {
	Record(ctx context.Context, doctorID uuid.UUID, changeType string, oldState, newState interface{}, changedBy uuid.UUID) error
}

// UpsertRequest replaces whole days of raw slots. Each day is independent;
// the batch as a whole is atomic.
type UpsertRequest struct {
	Days []DayUpload `json:"days"`
}

type DayUpload struct {
	Date   string   `json:"date"`
	Source string   `json:"source"`
	Times  []string `json:"times"`
}

type UpsertResult struct {
	ReceivedDays int         `json:"received_days"`
	CreatedSlots int         `json:"created_slots"`
	BlockedDays  int         `json:"blocked_days"`
	Replaced     bool        `json:"replaced_previous_versions"`
	Days         []DayResult `json:"days"`
}

type DayResult struct {
	Date     string `json:"date"`
	Version  int    `json:"version"`
	Slots    int    `json:"slots"`
	Replaced bool   `json:"replaced"`
}

type Options struct {
	MaxSlotsPerDay     int
	EnforceFutureSlots bool
	Location           *time.Location
}

type Service struct {
	repo    Repository
	doctors DoctorLocker
	audit   ChangeRecorder
	tx      db.TxRunner
	opts    Options
	now     func() time.Time
	logger  zerolog.Logger
}

func NewService(repo Repository, doctors DoctorLocker, audit ChangeRecorder, tx db.TxRunner, opts Options, logger zerolog.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		repo:    repo,
		doctors: doctors,
		audit:   audit,
		tx:      tx,
		opts:    opts,
		now:     time.Now,
		logger:  logger.With().Str("component", "slotbatch-service").Logger(),
	}
}

// WithClock overrides the service time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Upsert validates the whole batch, then replaces each day's active rows
// under the next version number. Nothing is written unless every day
// validates, and the write itself is one transaction with the doctor locked.
func (s *Service) Upsert(ctx context.Context, doctorID uuid.UUID, req *UpsertRequest, actor uuid.UUID) (*UpsertResult, error) {
	days, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	result := &UpsertResult{
		ReceivedDays: len(days),
		Days:         make([]DayResult, 0, len(days)),
	}
	err = s.tx(ctx, func(txCtx context.Context) error {
		if err := s.doctors.LockForUpdate(txCtx, doctorID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NotFound("DOCTOR_NOT_FOUND", "doctor not found").
					WithDetail("doctor_id", doctorID.String())
			}
			return apperror.Internal("lock doctor", err)
		}

		var oldDays, newDays []dayState
		for _, day := range days {
			before, err := s.repo.ListActive(txCtx, doctorID, day.date)
			if err != nil {
				return apperror.Internal("list active slots", err)
			}

			removed, err := s.repo.SoftDeleteDay(txCtx, doctorID, day.date, DeleteReasonReplaced, actor)
			if err != nil {
				return apperror.Internal("retire previous slots", err)
			}
			maxVersion, err := s.repo.MaxVersion(txCtx, doctorID, day.date)
			if err != nil {
				return apperror.Internal("resolve slot version", err)
			}
			version := maxVersion + 1

			rows := day.rows(doctorID, version, actor)
			if err := s.repo.Insert(txCtx, rows); err != nil {
				return apperror.Internal("insert slots", err)
			}

			replaced := removed > 0
			if replaced {
				result.Replaced = true
			}
			if day.Source == SourceNone {
				result.BlockedDays++
			} else {
				result.CreatedSlots += len(rows)
			}
			result.Days = append(result.Days, DayResult{
				Date:     schedule.FormatDate(day.date),
				Version:  version,
				Slots:    len(rows),
				Replaced: replaced,
			})
			oldDays = append(oldDays, newDayState(day.Date, before))
			newDays = append(newDays, newDayState(day.Date, rows))
		}

		return s.audit.Record(txCtx, doctorID, ChangeSlotsUpload, oldDays, newDays, actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("doctor_id", doctorID.String()).
		Int("days", len(result.Days)).
		Bool("replaced", result.Replaced).
		Msg("slot batch applied")
	return result, nil
}

// dayState is the audit-facing summary of one day's active rows.
type dayState struct {
	Date    string   `json:"date"`
	Source  string   `json:"source,omitempty"`
	Times   []string `json:"times"`
	Blocked bool     `json:"blocked"`
}

func newDayState(date string, rows []RawSlot) dayState {
	state := dayState{Date: date, Times: make([]string, 0, len(rows)), Blocked: Blocked(rows)}
	for _, r := range rows {
		state.Source = r.Source
		if r.Time != nil {
			state.Times = append(state.Times, *r.Time)
		}
	}
	return state
}

type validatedDay struct {
	DayUpload
	date time.Time
}

func (d *validatedDay) rows(doctorID uuid.UUID, version int, createdBy uuid.UUID) []RawSlot {
	var by *uuid.UUID
	if createdBy != uuid.Nil {
		by = &createdBy
	}

	if d.Source == SourceNone {
		return []RawSlot{{
			ID:        uuid.New(),
			DoctorID:  doctorID,
			Day:       d.date,
			Time:      nil,
			Source:    SourceNone,
			Version:   version,
			CreatedBy: by,
		}}
	}

	// HH:MM strings sort chronologically; rows are written in time order
	// regardless of the order the caller listed them.
	times := append([]string(nil), d.Times...)
	sort.Strings(times)

	rows := make([]RawSlot, 0, len(times))
	for _, t := range times {
		clock := t
		rows = append(rows, RawSlot{
			ID:        uuid.New(),
			DoctorID:  doctorID,
			Day:       d.date,
			Time:      &clock,
			Source:    d.Source,
			Version:   version,
			CreatedBy: by,
		})
	}
	return rows
}

func (s *Service) validate(req *UpsertRequest) ([]validatedDay, error) {
	if req == nil || len(req.Days) == 0 {
		return nil, apperror.Validation("EMPTY_BATCH", "batch must contain at least one day")
	}

	now := s.now().In(s.opts.Location)
	today := schedule.DateOnly(now)
	nowClock := schedule.FormatClock(now.Hour()*60 + now.Minute())

	seen := make(map[string]bool, len(req.Days))
	days := make([]validatedDay, 0, len(req.Days))
	for _, upload := range req.Days {
		date, err := time.Parse(schedule.DateLayout, upload.Date)
		if err != nil {
			return nil, apperror.Validation("INVALID_DATE", "invalid day date").
				WithDetail("date", upload.Date)
		}
		if seen[upload.Date] {
			return nil, apperror.Validation("DUPLICATE_DATE", "day appears more than once in the batch").
				WithDetail("date", upload.Date)
		}
		seen[upload.Date] = true

		switch upload.Source {
		case SourceSpecific, SourceRecurring:
			if len(upload.Times) == 0 {
				return nil, apperror.Validation("SOURCE_SLOTS_MISMATCH",
					"source requires at least one slot time").
					WithDetail("date", upload.Date).WithDetail("source", upload.Source)
			}
		case SourceNone:
			if len(upload.Times) != 0 {
				return nil, apperror.Validation("SOURCE_SLOTS_MISMATCH",
					"blocked day must not carry slot times").
					WithDetail("date", upload.Date)
			}
		default:
			return nil, apperror.Validation("VALIDATION_ERROR", "source must be SPECIFIC, RECURRING or NONE").
				WithDetail("date", upload.Date).WithDetail("source", upload.Source)
		}

		if len(upload.Times) > s.opts.MaxSlotsPerDay {
			return nil, apperror.Validation("SLOT_LIMIT_EXCEEDED", "too many slots for one day").
				WithDetail("date", upload.Date).
				WithDetail("count", len(upload.Times)).
				WithDetail("limit", s.opts.MaxSlotsPerDay)
		}

		seenTimes := make(map[string]bool, len(upload.Times))
		for _, t := range upload.Times {
			if !schedule.ValidClock(t) {
				return nil, apperror.Validation("INVALID_TIME_FORMAT", "slot time must be HH:MM").
					WithDetail("date", upload.Date).WithDetail("time", t)
			}
			if seenTimes[t] {
				return nil, apperror.Validation("DUPLICATE_SLOT_TIME", "slot time appears more than once").
					WithDetail("date", upload.Date).WithDetail("time", t)
			}
			seenTimes[t] = true

			if s.opts.EnforceFutureSlots {
				if date.Before(today) || (date.Equal(today) && t <= nowClock) {
					return nil, apperror.Validation("SLOT_IN_PAST", "slot time is in the past").
						WithDetail("date", upload.Date).WithDetail("time", t)
				}
			}
		}
		if s.opts.EnforceFutureSlots && upload.Source == SourceNone && date.Before(today) {
			return nil, apperror.Validation("SLOT_IN_PAST", "blocked day is in the past").
				WithDetail("date", upload.Date)
		}

		days = append(days, validatedDay{DayUpload: upload, date: date})
	}

	return days, nil
}
