package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
)

// Audit change types recorded by schedule mutations.
const (
	ChangeScheduleSaved    = "schedule_saved"
	ChangeExceptionAdded   = "exception_added"
	ChangeExceptionRemoved = "exception_removed"
)

// DoctorStore is the narrow slice of the doctor domain the schedule service
// needs. LockForUpdate must return pgx.ErrNoRows for unknown doctors.
type DoctorStore interface {
	LockForUpdate(ctx context.Context, id uuid.UUID) error
	GetMode(ctx context.Context, id uuid.UUID) (string, error)
	SetMode(ctx context.Context, id uuid.UUID, mode string) error
}

// Regenerator rebuilds the materialized slot horizon after definitions
// change. Implemented by the slots generator.
type Regenerator interface {
	Regenerate(ctx context.Context, doctorID uuid.UUID) error
}

// ChangeRecorder appends an audit entry with before/after snapshots.
type ChangeRecorder interface {
	Record(ctx context.Context, doctorID uuid.UUID, changeType string, oldState, newState interface{}, changedBy uuid.UUID) error
}

type Service struct {
	repo    Repository
	doctors DoctorStore
	regen   Regenerator
	audit   ChangeRecorder
	tx      db.TxRunner
	logger  zerolog.Logger
}

func NewService(repo Repository, doctors DoctorStore, regen Regenerator, audit ChangeRecorder, tx db.TxRunner, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		regen:   regen,
		audit:   audit,
		tx:      tx,
		logger:  logger.With().Str("component", "schedule-service").Logger(),
	}
}

func (s *Service) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*Snapshot, error) {
	mode, err := s.doctors.GetMode(ctx, doctorID)
	if err != nil {
		if isNoRows(err) {
			return nil, doctorNotFound(doctorID)
		}
		return nil, apperror.Internal("load doctor", err)
	}

	defs, err := s.repo.GetDefinitions(ctx, doctorID)
	if err != nil {
		return nil, apperror.Internal("load schedule definitions", err)
	}
	return NewSnapshot(ScheduleMode(mode), defs), nil
}

// SaveSchedule replaces the doctor's definitions wholesale and rebuilds the
// slot horizon, all inside one transaction with the doctor row locked.
// Exception dates survive the replace untouched.
func (s *Service) SaveSchedule(ctx context.Context, doctorID uuid.UUID, payload *SavePayload, actor uuid.UUID) (*Snapshot, error) {
	defs, mode, err := payload.BuildDefinitions(doctorID)
	if err != nil {
		return nil, err
	}

	var snap *Snapshot
	err = s.tx(ctx, func(txCtx context.Context) error {
		if err := s.doctors.LockForUpdate(txCtx, doctorID); err != nil {
			if isNoRows(err) {
				return doctorNotFound(doctorID)
			}
			return apperror.Internal("lock doctor", err)
		}

		oldMode, err := s.doctors.GetMode(txCtx, doctorID)
		if err != nil {
			return apperror.Internal("load doctor mode", err)
		}
		oldDefs, err := s.repo.GetDefinitions(txCtx, doctorID)
		if err != nil {
			return apperror.Internal("load previous definitions", err)
		}
		oldSnap := NewSnapshot(ScheduleMode(oldMode), oldDefs)

		if err := s.repo.ReplaceDefinitions(txCtx, doctorID, defs); err != nil {
			return apperror.Internal("replace definitions", err)
		}
		if string(mode) != oldMode {
			if err := s.doctors.SetMode(txCtx, doctorID, string(mode)); err != nil {
				return apperror.Internal("update schedule mode", err)
			}
		}

		if err := s.regen.Regenerate(txCtx, doctorID); err != nil {
			return err
		}

		defs.Exceptions = oldDefs.Exceptions
		snap = NewSnapshot(mode, defs)
		return s.audit.Record(txCtx, doctorID, ChangeScheduleSaved, oldSnap, snap, actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("doctor_id", doctorID.String()).
		Str("mode", string(mode)).
		Int("recurring_days", len(defs.Rules)).
		Int("specific_days", len(defs.SpecificDays)).
		Msg("schedule saved")
	return snap, nil
}

// ExceptionRequest adds or removes a single exception date.
type ExceptionRequest struct {
	Action      string  `json:"action"`
	Date        string  `json:"date"`
	Description *string `json:"description,omitempty"`
}

const (
	ExceptionAdd    = "add"
	ExceptionRemove = "remove"
)

func (s *Service) ManageException(ctx context.Context, doctorID uuid.UUID, req *ExceptionRequest, actor uuid.UUID) ([]ExceptionDate, error) {
	if req.Action != ExceptionAdd && req.Action != ExceptionRemove {
		return nil, apperror.Validation("VALIDATION_ERROR", "action must be add or remove").
			WithDetail("action", req.Action)
	}
	day, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return nil, apperror.Validation("INVALID_DATE", "invalid exception date").
			WithDetail("date", req.Date)
	}

	var exceptions []ExceptionDate
	err = s.tx(ctx, func(txCtx context.Context) error {
		if err := s.doctors.LockForUpdate(txCtx, doctorID); err != nil {
			if isNoRows(err) {
				return doctorNotFound(doctorID)
			}
			return apperror.Internal("lock doctor", err)
		}

		before, err := s.repo.ListExceptions(txCtx, doctorID)
		if err != nil {
			return apperror.Internal("list exceptions", err)
		}

		changeType := ChangeExceptionAdded
		switch req.Action {
		case ExceptionAdd:
			exc := &ExceptionDate{
				ID:          uuid.New(),
				DoctorID:    doctorID,
				Day:         day,
				Description: req.Description,
			}
			if err := s.repo.UpsertException(txCtx, exc); err != nil {
				return apperror.Internal("upsert exception", err)
			}
		case ExceptionRemove:
			changeType = ChangeExceptionRemoved
			removed, err := s.repo.DeleteException(txCtx, doctorID, req.Date)
			if err != nil {
				return apperror.Internal("delete exception", err)
			}
			if !removed {
				return apperror.NotFound("NOT_FOUND", "exception date not found").
					WithDetail("date", req.Date)
			}
		}

		if err := s.regen.Regenerate(txCtx, doctorID); err != nil {
			return err
		}

		if exceptions, err = s.repo.ListExceptions(txCtx, doctorID); err != nil {
			return apperror.Internal("list exceptions", err)
		}
		return s.audit.Record(txCtx, doctorID, changeType, exceptionViews(before), exceptionViews(exceptions), actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("doctor_id", doctorID.String()).
		Str("action", req.Action).
		Str("date", req.Date).
		Msg("exception updated")
	return exceptions, nil
}

func exceptionViews(exceptions []ExceptionDate) []ExceptionView {
	views := make([]ExceptionView, 0, len(exceptions))
	for _, exc := range exceptions {
		views = append(views, ExceptionView{
			Date:        FormatDate(exc.Day),
			Description: exc.Description,
		})
	}
	return views
}

func doctorNotFound(id uuid.UUID) *apperror.Error {
	return apperror.NotFound("DOCTOR_NOT_FOUND", "doctor not found").
		WithDetail("doctor_id", id.String())
}
