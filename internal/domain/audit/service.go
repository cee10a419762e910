package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
	"github.com/ArthurAugustinho/passmais-backend-sub000/pkg/pagination"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "audit-service").Logger(),
	}
}

// Record snapshots oldState and newState and appends the entry. A snapshot
// or insert failure is returned as an error so the surrounding transaction
// rolls the whole mutation back: a change that cannot be audited must not
// happen.
func (s *Service) Record(ctx context.Context, doctorID uuid.UUID, changeType string, oldState, newState interface{}, changedBy uuid.UUID) error {
	oldPayload, err := json.Marshal(oldState)
	if err != nil {
		return apperror.New(500, "AUDIT_SNAPSHOT_FAILED", "could not snapshot previous state").WithCause(err)
	}
	newPayload, err := json.Marshal(newState)
	if err != nil {
		return apperror.New(500, "AUDIT_SNAPSHOT_FAILED", "could not snapshot new state").WithCause(err)
	}

	entry := &Entry{
		ID:         uuid.New(),
		DoctorID:   doctorID,
		ChangeType: changeType,
		OldPayload: oldPayload,
		NewPayload: newPayload,
	}
	if changedBy != uuid.Nil {
		entry.ChangedBy = &changedBy
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return apperror.New(500, "AUDIT_SNAPSHOT_FAILED", "could not persist audit entry").WithCause(err)
	}
	return nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, params pagination.Params) (*pagination.Response, error) {
	entries, total, err := s.repo.ListByDoctor(ctx, doctorID, params)
	if err != nil {
		return nil, apperror.Internal("list audit entries", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return pagination.NewResponse(entries, int(total), params.Limit, params.Offset), nil
}
