package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.FullName == "" {
		return apperror.Validation("VALIDATION_ERROR", "full_name is required").
			WithDetail("field", "full_name")
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.ScheduleMode == "" {
		d.ScheduleMode = "RECURRING"
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFound(id)
	}
	return d, err
}

// NotFound builds the canonical unknown-doctor error.
func NotFound(id uuid.UUID) error {
	return apperror.NotFound("DOCTOR_NOT_FOUND", "doctor not found").
		WithDetail("doctor_id", id.String())
}
