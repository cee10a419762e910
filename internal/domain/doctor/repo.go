package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// LockForUpdate takes the per-doctor write lock for the duration of the
	// surrounding transaction. Returns pgx.ErrNoRows for unknown doctors.
	LockForUpdate(ctx context.Context, id uuid.UUID) error
	GetMode(ctx context.Context, id uuid.UUID) (string, error)
	SetMode(ctx context.Context, id uuid.UUID, mode string) error
}
