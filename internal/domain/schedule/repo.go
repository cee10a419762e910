package schedule

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists schedule definitions. ReplaceDefinitions swaps rules,
// specific days and settings wholesale but never touches exception dates;
// those have their own lifecycle.
type Repository interface {
	GetDefinitions(ctx context.Context, doctorID uuid.UUID) (*Definitions, error)
	ReplaceDefinitions(ctx context.Context, doctorID uuid.UUID, defs *Definitions) error

	ListExceptions(ctx context.Context, doctorID uuid.UUID) ([]ExceptionDate, error)
	UpsertException(ctx context.Context, exc *ExceptionDate) error
	DeleteException(ctx context.Context, doctorID uuid.UUID, day string) (bool, error)
}
