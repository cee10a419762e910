package slots

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists materialized slots. Regeneration is delete-then-insert
// over the whole future horizon, so there is no per-slot update path.
type Repository interface {
	DeleteFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) error
	BulkInsert(ctx context.Context, slots []MaterializedSlot) error
	ListRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]MaterializedSlot, error)
}

// AppointmentSource reports slot start instants that already carry a live
// appointment, keyed by BlockedKey.
type AppointmentSource interface {
	BlockedTimes(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (map[string]bool, error)
}
