package slotbatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists raw uploaded slots. Uploads never update rows in
// place: the previous generation is soft-deleted and a fresh generation is
// inserted under the next version number.
type Repository interface {
	ListActive(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]RawSlot, error)
	ListActiveRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]RawSlot, error)
	SoftDeleteDay(ctx context.Context, doctorID uuid.UUID, day time.Time, reason string, deletedBy uuid.UUID) (int64, error)
	MaxVersion(ctx context.Context, doctorID uuid.UUID, day time.Time) (int, error)
	Insert(ctx context.Context, rows []RawSlot) error
}
