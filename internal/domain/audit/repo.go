package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/ArthurAugustinho/passmais-backend-sub000/pkg/pagination"
)

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, params pagination.Params) ([]Entry, int64, error)
}
