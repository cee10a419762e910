package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
	"github.com/ArthurAugustinho/passmais-backend-sub000/pkg/pagination"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Insert(ctx context.Context, entry *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO schedule_audit_log (id, doctor_id, change_type, old_payload, new_payload, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.DoctorID, entry.ChangeType, entry.OldPayload, entry.NewPayload, entry.ChangedBy)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, params pagination.Params) ([]Entry, int64, error) {
	var total int64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM schedule_audit_log WHERE doctor_id = $1`, doctorID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, doctor_id, change_type, old_payload, new_payload, changed_by, created_at
		FROM schedule_audit_log
		WHERE doctor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, doctorID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.DoctorID, &e.ChangeType, &e.OldPayload, &e.NewPayload, &e.ChangedBy, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
