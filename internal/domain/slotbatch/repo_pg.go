package slotbatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
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

const rawSlotColumns = `id, doctor_id, day, slot_time, source, version, deleted, delete_reason, created_by, created_at, deleted_by, deleted_at`

func (r *repoPG) ListActive(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]RawSlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+rawSlotColumns+`
		FROM schedule_slot
		WHERE doctor_id = $1 AND day = $2 AND NOT deleted
		ORDER BY slot_time NULLS FIRST`, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("query active slots: %w", err)
	}
	return scanRawSlots(rows)
}

func (r *repoPG) ListActiveRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]RawSlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+rawSlotColumns+`
		FROM schedule_slot
		WHERE doctor_id = $1 AND day >= $2 AND day < $3 AND NOT deleted
		ORDER BY day, slot_time NULLS FIRST`, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query active slot range: %w", err)
	}
	return scanRawSlots(rows)
}

func (r *repoPG) SoftDeleteDay(ctx context.Context, doctorID uuid.UUID, day time.Time, reason string, deletedBy uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE schedule_slot
		SET deleted = TRUE, delete_reason = $3, deleted_by = $4, deleted_at = NOW()
		WHERE doctor_id = $1 AND day = $2 AND NOT deleted`,
		doctorID, day, reason, nullableActor(deletedBy))
	if err != nil {
		return 0, fmt.Errorf("soft delete day: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) MaxVersion(ctx context.Context, doctorID uuid.UUID, day time.Time) (int, error) {
	var version int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(MAX(version), 0)
		FROM schedule_slot
		WHERE doctor_id = $1 AND day = $2`, doctorID, day).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query max version: %w", err)
	}
	return version, nil
}

func (r *repoPG) Insert(ctx context.Context, rows []RawSlot) error {
	for _, row := range rows {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO schedule_slot (id, doctor_id, day, slot_time, source, version, deleted, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)`,
			row.ID, row.DoctorID, row.Day, row.Time, row.Source, row.Version, row.CreatedBy)
		if err != nil {
			return fmt.Errorf("insert raw slot: %w", err)
		}
	}
	return nil
}

// nullableActor maps the anonymous actor to a SQL NULL.
func nullableActor(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func scanRawSlots(rows pgx.Rows) ([]RawSlot, error) {
	defer rows.Close()

	var out []RawSlot
	for rows.Next() {
		var s RawSlot
		if err := rows.Scan(&s.ID, &s.DoctorID, &s.Day, &s.Time, &s.Source,
			&s.Version, &s.Deleted, &s.DeleteReason, &s.CreatedBy, &s.CreatedAt, &s.DeletedBy, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan raw slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
