package slots

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

func (r *repoPG) DeleteFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM available_slot WHERE doctor_id = $1 AND day >= $2`,
		doctorID, from)
	if err != nil {
		return fmt.Errorf("delete slots: %w", err)
	}
	return nil
}

func (r *repoPG) BulkInsert(ctx context.Context, slots []MaterializedSlot) error {
	if len(slots) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []interface{}{
			s.ID, s.DoctorID, s.Day, s.Start, s.End, s.StartAt, s.EndAt, string(s.Source), string(s.Status),
		})
	}

	var err error
	columns := []string{"id", "doctor_id", "day", "start_time", "end_time", "start_at", "end_at", "source", "status"}
	if tx := db.TxFromContext(ctx); tx != nil {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"available_slot"}, columns, pgx.CopyFromRows(rows))
	} else {
		_, err = r.pool.CopyFrom(ctx, pgx.Identifier{"available_slot"}, columns, pgx.CopyFromRows(rows))
	}
	if err != nil {
		return fmt.Errorf("bulk insert slots: %w", err)
	}
	return nil
}

func (r *repoPG) ListRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]MaterializedSlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, doctor_id, day, start_time, end_time, start_at, end_at, source, status, created_at
		FROM available_slot
		WHERE doctor_id = $1 AND day >= $2 AND day < $3
		ORDER BY day, start_time`, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	var out []MaterializedSlot
	for rows.Next() {
		var s MaterializedSlot
		if err := rows.Scan(&s.ID, &s.DoctorID, &s.Day, &s.Start, &s.End, &s.StartAt, &s.EndAt, &s.Source, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
