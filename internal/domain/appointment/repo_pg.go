package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/slots"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
)

// RepoPG reads live appointments for slot blocking. Appointment booking
// itself lives outside this service; only the collision query is needed here.
type RepoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) *RepoPG {
	return &RepoPG{pool: pool}
}

func (r *RepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

// BlockedTimes returns the slot start instants in [from, to) that carry an
// appointment in a blocking status, keyed by slots.BlockedKey.
func (r *RepoPG) BlockedTimes(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (map[string]bool, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT day, start_time
		FROM appointment
		WHERE doctor_id = $1
		  AND day >= $2 AND day < $3
		  AND status = ANY($4)`,
		doctorID, from, to, BlockingStatuses)
	if err != nil {
		return nil, fmt.Errorf("query blocking appointments: %w", err)
	}
	defer rows.Close()

	blocked := make(map[string]bool)
	for rows.Next() {
		var day time.Time
		var start string
		if err := rows.Scan(&day, &start); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		blocked[slots.BlockedKey(day, start)] = true
	}
	return blocked, rows.Err()
}
