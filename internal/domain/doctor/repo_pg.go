package doctor

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor (id, full_name, schedule_mode)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		d.ID, d.FullName, d.ScheduleMode).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	var d Doctor
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, full_name, schedule_mode, created_at, updated_at
		FROM doctor WHERE id = $1`, id).
		Scan(&d.ID, &d.FullName, &d.ScheduleMode, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM doctor WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	return r.conn(ctx).QueryRow(ctx,
		`SELECT id FROM doctor WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
}

func (r *repoPG) GetMode(ctx context.Context, id uuid.UUID) (string, error) {
	var mode string
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT schedule_mode FROM doctor WHERE id = $1`, id).Scan(&mode)
	return mode, err
}

func (r *repoPG) SetMode(ctx context.Context, id uuid.UUID, mode string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctor SET schedule_mode = $2, updated_at = NOW() WHERE id = $1`, id, mode)
	return err
}
