package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) GetDefinitions(ctx context.Context, doctorID uuid.UUID) (*Definitions, error) {
	defs := &Definitions{}

	rules, err := r.loadRules(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	defs.Rules = rules

	days, err := r.loadSpecificDays(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	defs.SpecificDays = days

	if defs.RecurringSettings, err = r.loadRecurringSettings(ctx, doctorID); err != nil {
		return nil, err
	}
	if defs.SpecificSettings, err = r.loadSpecificSettings(ctx, doctorID); err != nil {
		return nil, err
	}
	if defs.Exceptions, err = r.ListExceptions(ctx, doctorID); err != nil {
		return nil, err
	}

	return defs, nil
}

func (r *repoPG) loadRules(ctx context.Context, doctorID uuid.UUID) ([]RecurringRule, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, weekday, enabled
		FROM recurring_rule
		WHERE doctor_id = $1
		ORDER BY weekday`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("query recurring rules: %w", err)
	}
	defer rows.Close()

	var rules []RecurringRule
	for rows.Next() {
		rule := RecurringRule{DoctorID: doctorID}
		if err := rows.Scan(&rule.ID, &rule.Weekday, &rule.Enabled); err != nil {
			return nil, fmt.Errorf("scan recurring rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rules {
		windows, err := r.loadWindows(ctx, "recurring_window", "rule_id", rules[i].ID)
		if err != nil {
			return nil, err
		}
		rules[i].Windows = windows
	}
	return rules, nil
}

func (r *repoPG) loadSpecificDays(ctx context.Context, doctorID uuid.UUID) ([]SpecificDay, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, day
		FROM specific_day
		WHERE doctor_id = $1
		ORDER BY day`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("query specific days: %w", err)
	}
	defer rows.Close()

	var days []SpecificDay
	for rows.Next() {
		day := SpecificDay{DoctorID: doctorID}
		if err := rows.Scan(&day.ID, &day.Day); err != nil {
			return nil, fmt.Errorf("scan specific day: %w", err)
		}
		day.Day = DateOnly(day.Day)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		windows, err := r.loadWindows(ctx, "specific_window", "day_id", days[i].ID)
		if err != nil {
			return nil, err
		}
		days[i].Windows = windows
	}
	return days, nil
}

func (r *repoPG) loadWindows(ctx context.Context, table, fk string, ownerID uuid.UUID) ([]TimeWindow, error) {
	query := fmt.Sprintf(`
		SELECT id, start_time, end_time, interval_minutes, end_buffer_minutes
		FROM %s
		WHERE %s = $1
		ORDER BY position`, table, fk)

	rows, err := r.conn(ctx).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var windows []TimeWindow
	for rows.Next() {
		var w TimeWindow
		if err := rows.Scan(&w.ID, &w.Start, &w.End, &w.IntervalMinutes, &w.EndBufferMinutes); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *repoPG) loadRecurringSettings(ctx context.Context, doctorID uuid.UUID) (*RecurringSettings, error) {
	s := RecurringSettings{DoctorID: doctorID}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT interval_minutes, buffer_minutes, start_date, end_date,
		       no_end_date, enabled, recurring_active
		FROM recurring_settings
		WHERE doctor_id = $1`, doctorID).
		Scan(&s.IntervalMinutes, &s.BufferMinutes, &s.StartDate, &s.EndDate,
			&s.NoEndDate, &s.Enabled, &s.RecurringActive)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query recurring settings: %w", err)
	}
	return &s, nil
}

func (r *repoPG) loadSpecificSettings(ctx context.Context, doctorID uuid.UUID) (*SpecificSettings, error) {
	s := SpecificSettings{DoctorID: doctorID}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT interval_minutes, buffer_minutes
		FROM specific_settings
		WHERE doctor_id = $1`, doctorID).
		Scan(&s.IntervalMinutes, &s.BufferMinutes)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query specific settings: %w", err)
	}
	return &s, nil
}

func (r *repoPG) ReplaceDefinitions(ctx context.Context, doctorID uuid.UUID, defs *Definitions) error {
	conn := r.conn(ctx)

	// Window rows go with their parents via ON DELETE CASCADE.
	for _, stmt := range []string{
		`DELETE FROM recurring_rule WHERE doctor_id = $1`,
		`DELETE FROM specific_day WHERE doctor_id = $1`,
		`DELETE FROM recurring_settings WHERE doctor_id = $1`,
		`DELETE FROM specific_settings WHERE doctor_id = $1`,
	} {
		if _, err := conn.Exec(ctx, stmt, doctorID); err != nil {
			return fmt.Errorf("clear definitions: %w", err)
		}
	}

	for _, rule := range defs.Rules {
		_, err := conn.Exec(ctx, `
			INSERT INTO recurring_rule (id, doctor_id, weekday, enabled)
			VALUES ($1, $2, $3, $4)`,
			rule.ID, doctorID, rule.Weekday, rule.Enabled)
		if err != nil {
			return fmt.Errorf("insert recurring rule: %w", err)
		}
		if err := r.insertWindows(ctx, "recurring_window", "rule_id", rule.ID, rule.Windows); err != nil {
			return err
		}
	}

	for _, day := range defs.SpecificDays {
		_, err := conn.Exec(ctx, `
			INSERT INTO specific_day (id, doctor_id, day)
			VALUES ($1, $2, $3)`,
			day.ID, doctorID, DateOnly(day.Day))
		if err != nil {
			return fmt.Errorf("insert specific day: %w", err)
		}
		if err := r.insertWindows(ctx, "specific_window", "day_id", day.ID, day.Windows); err != nil {
			return err
		}
	}

	if s := defs.RecurringSettings; s != nil {
		_, err := conn.Exec(ctx, `
			INSERT INTO recurring_settings
				(doctor_id, interval_minutes, buffer_minutes, start_date, end_date,
				 no_end_date, enabled, recurring_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			doctorID, s.IntervalMinutes, s.BufferMinutes, s.StartDate, s.EndDate,
			s.NoEndDate, s.Enabled, s.RecurringActive)
		if err != nil {
			return fmt.Errorf("insert recurring settings: %w", err)
		}
	}

	if s := defs.SpecificSettings; s != nil {
		_, err := conn.Exec(ctx, `
			INSERT INTO specific_settings (doctor_id, interval_minutes, buffer_minutes)
			VALUES ($1, $2, $3)`,
			doctorID, s.IntervalMinutes, s.BufferMinutes)
		if err != nil {
			return fmt.Errorf("insert specific settings: %w", err)
		}
	}

	return nil
}

func (r *repoPG) insertWindows(ctx context.Context, table, fk string, ownerID uuid.UUID, windows []TimeWindow) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, start_time, end_time, interval_minutes, end_buffer_minutes, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, table, fk)

	for i, w := range windows {
		_, err := r.conn(ctx).Exec(ctx, query,
			w.ID, ownerID, w.Start, w.End, w.IntervalMinutes, w.EndBufferMinutes, i)
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func (r *repoPG) ListExceptions(ctx context.Context, doctorID uuid.UUID) ([]ExceptionDate, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, day, description
		FROM exception_date
		WHERE doctor_id = $1
		ORDER BY day`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("query exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []ExceptionDate
	for rows.Next() {
		exc := ExceptionDate{DoctorID: doctorID}
		if err := rows.Scan(&exc.ID, &exc.Day, &exc.Description); err != nil {
			return nil, fmt.Errorf("scan exception: %w", err)
		}
		exc.Day = DateOnly(exc.Day)
		exceptions = append(exceptions, exc)
	}
	return exceptions, rows.Err()
}

func (r *repoPG) UpsertException(ctx context.Context, exc *ExceptionDate) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO exception_date (id, doctor_id, day, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (doctor_id, day)
		DO UPDATE SET description = EXCLUDED.description`,
		exc.ID, exc.DoctorID, DateOnly(exc.Day), exc.Description)
	if err != nil {
		return fmt.Errorf("upsert exception: %w", err)
	}
	return nil
}

func (r *repoPG) DeleteException(ctx context.Context, doctorID uuid.UUID, day string) (bool, error) {
	parsed, err := time.Parse(DateLayout, day)
	if err != nil {
		return false, fmt.Errorf("parse exception day: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM exception_date WHERE doctor_id = $1 AND day = $2`,
		doctorID, parsed)
	if err != nil {
		return false, fmt.Errorf("delete exception: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
