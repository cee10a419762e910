package slots

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/schedule"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

// Generator rebuilds a doctor's materialized slot horizon from the schedule
// definitions. It runs inside whatever transaction the calling service
// opened, so the delete and reinsert are atomic with the definition change
// that triggered them.
type Generator struct {
	schedules   schedule.Repository
	slots       Repository
	bookings    AppointmentSource
	loc         *time.Location
	horizonDays int
	now         func() time.Time
	logger      zerolog.Logger
}

func NewGenerator(schedules schedule.Repository, slots Repository, bookings AppointmentSource, loc *time.Location, horizonDays int, logger zerolog.Logger) *Generator {
	return &Generator{
		schedules:   schedules,
		slots:       slots,
		bookings:    bookings,
		loc:         loc,
		horizonDays: horizonDays,
		now:         time.Now,
		logger:      logger.With().Str("component", "slot-generator").Logger(),
	}
}

// WithClock overrides the generator's time source. Tests only.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Regenerate drops every future slot and rebuilds the full horizon starting
// today. Slots whose start instant already carries a live appointment come
// back BLOCKED rather than disappearing, and past days are never touched.
func (g *Generator) Regenerate(ctx context.Context, doctorID uuid.UUID) error {
	today := schedule.DateOnly(g.now().In(g.loc))
	horizonEnd := today.AddDate(0, 0, g.horizonDays)

	defs, err := g.schedules.GetDefinitions(ctx, doctorID)
	if err != nil {
		return apperror.Internal("load definitions for generation", err)
	}

	booked, err := g.bookings.BlockedTimes(ctx, doctorID, today, horizonEnd)
	if err != nil {
		return apperror.Internal("load blocking appointments", err)
	}

	generated := g.Build(doctorID, defs, today, booked)

	if err := g.slots.DeleteFrom(ctx, doctorID, today); err != nil {
		return apperror.Internal("clear slot horizon", err)
	}
	if err := g.slots.BulkInsert(ctx, generated); err != nil {
		return apperror.Internal("insert slot horizon", err)
	}

	g.logger.Debug().
		Str("doctor_id", doctorID.String()).
		Int("slots", len(generated)).
		Time("horizon_start", today).
		Msg("slot horizon regenerated")
	return nil
}

// Build materializes the horizon without touching storage. Exposed for the
// generation tests and property checks.
func (g *Generator) Build(doctorID uuid.UUID, defs *schedule.Definitions, today time.Time, booked map[string]bool) []MaterializedSlot {
	var out []MaterializedSlot
	for offset := 0; offset < g.horizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		plan := ResolveDay(defs, day)
		if plan == nil {
			continue
		}

		for _, window := range plan.Windows {
			interval := plan.SlotInterval(window)
			for _, start := range plan.Expand(window) {
				clock := schedule.FormatClock(start)
				status := StatusAvailable
				if booked[BlockedKey(day, clock)] {
					status = StatusBlocked
				}
				out = append(out, MaterializedSlot{
					ID:       uuid.New(),
					DoctorID: doctorID,
					Day:      day,
					Start:    clock,
					End:      schedule.FormatClock(start + interval),
					StartAt:  Instant(day, start, g.loc),
					EndAt:    Instant(day, start+interval, g.loc),
					Source:   plan.Source,
					Status:   status,
				})
			}
		}
	}
	return out
}
