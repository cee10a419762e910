package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/slotbatch"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/slots"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

type fakeSlotRepo struct {
	slots []slots.MaterializedSlot
}

func (f *fakeSlotRepo) DeleteFrom(ctx context.Context, doctorID uuid.UUID, from time.Time) error {
	return nil
}

func (f *fakeSlotRepo) BulkInsert(ctx context.Context, rows []slots.MaterializedSlot) error {
	return nil
}

func (f *fakeSlotRepo) ListRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]slots.MaterializedSlot, error) {
	var out []slots.MaterializedSlot
	for _, s := range f.slots {
		if s.DoctorID == doctorID && !s.Day.Before(from) && s.Day.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeRawRepo struct {
	rows []slotbatch.RawSlot
}

func (f *fakeRawRepo) ListActive(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]slotbatch.RawSlot, error) {
	return nil, nil
}

func (f *fakeRawRepo) ListActiveRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]slotbatch.RawSlot, error) {
	var out []slotbatch.RawSlot
	for _, r := range f.rows {
		if r.DoctorID == doctorID && !r.Day.Before(from) && r.Day.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRawRepo) SoftDeleteDay(ctx context.Context, doctorID uuid.UUID, day time.Time, reason string, deletedBy uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeRawRepo) MaxVersion(ctx context.Context, doctorID uuid.UUID, day time.Time) (int, error) {
	return 0, nil
}

func (f *fakeRawRepo) Insert(ctx context.Context, rows []slotbatch.RawSlot) error {
	return nil
}

type fakeDoctors struct {
	known bool
}

func (f *fakeDoctors) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.known, nil
}

// Monday 2026-09-07, 10:00 local.
var fixedNow = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 9, 7+offset, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func newTestService(slotRepo *fakeSlotRepo, rawRepo *fakeRawRepo, known bool) *Service {
	return NewService(slotRepo, rawRepo, &fakeDoctors{known: known}, Options{
		WeekLengthDays: 7,
		MaxRangeDays:   31,
		Location:       time.UTC,
	}, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
}

func TestQueryWeek(t *testing.T) {
	doctorID := uuid.New()
	slotRepo := &fakeSlotRepo{slots: []slots.MaterializedSlot{
		{DoctorID: doctorID, Day: day(0), Start: "08:00", End: "08:30", Source: slots.SourceRecurring, Status: slots.StatusAvailable},
		{DoctorID: doctorID, Day: day(0), Start: "08:30", End: "09:00", Source: slots.SourceRecurring, Status: slots.StatusBlocked},
		{DoctorID: doctorID, Day: day(2), Start: "14:00", End: "15:00", Source: slots.SourceSpecific, Status: slots.StatusAvailable},
	}}
	week, err := newTestService(slotRepo, &fakeRawRepo{}, true).Query(context.Background(), doctorID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if week.Start != "2026-09-07" || week.End != "2026-09-13" {
		t.Errorf("range = %s..%s", week.Start, week.End)
	}
	if week.Timezone != "UTC" {
		t.Errorf("timezone = %q", week.Timezone)
	}
	if len(week.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week.Days))
	}

	mon := week.Days[0]
	if mon.Label != "segunda-feira" {
		t.Errorf("label = %q", mon.Label)
	}
	// The booked 08:30 slot is not offered.
	if len(mon.Times) != 1 || mon.Times[0] != "08:00" {
		t.Errorf("monday times = %v", mon.Times)
	}
	// Days the batch path never touched report SPECIFIC when times exist.
	if mon.Source != string(slots.SourceSpecific) {
		t.Errorf("monday source = %s", mon.Source)
	}

	wed := week.Days[2]
	if wed.Source != string(slots.SourceSpecific) || len(wed.Times) != 1 {
		t.Errorf("wednesday = %+v", wed)
	}

	// A day with nothing on it still appears, empty and unsourced.
	tue := week.Days[1]
	if tue.Source != SourceNone || len(tue.Times) != 0 || tue.Blocked {
		t.Errorf("tuesday = %+v", tue)
	}
}

func TestQueryBlockedDay(t *testing.T) {
	doctorID := uuid.New()
	rawRepo := &fakeRawRepo{rows: []slotbatch.RawSlot{
		{DoctorID: doctorID, Day: day(1), Time: nil, Source: slotbatch.SourceNone},
	}}
	// Stale materialized rows must not leak through a blocked day.
	slotRepo := &fakeSlotRepo{slots: []slots.MaterializedSlot{
		{DoctorID: doctorID, Day: day(1), Start: "08:00", End: "08:30", Source: slots.SourceRecurring, Status: slots.StatusAvailable},
	}}

	week, err := newTestService(slotRepo, rawRepo, true).Query(context.Background(), doctorID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tue := week.Days[1]
	if !tue.Blocked || len(tue.Times) != 0 || tue.Source != slotbatch.SourceNone {
		t.Errorf("blocked day = %+v", tue)
	}
}

func TestQueryRawSourceAttribution(t *testing.T) {
	doctorID := uuid.New()
	rawRepo := &fakeRawRepo{rows: []slotbatch.RawSlot{
		{DoctorID: doctorID, Day: day(0), Time: strPtr("08:00"), Source: slotbatch.SourceRecurring},
	}}
	slotRepo := &fakeSlotRepo{slots: []slots.MaterializedSlot{
		{DoctorID: doctorID, Day: day(0), Start: "08:00", End: "08:30", Source: slots.SourceSpecific, Status: slots.StatusAvailable},
	}}

	week, err := newTestService(slotRepo, rawRepo, true).Query(context.Background(), doctorID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The first raw row's source wins whenever the day was batch-written.
	if week.Days[0].Source != slotbatch.SourceRecurring {
		t.Errorf("source = %s, want RECURRING", week.Days[0].Source)
	}
}

func TestQueryClampsPastStart(t *testing.T) {
	week, err := newTestService(&fakeSlotRepo{}, &fakeRawRepo{}, true).
		Query(context.Background(), uuid.New(), "2026-09-01", "2026-09-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if week.Start != "2026-09-07" {
		t.Errorf("start must clamp to today, got %s", week.Start)
	}
	if len(week.Days) != 4 {
		t.Errorf("expected 4 days after clamping, got %d", len(week.Days))
	}
}

func TestQueryRangeErrors(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantCode   string
	}{
		{"bad start", "07/09/2026", "", "INVALID_DATE"},
		{"bad end", "2026-09-07", "13/09/2026", "INVALID_DATE"},
		{"end before start", "2026-09-10", "2026-09-08", "RANGE_END_BEFORE_START"},
		{"eight days", "2026-09-07", "2026-09-14", "RANGE_EXCEEDS_WEEK"},
		{"beyond max", "2026-09-07", "2026-10-20", "RANGE_EXCEEDS_MAX_DAYS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(&fakeSlotRepo{}, &fakeRawRepo{}, true).
				Query(context.Background(), uuid.New(), tt.start, tt.end)
			appErr, ok := apperror.AsError(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestQueryUnknownDoctor(t *testing.T) {
	_, err := newTestService(&fakeSlotRepo{}, &fakeRawRepo{}, false).
		Query(context.Background(), uuid.New(), "", "")
	appErr, ok := apperror.AsError(err)
	if !ok || appErr.Code != "DOCTOR_NOT_FOUND" {
		t.Fatalf("expected DOCTOR_NOT_FOUND, got %v", err)
	}
}
