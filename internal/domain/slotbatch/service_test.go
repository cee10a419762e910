package slotbatch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/schedule"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

type fakeRepo struct {
	rows []RawSlot
}

func (f *fakeRepo) ListActive(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]RawSlot, error) {
	var out []RawSlot
	for _, r := range f.rows {
		if r.DoctorID == doctorID && schedule.SameDate(r.Day, day) && !r.Deleted {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListActiveRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]RawSlot, error) {
	var out []RawSlot
	for _, r := range f.rows {
		if r.DoctorID == doctorID && !r.Deleted && !r.Day.Before(from) && r.Day.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) SoftDeleteDay(ctx context.Context, doctorID uuid.UUID, day time.Time, reason string, deletedBy uuid.UUID) (int64, error) {
	var n int64
	for i := range f.rows {
		r := &f.rows[i]
		if r.DoctorID == doctorID && schedule.SameDate(r.Day, day) && !r.Deleted {
			r.Deleted = true
			r.DeleteReason = &reason
			if deletedBy != uuid.Nil {
				by := deletedBy
				r.DeletedBy = &by
			}
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) MaxVersion(ctx context.Context, doctorID uuid.UUID, day time.Time) (int, error) {
	max := 0
	for _, r := range f.rows {
		if r.DoctorID == doctorID && schedule.SameDate(r.Day, day) && r.Version > max {
			max = r.Version
		}
	}
	return max, nil
}

func (f *fakeRepo) Insert(ctx context.Context, rows []RawSlot) error {
	f.rows = append(f.rows, rows...)
	return nil
}

type fakeLocker struct {
	known bool
}

func (f *fakeLocker) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	if !f.known {
		return pgx.ErrNoRows
	}
	return nil
}

type fakeAudit struct {
	changeTypes []string
}

func (f *fakeAudit) Record(ctx context.Context, doctorID uuid.UUID, changeType string, oldState, newState interface{}, changedBy uuid.UUID) error {
	f.changeTypes = append(f.changeTypes, changeType)
	return nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedNow is 2026-09-07 10:00 UTC; uploads in the tests target later days.
var fixedNow = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, audit *fakeAudit) *Service {
	return NewService(repo, &fakeLocker{known: true}, audit, passthroughTx, Options{
		MaxSlotsPerDay:     96,
		EnforceFutureSlots: true,
		Location:           time.UTC,
	}, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
}

func TestUpsertNewDays(t *testing.T) {
	repo := &fakeRepo{}
	audit := &fakeAudit{}
	svc := newTestService(repo, audit)

	result, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{
		Days: []DayUpload{
			{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"08:00", "08:30"}},
			{Date: "2026-09-09", Source: SourceNone},
		},
	}, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Replaced {
		t.Error("fresh batch must not report replaced")
	}
	if result.ReceivedDays != 2 {
		t.Errorf("received_days = %d, want 2", result.ReceivedDays)
	}
	if result.CreatedSlots != 2 {
		t.Errorf("created_slots = %d, want 2", result.CreatedSlots)
	}
	if result.BlockedDays != 1 {
		t.Errorf("blocked_days = %d, want 1", result.BlockedDays)
	}
	if len(result.Days) != 2 {
		t.Fatalf("expected 2 day results, got %d", len(result.Days))
	}
	for _, d := range result.Days {
		if d.Version != 1 {
			t.Errorf("day %s version = %d, want 1", d.Date, d.Version)
		}
	}
	// The blocked day materializes as one sentinel row with a null time.
	if result.Days[1].Slots != 1 {
		t.Errorf("blocked day slots = %d, want 1", result.Days[1].Slots)
	}
	if len(audit.changeTypes) != 1 || audit.changeTypes[0] != ChangeSlotsUpload {
		t.Errorf("expected slots_upload audit record, got %v", audit.changeTypes)
	}
}

func TestUpsertReplacesAndVersions(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAudit{})
	doctorID := uuid.New()

	first := &UpsertRequest{Days: []DayUpload{
		{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"08:00", "08:30"}},
	}}
	if _, err := svc.Upsert(context.Background(), doctorID, first, uuid.Nil); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	second := &UpsertRequest{Days: []DayUpload{
		{Date: "2026-09-08", Source: SourceSpecific, Times: []string{"09:00"}},
	}}
	result, err := svc.Upsert(context.Background(), doctorID, second, uuid.Nil)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if !result.Replaced {
		t.Error("second upload must report replaced")
	}
	if result.Days[0].Version != 2 {
		t.Errorf("version = %d, want 2", result.Days[0].Version)
	}

	day := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	active, _ := repo.ListActive(context.Background(), doctorID, day)
	if len(active) != 1 || *active[0].Time != "09:00" || active[0].Source != SourceSpecific {
		t.Errorf("active rows after replace: %+v", active)
	}

	// The first generation survives soft-deleted with the replace reason.
	var retired int
	for _, r := range repo.rows {
		if r.Deleted {
			retired++
			if r.DeleteReason == nil || *r.DeleteReason != DeleteReasonReplaced {
				t.Errorf("retired row reason = %v", r.DeleteReason)
			}
		}
	}
	if retired != 2 {
		t.Errorf("expected 2 retired rows, got %d", retired)
	}
}

func TestUpsertStampsActor(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAudit{})
	doctorID := uuid.New()
	actor := uuid.New()

	req := &UpsertRequest{Days: []DayUpload{
		{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"08:00"}},
	}}
	if _, err := svc.Upsert(context.Background(), doctorID, req, actor); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if _, err := svc.Upsert(context.Background(), doctorID, req, actor); err != nil {
		t.Fatalf("second upload: %v", err)
	}

	for _, r := range repo.rows {
		if r.CreatedBy == nil || *r.CreatedBy != actor {
			t.Errorf("row created_by = %v, want %s", r.CreatedBy, actor)
		}
		if r.Deleted && (r.DeletedBy == nil || *r.DeletedBy != actor) {
			t.Errorf("retired row deleted_by = %v, want %s", r.DeletedBy, actor)
		}
	}
}

func TestUpsertWritesTimesSorted(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAudit{})

	_, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{
		Days: []DayUpload{
			{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"10:00", "08:00", "09:00"}},
		},
	}, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"08:00", "09:00", "10:00"}
	if len(repo.rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(repo.rows))
	}
	for i, r := range repo.rows {
		if r.Time == nil || *r.Time != want[i] {
			t.Errorf("row %d time = %v, want %s", i, r.Time, want[i])
		}
	}
}

func TestUpsertVersionNeverReused(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAudit{})
	doctorID := uuid.New()

	for i := 0; i < 3; i++ {
		req := &UpsertRequest{Days: []DayUpload{
			{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"08:00"}},
		}}
		result, err := svc.Upsert(context.Background(), doctorID, req, uuid.Nil)
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		if result.Days[0].Version != i+1 {
			t.Errorf("upload %d version = %d, want %d", i, result.Days[0].Version, i+1)
		}
	}
}

func TestUpsertValidation(t *testing.T) {
	manyTimes := make([]string, 97)
	for i := range manyTimes {
		manyTimes[i] = schedule.FormatClock(8*60 + i)
	}

	tests := []struct {
		name     string
		req      UpsertRequest
		wantCode string
	}{
		{"empty batch", UpsertRequest{}, "EMPTY_BATCH"},
		{
			"bad date",
			UpsertRequest{Days: []DayUpload{{Date: "08/09/2026", Source: SourceRecurring, Times: []string{"08:00"}}}},
			"INVALID_DATE",
		},
		{
			"duplicate date",
			UpsertRequest{Days: []DayUpload{
				{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"08:00"}},
				{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"09:00"}},
			}},
			"DUPLICATE_DATE",
		},
		{
			"bad source",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-08", Source: "MANUAL", Times: []string{"08:00"}}}},
			"VALIDATION_ERROR",
		},
		{
			"source without times",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-08", Source: SourceRecurring}}},
			"SOURCE_SLOTS_MISMATCH",
		},
		{
			"blocked day with times",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-08", Source: SourceNone, Times: []string{"08:00"}}}},
			"SOURCE_SLOTS_MISMATCH",
		},
		{
			"bad time format",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"8h30"}}}},
			"INVALID_TIME_FORMAT",
		},
		{
			"duplicate time",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"08:00", "08:00"}}}},
			"DUPLICATE_SLOT_TIME",
		},
		{
			"past day",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-06", Source: SourceRecurring, Times: []string{"08:00"}}}},
			"SLOT_IN_PAST",
		},
		{
			"past time today",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-07", Source: SourceRecurring, Times: []string{"09:00"}}}},
			"SLOT_IN_PAST",
		},
		{
			"too many slots",
			UpsertRequest{Days: []DayUpload{{Date: "2026-09-08", Source: SourceRecurring, Times: manyTimes}}},
			"SLOT_LIMIT_EXCEEDED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo, &fakeAudit{})
			_, err := svc.Upsert(context.Background(), uuid.New(), &tt.req, uuid.Nil)
			appErr, ok := apperror.AsError(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
			if len(repo.rows) != 0 {
				t.Errorf("invalid batch must not write, found %d rows", len(repo.rows))
			}
		})
	}
}

func TestUpsertFutureEnforcementOff(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeLocker{known: true}, &fakeAudit{}, passthroughTx, Options{
		MaxSlotsPerDay:     96,
		EnforceFutureSlots: false,
		Location:           time.UTC,
	}, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })

	_, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{
		Days: []DayUpload{{Date: "2026-09-01", Source: SourceRecurring, Times: []string{"08:00"}}},
	}, uuid.Nil)
	if err != nil {
		t.Fatalf("past slots must pass when enforcement is off: %v", err)
	}
}

func TestUpsertUnknownDoctor(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeLocker{known: false}, &fakeAudit{}, passthroughTx, Options{
		MaxSlotsPerDay: 96,
		Location:       time.UTC,
	}, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })

	_, err := svc.Upsert(context.Background(), uuid.New(), &UpsertRequest{
		Days: []DayUpload{{Date: "2026-09-08", Source: SourceRecurring, Times: []string{"08:00"}}},
	}, uuid.Nil)
	appErr, ok := apperror.AsError(err)
	if !ok || appErr.Code != "DOCTOR_NOT_FOUND" {
		t.Fatalf("expected DOCTOR_NOT_FOUND, got %v", err)
	}
}
