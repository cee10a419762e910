package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

type fakeRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (f *fakeRepo) Create(ctx context.Context, d *Doctor) error {
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (f *fakeRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.doctors[id]
	return ok, nil
}

func (f *fakeRepo) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.doctors[id]; !ok {
		return pgx.ErrNoRows
	}
	return nil
}

func (f *fakeRepo) GetMode(ctx context.Context, id uuid.UUID) (string, error) {
	d, ok := f.doctors[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return d.ScheduleMode, nil
}

func (f *fakeRepo) SetMode(ctx context.Context, id uuid.UUID, mode string) error {
	f.doctors[id].ScheduleMode = mode
	return nil
}

func TestCreateDoctor(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	d := &Doctor{FullName: "Dra. Helena Moreira"}
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if d.ScheduleMode != "RECURRING" {
		t.Errorf("default mode = %s, want RECURRING", d.ScheduleMode)
	}
}

func TestCreateDoctorRequiresName(t *testing.T) {
	svc := NewService(newFakeRepo())
	err := svc.CreateDoctor(context.Background(), &Doctor{})
	appErr, ok := apperror.AsError(err)
	if !ok || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestGetDoctorNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.GetDoctor(context.Background(), uuid.New())
	appErr, ok := apperror.AsError(err)
	if !ok || appErr.Code != "DOCTOR_NOT_FOUND" {
		t.Fatalf("expected DOCTOR_NOT_FOUND, got %v", err)
	}
}
