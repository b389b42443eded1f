package planning_test

import (
	"errors"
	"testing"

	"github.com/jgalan247/schemeofLearning/internal/planning"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := planning.NewMemoryStore()

	sess, err := store.Create(planning.NewCustom("Year 10", "2025-26"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Create() returned empty id")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Plan.YearGroup != "Year 10" {
		t.Errorf("YearGroup = %q, want %q", got.Plan.YearGroup, "Year 10")
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := planning.NewMemoryStore()
	if _, err := store.Get("missing"); !errors.Is(err, planning.ErrSessionNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	store := planning.NewMemoryStore()
	sess, _ := store.Create(planning.NewCustom("Year 10", "2025-26"))

	updated, err := store.Update(sess.ID, func(s planning.Session) (planning.Session, error) {
		s.Plan = s.Plan.AddUnit("Networks", "5 weeks")
		return s, nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.Plan.Units) != 1 {
		t.Errorf("len(Units) = %d, want 1", len(updated.Plan.Units))
	}

	got, _ := store.Get(sess.ID)
	if len(got.Plan.Units) != 1 {
		t.Error("Update() result not persisted")
	}
}

func TestMemoryStore_UpdateError_LeavesSessionUntouched(t *testing.T) {
	store := planning.NewMemoryStore()
	sess, _ := store.Create(planning.NewCustom("Year 10", "2025-26"))

	wantErr := errors.New("boom")
	_, err := store.Update(sess.ID, func(s planning.Session) (planning.Session, error) {
		s.Plan = s.Plan.AddUnit("Networks", "5 weeks")
		return s, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	got, _ := store.Get(sess.ID)
	if len(got.Plan.Units) != 0 {
		t.Error("failed update must not mutate the stored session")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := planning.NewMemoryStore()
	sess, _ := store.Create(planning.NewCustom("Year 10", "2025-26"))

	if err := store.Delete(sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(sess.ID); !errors.Is(err, planning.ErrSessionNotFound) {
		t.Error("session should be gone after Delete")
	}
	if err := store.Delete(sess.ID); !errors.Is(err, planning.ErrSessionNotFound) {
		t.Errorf("second Delete error = %v, want ErrSessionNotFound", err)
	}
}
