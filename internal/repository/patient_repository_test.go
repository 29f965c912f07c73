package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/patient"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/internal/seed"
	"github.com/clinicpad/clinicpad/pkg/idgen"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

func newPatientRepo(t *testing.T) (*PatientRepository, *kvstore.MemoryStore, *events.Bus) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	bus := events.NewBus()
	repo := NewPatientRepository(store, bus, idgen.NewSequential(seed.PatientIDs()), zap.NewNop())
	return repo, store, bus
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	p := &patient.Patient{Name: "Jane Roe"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A second Initialize must not reload and wipe the cache.
	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("after re-Initialize, len = %d, want 1", len(all))
	}
}

func TestCreateAssignsIDOutsideSeedRange(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	p := &patient.Patient{Name: "Jane Roe", Phone: "555-0100"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if _, reserved := seed.PatientIDs()[p.ID]; reserved {
		t.Fatalf("assigned seed-reserved ID %q", p.ID)
	}

	q := &patient.Patient{Name: "John Doe"}
	if err := repo.Create(ctx, q); err != nil {
		t.Fatal(err)
	}
	if q.ID == p.ID {
		t.Fatalf("two records share ID %q", p.ID)
	}
}

func TestGetAllReturnsDefensiveCopies(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	p := &patient.Patient{Name: "Jane Roe", Visits: []patient.Visit{{Date: "2025-01-10"}}}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	all, _ := repo.GetAll(ctx)
	all[0].Name = "hacked"
	all[0].Visits[0].Date = "1999-01-01"

	fresh, _ := repo.GetByID(ctx, p.ID)
	if fresh.Name != "Jane Roe" || fresh.Visits[0].Date != "2025-01-10" {
		t.Fatal("mutating a returned record reached repository state")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	if _, err := repo.GetByID(ctx, "999"); !errors.Is(err, patient.ErrPatientNotFound) {
		t.Fatalf("err = %v, want ErrPatientNotFound", err)
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	p := &patient.Patient{Name: "Jane Roe", Phone: "555-0100", Age: 30}
	_ = repo.Create(ctx, p)

	phone := "555-0199"
	updated, err := repo.Update(ctx, p.ID, &patient.UpdatePatientCommand{Phone: &phone})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != "555-0199" {
		t.Errorf("Phone = %q", updated.Phone)
	}
	if updated.Name != "Jane Roe" || updated.Age != 30 {
		t.Error("untouched fields changed")
	}

	if _, err := repo.Update(ctx, "999", &patient.UpdatePatientCommand{Phone: &phone}); !errors.Is(err, patient.ErrPatientNotFound) {
		t.Fatalf("Update missing ID: err = %v, want ErrPatientNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	p := &patient.Patient{Name: "Jane Roe"}
	_ = repo.Create(ctx, p)

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete of missing ID: %v, want nil", err)
	}

	all, _ := repo.GetAll(ctx)
	if len(all) != 0 {
		t.Fatalf("len = %d after delete, want 0", len(all))
	}
}

func TestBulkAddPublishesOneEvent(t *testing.T) {
	ctx := context.Background()
	repo, _, bus := newPatientRepo(t)

	var published int
	bus.Subscribe(events.TopicPatientsChanged, func(events.Topic) { published++ })

	batch := []*patient.Patient{
		{ID: "100", Name: "A"},
		{ID: "101", Name: "B"},
		{ID: "102", Name: "C"},
	}
	if err := repo.BulkAdd(ctx, batch); err != nil {
		t.Fatalf("BulkAdd: %v", err)
	}

	if published != 1 {
		t.Fatalf("BulkAdd published %d events, want exactly 1", published)
	}
	all, _ := repo.GetAll(ctx)
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
}

func TestPersistedStateSurvivesReset(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	p := &patient.Patient{Name: "Jane Roe"}
	_ = repo.Create(ctx, p)

	repo.Reset()

	reloaded, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID after Reset: %v", err)
	}
	if reloaded.Name != "Jane Roe" {
		t.Fatalf("Name = %q", reloaded.Name)
	}
}

func TestSearchByName(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newPatientRepo(t)

	_ = repo.Create(ctx, &patient.Patient{Name: "Jane Roe"})
	_ = repo.Create(ctx, &patient.Patient{Name: "John Doe"})

	hits, err := repo.SearchByName(ctx, "jane")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "Jane Roe" {
		t.Fatalf("SearchByName(jane) = %v", hits)
	}

	all, _ := repo.SearchByName(ctx, "")
	if len(all) != 2 {
		t.Fatalf("empty query matched %d, want 2", len(all))
	}
}

func TestCreatePersistsThroughStore(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := newPatientRepo(t)

	p := &patient.Patient{Name: "Jane Roe"}
	_ = repo.Create(ctx, p)

	// A second repository over the same store sees the write.
	repo2 := NewPatientRepository(store, events.NewBus(), idgen.NewSequential(seed.PatientIDs()), zap.NewNop())
	got, err := repo2.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID from fresh repo: %v", err)
	}
	if got.Name != "Jane Roe" {
		t.Fatalf("Name = %q", got.Name)
	}
}
