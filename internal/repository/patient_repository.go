package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/patient"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/pkg/idgen"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

// PatientRepository keeps the patient collection as a list scan rather than
// a map: collections in this domain stay small, insertion order is the
// contract for GetAll, and a map would buy nothing.
type PatientRepository struct {
	c *collection[*patient.Patient]
}

var _ patient.Repository = (*PatientRepository)(nil)

func NewPatientRepository(store kvstore.Store, bus *events.Bus, gen idgen.Generator, log *zap.Logger) *PatientRepository {
	return &PatientRepository{
		c: newCollection[*patient.Patient](store, KeyPatients, bus, events.TopicPatientsChanged, gen, log.Named("patients")),
	}
}

func (r *PatientRepository) Initialize(ctx context.Context) error {
	return r.c.initialize(ctx)
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]*patient.Patient, error) {
	return r.c.getAll(ctx)
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*patient.Patient, error) {
	p, err := r.c.getByID(ctx, id)
	if errors.Is(err, errNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	return p, err
}

func (r *PatientRepository) SearchByName(ctx context.Context, query string) ([]*patient.Patient, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return r.c.filter(ctx, func(p *patient.Patient) bool {
		return q == "" || strings.Contains(strings.ToLower(p.Name), q)
	})
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return r.c.create(ctx, p, func(id string) { p.ID = id })
}

func (r *PatientRepository) Update(ctx context.Context, id string, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	p, err := r.c.mutate(ctx, id, func(stored *patient.Patient) { cmd.ApplyTo(stored) })
	if errors.Is(err, errNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	return p, err
}

func (r *PatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	err := r.c.save(ctx, p)
	if errors.Is(err, errNotFound) {
		return patient.ErrPatientNotFound
	}
	return err
}

func (r *PatientRepository) BulkAdd(ctx context.Context, ps []*patient.Patient) error {
	return r.c.bulkAdd(ctx, ps)
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *PatientRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.c.deleteMany(ctx, ids)
}

func (r *PatientRepository) Reset() {
	r.c.reset()
}

// Count reports the number of stored patients.
func (r *PatientRepository) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx)
}
