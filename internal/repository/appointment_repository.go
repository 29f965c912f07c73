package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/pkg/idgen"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

type AppointmentRepository struct {
	c *collection[*appointment.Appointment]
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(store kvstore.Store, bus *events.Bus, gen idgen.Generator, log *zap.Logger) *AppointmentRepository {
	return &AppointmentRepository{
		c: newCollection[*appointment.Appointment](store, KeyAppointments, bus, events.TopicAppointmentsChanged, gen, log.Named("appointments")),
	}
}

func (r *AppointmentRepository) Initialize(ctx context.Context) error {
	return r.c.initialize(ctx)
}

func (r *AppointmentRepository) GetAll(ctx context.Context) ([]*appointment.Appointment, error) {
	return r.c.getAll(ctx)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	a, err := r.c.getByID(ctx, id)
	if errors.Is(err, errNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, err
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*appointment.Appointment, error) {
	return r.c.filter(ctx, func(a *appointment.Appointment) bool {
		return a.PatientID == patientID
	})
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.c.create(ctx, a, func(id string) { a.ID = id })
}

func (r *AppointmentRepository) Update(ctx context.Context, id string, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	a, err := r.c.mutate(ctx, id, func(stored *appointment.Appointment) { cmd.ApplyTo(stored) })
	if errors.Is(err, errNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, err
}

func (r *AppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	err := r.c.save(ctx, a)
	if errors.Is(err, errNotFound) {
		return appointment.ErrAppointmentNotFound
	}
	return err
}

func (r *AppointmentRepository) BulkAdd(ctx context.Context, as []*appointment.Appointment) error {
	return r.c.bulkAdd(ctx, as)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *AppointmentRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.c.deleteMany(ctx, ids)
}

func (r *AppointmentRepository) Reset() {
	r.c.reset()
}

func (r *AppointmentRepository) Count(ctx context.Context) (int, error) {
	return r.c.count(ctx)
}
