package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/internal/repository"
	"github.com/clinicpad/clinicpad/internal/seed"
	"github.com/clinicpad/clinicpad/pkg/idgen"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

type testEnv struct {
	store        kvstore.Store
	bus          *events.Bus
	patients     *repository.PatientRepository
	appointments *repository.AppointmentRepository
	oplog        *repository.OperationLogRepository
	settings     *SettingsService
	patientSvc   *PatientService
	apptSvc      *AppointmentService
	seedSvc      *SeedService
	transferSvc  *TransferService
}

// newTestEnv wires the full service stack over an in-memory store. The
// metrics collector stays nil so tests do not touch the global prometheus
// registry.
func newTestEnv(t *testing.T, store kvstore.Store) *testEnv {
	t.Helper()
	if store == nil {
		store = kvstore.NewMemoryStore()
	}
	log := zap.NewNop()
	bus := events.NewBus()

	patients := repository.NewPatientRepository(store, bus, idgen.NewSequential(seed.PatientIDs()), log)
	appointments := repository.NewAppointmentRepository(store, bus, idgen.NewSequential(seed.AppointmentIDs()), log)
	oplogRepo := repository.NewOperationLogRepository(store, bus, log)
	settings := NewSettingsService(store, log)

	return &testEnv{
		store:        store,
		bus:          bus,
		patients:     patients,
		appointments: appointments,
		oplog:        oplogRepo,
		settings:     settings,
		patientSvc:   NewPatientService(patients, appointments, nil, log),
		apptSvc:      NewAppointmentService(appointments, patients, nil, log),
		seedSvc:      NewSeedService(patients, appointments, settings, log),
		transferSvc:  NewTransferService(patients, appointments, oplogRepo, settings, store, bus, nil, log),
	}
}

func (e *testEnv) mustRegister(t *testing.T, name string) *patient.Patient {
	t.Helper()
	p, err := e.patientSvc.Register(context.Background(), &patient.CreatePatientCommand{Name: name})
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	return p
}

func (e *testEnv) mustSchedule(t *testing.T, patientID, date, reason string) *appointment.Appointment {
	t.Helper()
	a, err := e.apptSvc.Schedule(context.Background(), &appointment.ScheduleAppointmentCommand{
		PatientID: patientID,
		Date:      date,
		Reason:    reason,
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	return a
}
