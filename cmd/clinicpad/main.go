package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/config"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/internal/repository"
	"github.com/clinicpad/clinicpad/internal/seed"
	"github.com/clinicpad/clinicpad/internal/service"
	"github.com/clinicpad/clinicpad/pkg/idgen"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
	"github.com/clinicpad/clinicpad/pkg/logger"
	"github.com/clinicpad/clinicpad/pkg/metrics"
)

// app owns the wired object graph. The event bus is constructed here and
// injected into each repository; nothing in the tree reaches for a global.
type app struct {
	cfg          *config.Config
	log          *zap.Logger
	store        kvstore.Store
	bus          *events.Bus
	patients     *repository.PatientRepository
	appointments *repository.AppointmentRepository
	oplog        *repository.OperationLogRepository

	patientSvc     *service.PatientService
	appointmentSvc *service.AppointmentService
	seedSvc        *service.SeedService
	settingsSvc    *service.SettingsService
	transferSvc    *service.TransferService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	var store kvstore.Store
	if cfg.Storage.InMemory {
		store = kvstore.NewMemoryStore()
	} else {
		store, err = kvstore.NewFileStore(cfg.Storage.DataDir, log)
		if err != nil {
			return nil, err
		}
	}

	bus := events.NewBus()
	collector := metrics.NewCollector(cfg.App.Name)

	patients := repository.NewPatientRepository(store, bus, idgen.NewSequential(seed.PatientIDs()), log)
	appointments := repository.NewAppointmentRepository(store, bus, idgen.NewSequential(seed.AppointmentIDs()), log)
	oplogRepo := repository.NewOperationLogRepository(store, bus, log)

	settingsSvc := service.NewSettingsService(store, log)
	seedSvc := service.NewSeedService(patients, appointments, settingsSvc, log)

	a := &app{
		cfg:            cfg,
		log:            log,
		store:          store,
		bus:            bus,
		patients:       patients,
		appointments:   appointments,
		oplog:          oplogRepo,
		patientSvc:     service.NewPatientService(patients, appointments, collector, log),
		appointmentSvc: service.NewAppointmentService(appointments, patients, collector, log),
		seedSvc:        seedSvc,
		settingsSvc:    settingsSvc,
		transferSvc: service.NewTransferService(
			patients, appointments, oplogRepo, settingsSvc, store, bus, collector, log,
		),
	}

	if err := a.initialize(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) initialize(ctx context.Context) error {
	if err := a.patients.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing patients: %w", err)
	}
	if err := a.appointments.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing appointments: %w", err)
	}
	if err := a.oplog.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing operation log: %w", err)
	}
	return a.seedSvc.ApplyFirstLaunch(ctx, a.cfg.Seed.EnabledByDefault)
}

func (a *app) close() {
	_ = a.log.Sync()
}

func main() {
	root := &cobra.Command{
		Use:           "clinicpad",
		Short:         "Local-first patient and appointment records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var a *app
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		a, err = newApp(cmd.Context())
		return err
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a != nil {
			a.close()
		}
	}

	root.AddCommand(
		newPatientCmd(&a),
		newAppointmentCmd(&a),
		newSeedCmd(&a),
		newExportCmd(&a),
		newImportCmd(&a),
		newLogCmd(&a),
		newWipeCmd(&a),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
