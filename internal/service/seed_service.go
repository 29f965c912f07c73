package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
	"github.com/clinicpad/clinicpad/internal/seed"
)

// SeedService drives the demo-data toggle. Enable and Disable are both
// idempotent: running either twice leaves the store exactly as running it
// once would. Seed records are recognized purely by their reserved IDs, so
// user-created records are never touched.
type SeedService struct {
	patients     patient.Repository
	appointments appointment.Repository
	settings     *SettingsService
	log          *zap.Logger
}

func NewSeedService(
	patients patient.Repository,
	appointments appointment.Repository,
	settings *SettingsService,
	log *zap.Logger,
) *SeedService {
	return &SeedService{patients: patients, appointments: appointments, settings: settings, log: log}
}

func (s *SeedService) Enabled(ctx context.Context) (bool, error) {
	return s.settings.ShowDummyData(ctx)
}

// Enable removes any seed records already present, then inserts the fixed
// seed set. The remove-first step is what makes repeated enables safe.
func (s *SeedService) Enable(ctx context.Context) error {
	if err := s.removeSeedRecords(ctx); err != nil {
		return err
	}
	if err := s.patients.BulkAdd(ctx, seed.Patients()); err != nil {
		return fmt.Errorf("inserting seed patients: %w", err)
	}
	if err := s.appointments.BulkAdd(ctx, seed.Appointments()); err != nil {
		return fmt.Errorf("inserting seed appointments: %w", err)
	}
	if err := s.settings.SetShowDummyData(ctx, true); err != nil {
		return err
	}
	s.log.Info("demo data enabled")
	return nil
}

// Disable deletes every record in the reserved seed-ID sets and leaves
// user data untouched.
func (s *SeedService) Disable(ctx context.Context) error {
	if err := s.removeSeedRecords(ctx); err != nil {
		return err
	}
	if err := s.settings.SetShowDummyData(ctx, false); err != nil {
		return err
	}
	s.log.Info("demo data disabled")
	return nil
}

// ApplyFirstLaunch seeds a brand-new installation according to the
// configured default and records that the first launch has happened.
// Later launches are no-ops.
func (s *SeedService) ApplyFirstLaunch(ctx context.Context, enableByDefault bool) error {
	done, err := s.settings.FirstLaunchDone(ctx)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	if enableByDefault {
		if err := s.Enable(ctx); err != nil {
			return err
		}
	}
	return s.settings.MarkFirstLaunchDone(ctx)
}

func (s *SeedService) removeSeedRecords(ctx context.Context) error {
	if err := s.appointments.DeleteMany(ctx, setToSlice(seed.AppointmentIDs())); err != nil {
		return fmt.Errorf("removing seed appointments: %w", err)
	}
	if err := s.patients.DeleteMany(ctx, setToSlice(seed.PatientIDs())); err != nil {
		return fmt.Errorf("removing seed patients: %w", err)
	}
	return nil
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
