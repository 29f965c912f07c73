package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
	"github.com/clinicpad/clinicpad/pkg/metrics"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s().]{7,20}$`)
)

type PatientService struct {
	repo         patient.Repository
	appointments appointment.Repository
	collector    *metrics.Collector
	log          *zap.Logger
}

func NewPatientService(
	repo patient.Repository,
	appointments appointment.Repository,
	collector *metrics.Collector,
	log *zap.Logger,
) *PatientService {
	return &PatientService{repo: repo, appointments: appointments, collector: collector, log: log}
}

func (s *PatientService) Register(ctx context.Context, cmd *patient.CreatePatientCommand) (*patient.Patient, error) {
	if err := validatePatientCommand(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		Name:           strings.TrimSpace(cmd.Name),
		Age:            cmd.Age,
		Gender:         cmd.Gender,
		Phone:          strings.TrimSpace(cmd.Phone),
		Email:          strings.ToLower(strings.TrimSpace(cmd.Email)),
		Height:         cmd.Height,
		Weight:         cmd.Weight,
		BloodPressure:  cmd.BloodPressure,
		MedicalHistory: cmd.MedicalHistory,
		Visits:         []patient.Visit{},
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	if s.collector != nil {
		s.collector.PatientsCreatedTotal.Inc()
	}
	s.log.Info("patient registered", zap.String("patient_id", p.ID))
	return p, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all patients, filtered by a case-insensitive name query when
// one is given.
func (s *PatientService) List(ctx context.Context, query string) ([]*patient.Patient, error) {
	return s.repo.SearchByName(ctx, query)
}

func (s *PatientService) Update(ctx context.Context, id string, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	var errs []string
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if cmd.Email != nil && *cmd.Email != "" && !emailPattern.MatchString(*cmd.Email) {
		errs = append(errs, "email is invalid")
	}
	if cmd.Phone != nil && *cmd.Phone != "" && !phonePattern.MatchString(*cmd.Phone) {
		errs = append(errs, "phone is invalid")
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	return s.repo.Update(ctx, id, cmd)
}

// Delete removes the patient record. Appointments referencing the patient
// are deliberately left in place: they keep the ID and the name snapshot
// taken at scheduling time.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// GetPatientAppointments returns every appointment owned by the patient,
// in insertion order.
func (s *PatientService) GetPatientAppointments(ctx context.Context, patientID string) ([]*appointment.Appointment, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.appointments.ListByPatient(ctx, patientID)
}

func validatePatientCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.Age < 0 || cmd.Age > 150 {
		errs = append(errs, "age is out of range")
	}
	if cmd.Gender != "" && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.Email != "" && !emailPattern.MatchString(cmd.Email) {
		errs = append(errs, "email is invalid")
	}
	if cmd.Phone != "" && !phonePattern.MatchString(cmd.Phone) {
		errs = append(errs, "phone is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
