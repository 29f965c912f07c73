package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
	"github.com/clinicpad/clinicpad/pkg/metrics"
)

type AppointmentService struct {
	repo      appointment.Repository
	patients  patient.Repository
	collector *metrics.Collector
	log       *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	patients patient.Repository,
	collector *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, patients: patients, collector: collector, log: log}
}

func (s *AppointmentService) Schedule(ctx context.Context, cmd *appointment.ScheduleAppointmentCommand) (*appointment.Appointment, error) {
	var errs []string
	if strings.TrimSpace(cmd.PatientID) == "" {
		errs = append(errs, "patient_id is required")
	}
	if strings.TrimSpace(cmd.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		errs = append(errs, "reason is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p, err := s.patients.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	a := &appointment.Appointment{
		PatientID:   cmd.PatientID,
		PatientName: p.Name, // snapshot; not refreshed on rename
		Date:        cmd.Date,
		Time:        cmd.Time,
		Reason:      cmd.Reason,
		Notes:       cmd.Notes,
		Status:      appointment.StatusPending,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	if s.collector != nil {
		s.collector.AppointmentsCreatedTotal.Inc()
	}
	s.log.Info("appointment scheduled",
		zap.String("appointment_id", a.ID),
		zap.String("patient_id", a.PatientID),
	)
	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context) ([]*appointment.Appointment, error) {
	return s.repo.GetAll(ctx)
}

func (s *AppointmentService) ListByPatient(ctx context.Context, patientID string) ([]*appointment.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *AppointmentService) UpdateDetails(ctx context.Context, id string, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	return s.repo.Update(ctx, id, cmd)
}

func (s *AppointmentService) Confirm(ctx context.Context, id string) (*appointment.Appointment, error) {
	return s.transition(ctx, id, appointment.StatusConfirmed)
}

func (s *AppointmentService) Cancel(ctx context.Context, id string) (*appointment.Appointment, error) {
	return s.transition(ctx, id, appointment.StatusCancelled)
}

// transition enforces the status table; there is no path that writes an
// arbitrary status.
func (s *AppointmentService) transition(ctx context.Context, id string, next appointment.Status) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", appointment.ErrInvalidStatusTransition, a.Status, next)
	}

	a.Status = next
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	if s.collector != nil {
		s.collector.TransitionsTotal.WithLabelValues(string(next)).Inc()
	}
	return a, nil
}

// Complete moves the appointment into completed and applies the clinical
// outcome to the owning patient: a visit is appended and the vitals
// snapshot fields are overwritten where new values were supplied. The two
// writes are both-or-neither from the caller's point of view: if the
// patient write fails, the appointment write is rolled back.
func (s *AppointmentService) Complete(ctx context.Context, id string, cmd *appointment.CompleteAppointmentCommand) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanTransitionTo(appointment.StatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", appointment.ErrInvalidStatusTransition, a.Status, appointment.StatusCompleted)
	}

	p, err := s.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		return nil, fmt.Errorf("loading owning patient: %w", err)
	}

	rec := buildMedicalRecord(cmd, a, p)

	before := a.Clone()
	a.Status = appointment.StatusCompleted
	a.MedicalRecord = &rec

	p.AddVisit(patient.Visit{
		Date:          a.Date,
		Complaint:     rec.Complaint,
		Diagnosis:     rec.Diagnosis,
		BloodPressure: rec.BloodPressure,
		Weight:        rec.Weight,
		Prescription:  rec.Prescription,
	})
	if rec.BloodPressure != appointment.NotRecorded {
		p.BloodPressure = rec.BloodPressure
	}
	if rec.Weight != appointment.NotRecorded {
		p.Weight = rec.Weight
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("completing appointment: %w", err)
	}
	if err := s.patients.Save(ctx, p); err != nil {
		// Undo the appointment write so the caller observes neither half.
		if rbErr := s.repo.Save(ctx, before); rbErr != nil {
			s.log.Error("rollback of appointment completion failed",
				zap.String("appointment_id", id),
				zap.Error(rbErr),
			)
		}
		return nil, fmt.Errorf("recording visit on patient: %w", err)
	}

	if s.collector != nil {
		s.collector.TransitionsTotal.WithLabelValues(string(appointment.StatusCompleted)).Inc()
	}
	s.log.Info("appointment completed",
		zap.String("appointment_id", a.ID),
		zap.String("patient_id", p.ID),
	)
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// buildMedicalRecord merges the supplied structured record (or parsed
// remarks), the appointment, and the patient's last known vitals into a
// fully populated record. Explicit input wins; vitals fall back to the
// patient's current snapshot; everything else falls back to NotRecorded.
func buildMedicalRecord(cmd *appointment.CompleteAppointmentCommand, a *appointment.Appointment, p *patient.Patient) appointment.MedicalRecord {
	var rec appointment.MedicalRecord
	if cmd != nil {
		if cmd.Record != nil {
			rec = *cmd.Record
		} else if cmd.Remarks != "" {
			rec = appointment.ParseRemarks(cmd.Remarks)
		}
	}

	if rec.Complaint == "" {
		rec.Complaint = firstNonEmpty(a.Reason, appointment.NotRecorded)
	}
	if rec.Diagnosis == "" {
		rec.Diagnosis = appointment.NotRecorded
	}
	if rec.BloodPressure == "" {
		rec.BloodPressure = firstNonEmpty(p.BloodPressure, appointment.NotRecorded)
	}
	if rec.Weight == "" {
		rec.Weight = firstNonEmpty(p.Weight, appointment.NotRecorded)
	}
	if rec.Prescription == "" {
		rec.Prescription = appointment.NotRecorded
	}
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
