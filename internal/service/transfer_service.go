package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/oplog"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/internal/repository"
	"github.com/clinicpad/clinicpad/internal/seed"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
	"github.com/clinicpad/clinicpad/pkg/metrics"
)

// Envelope is the portable export document. Its JSON field names are a wire
// contract shared with older installations.
type Envelope struct {
	Patients      []*patient.Patient         `json:"patients"`
	Appointments  []*appointment.Appointment `json:"appointments"`
	ExportDate    time.Time                  `json:"exportDate"`
	ShowDummyData bool                       `json:"showDummyData"`
}

// ImportCounts classifies the records of one collection in an import file.
type ImportCounts struct {
	Imported   int
	Duplicates int
	Invalid    int
}

type ImportSummary struct {
	Patients     ImportCounts
	Appointments ImportCounts
	Message      string
}

// TransferService implements export, the import merge engine, and the bulk
// wipe. Structural failures (unparsable file, wrong shape) abort a whole
// import with zero records applied; record-level failures are classified
// and counted without stopping the rest of the file.
type TransferService struct {
	patients     patient.Repository
	appointments appointment.Repository
	log          oplog.Repository
	settings     *SettingsService
	store        kvstore.Store
	bus          *events.Bus
	collector    *metrics.Collector
	logger       *zap.Logger

	now func() time.Time
}

func NewTransferService(
	patients patient.Repository,
	appointments appointment.Repository,
	log oplog.Repository,
	settings *SettingsService,
	store kvstore.Store,
	bus *events.Bus,
	collector *metrics.Collector,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		patients:     patients,
		appointments: appointments,
		log:          log,
		settings:     settings,
		store:        store,
		bus:          bus,
		collector:    collector,
		logger:       logger,
		now:          time.Now,
	}
}

// Export assembles the envelope. Seed records are filtered out unless
// includeSeed is set, so a shared export does not carry demo data.
func (s *TransferService) Export(ctx context.Context, includeSeed bool) (*Envelope, error) {
	pats, err := s.patients.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading patients: %w", err)
	}
	appts, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading appointments: %w", err)
	}
	showDummy, err := s.settings.ShowDummyData(ctx)
	if err != nil {
		return nil, err
	}

	if !includeSeed {
		pats = filterPatients(pats, func(p *patient.Patient) bool { return !seed.IsSeedPatient(p.ID) })
		appts = filterAppointments(appts, func(a *appointment.Appointment) bool { return !seed.IsSeedAppointment(a.ID) })
	}

	return &Envelope{
		Patients:      pats,
		Appointments:  appts,
		ExportDate:    s.now().UTC(),
		ShowDummyData: showDummy,
	}, nil
}

// ExportJSON writes the envelope to w and records the operation.
func (s *TransferService) ExportJSON(ctx context.Context, w io.Writer, includeSeed bool) (*Envelope, error) {
	env, err := s.Export(ctx, includeSeed)
	if err != nil {
		s.appendLog(ctx, oplog.OpExport, oplog.StatusError, "Export failed: "+err.Error())
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		s.appendLog(ctx, oplog.OpExport, oplog.StatusError, "Export failed: "+err.Error())
		return nil, fmt.Errorf("writing export: %w", err)
	}

	if s.collector != nil {
		s.collector.ExportsTotal.Inc()
	}
	s.appendLog(ctx, oplog.OpExport, oplog.StatusSuccess,
		fmt.Sprintf("Exported %d patients and %d appointments", len(env.Patients), len(env.Appointments)))
	return env, nil
}

// ImportJSON parses the envelope and merges its collections into the local
// store. A file that does not parse, or that carries neither collection,
// aborts with ErrMalformedImport and zero records applied.
func (s *TransferService) ImportJSON(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import rejected: file is not valid JSON")
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if env.Patients == nil && env.Appointments == nil {
		s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import rejected: no patients or appointments in file")
		return nil, fmt.Errorf("%w: no recognizable collections", ErrMalformedImport)
	}

	return s.merge(ctx, env.Patients, env.Appointments)
}

// merge runs the shared validation / de-duplication / bulk-insert pipeline
// used by both the JSON and legacy CSV paths.
func (s *TransferService) merge(ctx context.Context, pats []*patient.Patient, appts []*appointment.Appointment) (*ImportSummary, error) {
	summary := &ImportSummary{}

	existingPatients, err := s.existingPatientIDs(ctx)
	if err != nil {
		return nil, err
	}
	var acceptedPatients []*patient.Patient
	for _, p := range pats {
		switch {
		case p == nil, p.ID == "", strings.TrimSpace(p.Name) == "":
			summary.Patients.Invalid++
		default:
			if _, dup := existingPatients[p.ID]; dup {
				summary.Patients.Duplicates++
				continue
			}
			existingPatients[p.ID] = struct{}{}
			acceptedPatients = append(acceptedPatients, p)
			summary.Patients.Imported++
		}
	}

	existingAppointments, err := s.existingAppointmentIDs(ctx)
	if err != nil {
		return nil, err
	}
	var acceptedAppointments []*appointment.Appointment
	for _, a := range appts {
		switch {
		case a == nil, a.ID == "", a.PatientID == "", !a.Status.IsValid():
			summary.Appointments.Invalid++
		default:
			if _, dup := existingAppointments[a.ID]; dup {
				summary.Appointments.Duplicates++
				continue
			}
			existingAppointments[a.ID] = struct{}{}
			acceptedAppointments = append(acceptedAppointments, a)
			summary.Appointments.Imported++
		}
	}

	if err := s.patients.BulkAdd(ctx, acceptedPatients); err != nil {
		s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import failed while saving patients: "+err.Error())
		return nil, fmt.Errorf("saving imported patients: %w", err)
	}
	if err := s.appointments.BulkAdd(ctx, acceptedAppointments); err != nil {
		s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import failed while saving appointments: "+err.Error())
		return nil, fmt.Errorf("saving imported appointments: %w", err)
	}

	summary.Message = fmt.Sprintf(
		"Imported %d patients (%d duplicates, %d invalid) and %d appointments (%d duplicates, %d invalid)",
		summary.Patients.Imported, summary.Patients.Duplicates, summary.Patients.Invalid,
		summary.Appointments.Imported, summary.Appointments.Duplicates, summary.Appointments.Invalid,
	)

	status := oplog.StatusSuccess
	if summary.Patients.Invalid > 0 || summary.Appointments.Invalid > 0 {
		status = oplog.StatusWarning
	}
	s.appendLog(ctx, oplog.OpImport, status, summary.Message)

	if s.collector != nil {
		s.recordImportMetrics("patients", summary.Patients)
		s.recordImportMetrics("appointments", summary.Appointments)
	}
	return summary, nil
}

// ClearAll removes every data collection key and leaves config-prefixed
// keys (demo-data toggle, first-launch flag, UI preferences) in place.
// The operation-log collection is wiped with the rest; the entry recording
// the wipe starts the fresh log.
func (s *TransferService) ClearAll(ctx context.Context) error {
	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("listing storage keys: %w", err)
	}

	removed := 0
	for _, key := range keys {
		if !repository.IsDataKey(key) {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			if s.collector != nil {
				s.collector.StorageErrorsTotal.Inc()
			}
			return fmt.Errorf("removing %s: %w", key, err)
		}
		removed++
	}

	s.patients.Reset()
	s.appointments.Reset()
	s.log.Reset()

	if s.bus != nil {
		s.bus.Publish(events.TopicPatientsChanged)
		s.bus.Publish(events.TopicAppointmentsChanged)
	}
	if s.collector != nil {
		s.collector.WipesTotal.Inc()
	}

	s.appendLog(ctx, oplog.OpClear, oplog.StatusSuccess,
		fmt.Sprintf("Removed %d data collections; settings preserved", removed))
	s.logger.Info("all data cleared", zap.Int("keys_removed", removed))
	return nil
}

// OperationLog returns the retained audit entries, oldest first.
func (s *TransferService) OperationLog(ctx context.Context) ([]oplog.Entry, error) {
	return s.log.List(ctx)
}

func (s *TransferService) existingPatientIDs(ctx context.Context) (map[string]struct{}, error) {
	pats, err := s.patients.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading patients: %w", err)
	}
	ids := make(map[string]struct{}, len(pats))
	for _, p := range pats {
		ids[p.ID] = struct{}{}
	}
	return ids, nil
}

func (s *TransferService) existingAppointmentIDs(ctx context.Context) (map[string]struct{}, error) {
	appts, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading appointments: %w", err)
	}
	ids := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		ids[a.ID] = struct{}{}
	}
	return ids, nil
}

// appendLog records the operation outcome; a failure to write the audit
// trail is logged and swallowed so it never masks the operation's own result.
func (s *TransferService) appendLog(ctx context.Context, op oplog.Operation, status oplog.Status, details string) {
	if _, err := s.log.Append(ctx, op, status, details); err != nil {
		s.logger.Warn("failed to append operation log entry",
			zap.String("operation", string(op)), zap.Error(err))
	}
}

func (s *TransferService) recordImportMetrics(collection string, c ImportCounts) {
	s.collector.ImportRecordsTotal.WithLabelValues(collection, "success").Add(float64(c.Imported))
	s.collector.ImportRecordsTotal.WithLabelValues(collection, "duplicate").Add(float64(c.Duplicates))
	s.collector.ImportRecordsTotal.WithLabelValues(collection, "invalid").Add(float64(c.Invalid))
}

func filterPatients(in []*patient.Patient, keep func(*patient.Patient) bool) []*patient.Patient {
	out := in[:0:0]
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []*patient.Patient{}
	}
	return out
}

func filterAppointments(in []*appointment.Appointment, keep func(*appointment.Appointment) bool) []*appointment.Appointment {
	out := in[:0:0]
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	if out == nil {
		out = []*appointment.Appointment{}
	}
	return out
}
