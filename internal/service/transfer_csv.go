package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/oplog"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
)

// Legacy CSV interchange: two files, identified by a "patient" or
// "appointment" substring in the filename, each with a header row of the
// JSON field names. Values are RFC 4180 quoted (embedded commas, doubled
// quotes); nested objects and arrays are JSON-stringified inside a cell.

var patientCSVHeader = []string{
	"id", "name", "age", "gender", "phone", "email",
	"height", "weight", "bloodPressure", "medicalHistory", "visits", "lastVisit",
}

var appointmentCSVHeader = []string{
	"id", "patientId", "patientName", "date", "time",
	"reason", "notes", "status", "medicalRecord",
}

// ImportCSV merges the legacy two-file pair through the same pipeline as
// the JSON path. A file whose name matches neither collection, or that does
// not parse as CSV, aborts the whole import.
func (s *TransferService) ImportCSV(ctx context.Context, files map[string]io.Reader) (*ImportSummary, error) {
	var pats []*patient.Patient
	var appts []*appointment.Appointment

	for name, r := range files {
		lower := strings.ToLower(name)
		switch {
		case strings.Contains(lower, "patient"):
			parsed, err := parsePatientsCSV(r)
			if err != nil {
				s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import rejected: "+name+" is not valid CSV")
				return nil, err
			}
			pats = append(pats, parsed...)
		case strings.Contains(lower, "appointment"):
			parsed, err := parseAppointmentsCSV(r)
			if err != nil {
				s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import rejected: "+name+" is not valid CSV")
				return nil, err
			}
			appts = append(appts, parsed...)
		default:
			s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import rejected: unrecognized file "+name)
			return nil, fmt.Errorf("%w: cannot tell patients from appointments in %q", ErrMalformedImport, name)
		}
	}

	if pats == nil && appts == nil {
		s.appendLog(ctx, oplog.OpImport, oplog.StatusError, "Import rejected: no CSV files supplied")
		return nil, fmt.Errorf("%w: no files", ErrMalformedImport)
	}

	return s.merge(ctx, pats, appts)
}

// ExportCSV writes the two legacy files. Seed filtering matches ExportJSON.
func (s *TransferService) ExportCSV(ctx context.Context, patientsW, appointmentsW io.Writer, includeSeed bool) error {
	env, err := s.Export(ctx, includeSeed)
	if err != nil {
		s.appendLog(ctx, oplog.OpExport, oplog.StatusError, "Export failed: "+err.Error())
		return err
	}

	if err := writePatientsCSV(patientsW, env.Patients); err != nil {
		s.appendLog(ctx, oplog.OpExport, oplog.StatusError, "Export failed: "+err.Error())
		return err
	}
	if err := writeAppointmentsCSV(appointmentsW, env.Appointments); err != nil {
		s.appendLog(ctx, oplog.OpExport, oplog.StatusError, "Export failed: "+err.Error())
		return err
	}

	if s.collector != nil {
		s.collector.ExportsTotal.Inc()
	}
	s.appendLog(ctx, oplog.OpExport, oplog.StatusSuccess,
		fmt.Sprintf("Exported %d patients and %d appointments as CSV", len(env.Patients), len(env.Appointments)))
	return nil
}

func parsePatientsCSV(r io.Reader) ([]*patient.Patient, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	col := indexColumns(rows[0])
	out := make([]*patient.Patient, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := cellReader(col, row)

		p := &patient.Patient{
			ID:             get("id"),
			Name:           get("name"),
			Gender:         patient.Gender(get("gender")),
			Phone:          get("phone"),
			Email:          get("email"),
			Height:         get("height"),
			Weight:         get("weight"),
			BloodPressure:  get("bloodPressure"),
			MedicalHistory: get("medicalHistory"),
			LastVisit:      get("lastVisit"),
		}
		p.Age, _ = strconv.Atoi(get("age"))
		if cell := get("visits"); cell != "" {
			// A corrupt nested cell loses only the visit history, not the row.
			_ = json.Unmarshal([]byte(cell), &p.Visits)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseAppointmentsCSV(r io.Reader) ([]*appointment.Appointment, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	col := indexColumns(rows[0])
	out := make([]*appointment.Appointment, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := cellReader(col, row)

		a := &appointment.Appointment{
			ID:          get("id"),
			PatientID:   get("patientId"),
			PatientName: get("patientName"),
			Date:        get("date"),
			Time:        get("time"),
			Reason:      get("reason"),
			Notes:       get("notes"),
			Status:      appointment.Status(get("status")),
		}
		if cell := get("medicalRecord"); cell != "" {
			var rec appointment.MedicalRecord
			if json.Unmarshal([]byte(cell), &rec) == nil {
				a.MedicalRecord = &rec
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // header decides; short rows read as empty cells
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedImport)
	}
	return rows, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func cellReader(col map[string]int, row []string) func(string) string {
	return func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
}

func writePatientsCSV(w io.Writer, pats []*patient.Patient) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(patientCSVHeader); err != nil {
		return fmt.Errorf("writing patients CSV: %w", err)
	}
	for _, p := range pats {
		visits, err := json.Marshal(p.Visits)
		if err != nil {
			return fmt.Errorf("encoding visits for %s: %w", p.ID, err)
		}
		row := []string{
			p.ID, p.Name, strconv.Itoa(p.Age), string(p.Gender), p.Phone, p.Email,
			p.Height, p.Weight, p.BloodPressure, p.MedicalHistory, string(visits), p.LastVisit,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing patients CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeAppointmentsCSV(w io.Writer, appts []*appointment.Appointment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(appointmentCSVHeader); err != nil {
		return fmt.Errorf("writing appointments CSV: %w", err)
	}
	for _, a := range appts {
		record := ""
		if a.MedicalRecord != nil {
			data, err := json.Marshal(a.MedicalRecord)
			if err != nil {
				return fmt.Errorf("encoding medical record for %s: %w", a.ID, err)
			}
			record = string(data)
		}
		row := []string{
			a.ID, a.PatientID, a.PatientName, a.Date, a.Time,
			a.Reason, a.Notes, string(a.Status), record,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing appointments CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
