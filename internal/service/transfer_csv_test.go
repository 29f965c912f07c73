package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
)

func TestImportCSVHandlesQuoting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	patients := strings.Join([]string{
		`id,name,age,gender,phone,email,height,weight,bloodPressure,medicalHistory,visits,lastVisit`,
		`10,"Roe, Jane",34,female,555-0100,jane@example.com,170cm,64kg,120/80,"Allergic to ""penicillin""",[],`,
	}, "\n")
	appointments := strings.Join([]string{
		`id,patientId,patientName,date,time,reason,notes,status,medicalRecord`,
		`20,10,"Roe, Jane",2025-06-01,09:30,"Cough, persistent",,completed,"{""diagnosis"":""Bronchitis"",""bloodPressure"":""128/82""}"`,
	}, "\n")

	summary, err := env.transferSvc.ImportCSV(ctx, map[string]io.Reader{
		"patients.csv":     strings.NewReader(patients),
		"appointments.csv": strings.NewReader(appointments),
	})
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Patients.Imported != 1 || summary.Appointments.Imported != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	p, err := env.patientSvc.Get(ctx, "10")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Roe, Jane" {
		t.Errorf("Name = %q, want the embedded comma preserved", p.Name)
	}
	if p.MedicalHistory != `Allergic to "penicillin"` {
		t.Errorf("MedicalHistory = %q", p.MedicalHistory)
	}
	if p.Age != 34 {
		t.Errorf("Age = %d", p.Age)
	}

	a, err := env.apptSvc.Get(ctx, "20")
	if err != nil {
		t.Fatal(err)
	}
	if a.Reason != "Cough, persistent" || a.Status != appointment.StatusCompleted {
		t.Errorf("appointment = %+v", a)
	}
	if a.MedicalRecord == nil || a.MedicalRecord.Diagnosis != "Bronchitis" {
		t.Errorf("MedicalRecord = %+v", a.MedicalRecord)
	}
}

func TestImportCSVRejectsUnrecognizedFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.transferSvc.ImportCSV(ctx, map[string]io.Reader{
		"backup.csv": strings.NewReader("id,name\n1,x"),
	})
	if !errors.Is(err, ErrMalformedImport) {
		t.Fatalf("err = %v, want ErrMalformedImport", err)
	}

	pats, _ := env.patients.GetAll(ctx)
	if len(pats) != 0 {
		t.Fatalf("%d patients applied from a rejected import", len(pats))
	}
}

func TestImportCSVRejectsBrokenCSV(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.transferSvc.ImportCSV(ctx, map[string]io.Reader{
		"patients.csv": strings.NewReader(`id,name` + "\n" + `1,"unterminated`),
	})
	if !errors.Is(err, ErrMalformedImport) {
		t.Fatalf("err = %v, want ErrMalformedImport", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestEnv(t, nil)

	p, err := src.patientSvc.Register(ctx, &patient.CreatePatientCommand{
		Name:           "Roe, Jane",
		Age:            34,
		MedicalHistory: `Allergic to "penicillin"`,
	})
	if err != nil {
		t.Fatal(err)
	}
	a := src.mustSchedule(t, p.ID, "2025-06-01", "Cough, persistent")
	if _, err := src.apptSvc.Complete(ctx, a.ID, &appointment.CompleteAppointmentCommand{
		Record: &appointment.MedicalRecord{Diagnosis: "Bronchitis"},
	}); err != nil {
		t.Fatal(err)
	}

	var patsBuf, apptsBuf bytes.Buffer
	if err := src.transferSvc.ExportCSV(ctx, &patsBuf, &apptsBuf, false); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	dst := newTestEnv(t, nil)
	summary, err := dst.transferSvc.ImportCSV(ctx, map[string]io.Reader{
		"patients.csv":     &patsBuf,
		"appointments.csv": &apptsBuf,
	})
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Patients.Imported != 1 || summary.Appointments.Imported != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	gotP, err := dst.patientSvc.Get(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotP.Name != "Roe, Jane" || gotP.MedicalHistory != `Allergic to "penicillin"` {
		t.Errorf("patient = %+v", gotP)
	}
	if len(gotP.Visits) != 1 || gotP.Visits[0].Diagnosis != "Bronchitis" {
		t.Errorf("Visits = %+v, want the visit history carried through", gotP.Visits)
	}

	gotA, err := dst.apptSvc.Get(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotA.Status != appointment.StatusCompleted || gotA.MedicalRecord == nil || gotA.MedicalRecord.Diagnosis != "Bronchitis" {
		t.Errorf("appointment = %+v", gotA)
	}
}
