// Package seed defines the demo data set and the reserved ID ranges that
// distinguish it from user-created records. Patient seed IDs live in
// 9001–9099 and appointment seed IDs in 9101–9199; the ID generator never
// hands out an ID from either set.
package seed

import (
	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
)

// PatientIDs returns the reserved patient seed-ID set.
func PatientIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(patients))
	for _, p := range patients {
		ids[p.ID] = struct{}{}
	}
	return ids
}

// AppointmentIDs returns the reserved appointment seed-ID set.
func AppointmentIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(appointments))
	for _, a := range appointments {
		ids[a.ID] = struct{}{}
	}
	return ids
}

// Patients returns deep copies of the seed patients, safe to insert.
func Patients() []*patient.Patient {
	out := make([]*patient.Patient, len(patients))
	for i := range patients {
		out[i] = patients[i].Clone()
	}
	return out
}

// Appointments returns deep copies of the seed appointments.
func Appointments() []*appointment.Appointment {
	out := make([]*appointment.Appointment, len(appointments))
	for i := range appointments {
		out[i] = appointments[i].Clone()
	}
	return out
}

// IsSeedPatient reports whether id belongs to the reserved patient range.
func IsSeedPatient(id string) bool {
	for _, p := range patients {
		if p.ID == id {
			return true
		}
	}
	return false
}

// IsSeedAppointment reports whether id belongs to the reserved appointment range.
func IsSeedAppointment(id string) bool {
	for _, a := range appointments {
		if a.ID == id {
			return true
		}
	}
	return false
}

var patients = []patient.Patient{
	{
		ID: "9001", Name: "Arthur Pemberton", Age: 64, Gender: patient.GenderMale,
		Phone: "555-0181", Email: "a.pemberton@example.com",
		Height: "175 cm", Weight: "82 kg", BloodPressure: "138/88",
		MedicalHistory: "Type 2 diabetes, managed with metformin.",
		Visits: []patient.Visit{
			{
				Date: "2024-11-04", Complaint: "Routine diabetes review",
				Diagnosis: "Type 2 diabetes, stable", BloodPressure: "138/88",
				Weight: "82 kg", Prescription: "Metformin 500mg twice daily",
			},
		},
		LastVisit: "2024-11-04",
	},
	{
		ID: "9002", Name: "Grace Okafor", Age: 37, Gender: patient.GenderFemale,
		Phone: "555-0134", Email: "grace.okafor@example.com",
		Height: "162 cm", Weight: "58 kg", BloodPressure: "118/76",
		MedicalHistory: "Seasonal allergies.",
	},
	{
		ID: "9003", Name: "Mateo Reyes", Age: 45, Gender: patient.GenderMale,
		Phone: "555-0147", Email: "m.reyes@example.com",
		Height: "180 cm", Weight: "90 kg", BloodPressure: "142/90",
		MedicalHistory: "Hypertension diagnosed 2022.",
		Visits: []patient.Visit{
			{
				Date: "2025-01-22", Complaint: "Headaches, elevated readings at home",
				Diagnosis: "Essential hypertension", BloodPressure: "142/90",
				Weight: "90 kg", Prescription: "Lisinopril 10mg daily",
			},
		},
		LastVisit: "2025-01-22",
	},
	{
		ID: "9004", Name: "Ingrid Sorensen", Age: 29, Gender: patient.GenderFemale,
		Phone: "555-0169", Email: "ingrid.s@example.com",
		Height: "168 cm", Weight: "61 kg", BloodPressure: "110/70",
		MedicalHistory: "No significant history.",
	},
}

var appointments = []appointment.Appointment{
	{
		ID: "9101", PatientID: "9001", PatientName: "Arthur Pemberton",
		Date: "2025-03-03", Time: "09:00 AM",
		Reason: "Quarterly diabetes check", Status: appointment.StatusConfirmed,
	},
	{
		ID: "9102", PatientID: "9002", PatientName: "Grace Okafor",
		Date: "2025-03-04", Time: "10:30 AM",
		Reason: "Allergy consultation", Status: appointment.StatusPending,
	},
	{
		ID: "9103", PatientID: "9003", PatientName: "Mateo Reyes",
		Date: "2025-03-05", Time: "02:00 PM",
		Reason: "Blood pressure follow-up", Status: appointment.StatusPending,
		Notes: "Bring home readings log.",
	},
	{
		ID: "9104", PatientID: "9004", PatientName: "Ingrid Sorensen",
		Date: "2025-02-12", Time: "11:15 AM",
		Reason: "Annual physical", Status: appointment.StatusCancelled,
	},
	{
		ID: "9105", PatientID: "9001", PatientName: "Arthur Pemberton",
		Date: "2024-11-04", Time: "09:30 AM",
		Reason: "Diabetes review", Status: appointment.StatusCompleted,
		MedicalRecord: &appointment.MedicalRecord{
			Complaint: "Routine diabetes review", Diagnosis: "Type 2 diabetes, stable",
			BloodPressure: "138/88", Weight: "82 kg",
			Prescription: "Metformin 500mg twice daily",
		},
	},
}
