package appointment

import "strings"

// NotRecorded is the placeholder for medical-record fields the caller did
// not supply and that cannot be filled from the patient's last known vitals.
const NotRecorded = "Not recorded"

// MedicalRecord is the structured clinical outcome captured when an
// appointment completes.
type MedicalRecord struct {
	Complaint     string `json:"complaint"`
	Diagnosis     string `json:"diagnosis"`
	BloodPressure string `json:"bloodPressure"`
	Weight        string `json:"weight"`
	Prescription  string `json:"prescription"`
}

// ParseRemarks extracts a medical record from free-text remarks of the form
//
//	Complaint: persistent cough
//	Diagnosis: Bronchitis
//	Blood Pressure: 128/82
//
// Labels are matched case-insensitively; unrecognized lines are ignored.
// Fields not present in the text are left empty for the caller to default.
func ParseRemarks(remarks string) MedicalRecord {
	var rec MedicalRecord
	for _, line := range strings.Split(remarks, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch normalizeLabel(label) {
		case "complaint", "chief complaint":
			rec.Complaint = value
		case "diagnosis":
			rec.Diagnosis = value
		case "blood pressure", "bp":
			rec.BloodPressure = value
		case "weight":
			rec.Weight = value
		case "prescription", "rx":
			rec.Prescription = value
		}
	}
	return rec
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
