package patient

import "strings"

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// Visit is one completed-appointment entry in a patient's history. Visits are
// append-only; their order is insertion order, which is chronological because
// entries are appended as appointments complete.
type Visit struct {
	Date          string `json:"date"`
	Complaint     string `json:"complaint"`
	Diagnosis     string `json:"diagnosis"`
	BloodPressure string `json:"bloodPressure"`
	Weight        string `json:"weight"`
	Prescription  string `json:"prescription"`
}

// Patient is the authoritative patient record. Field names in JSON form the
// export wire contract and must not change.
type Patient struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender Gender `json:"gender"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`

	// Current-vitals snapshot, free text. Overwritten whenever a completed
	// appointment supplies new values.
	Height        string `json:"height"`
	Weight        string `json:"weight"`
	BloodPressure string `json:"bloodPressure"`

	MedicalHistory string `json:"medicalHistory"`

	Visits []Visit `json:"visits"`

	// LastVisit caches the date of the most recent visit. Kept consistent
	// with Visits by AddVisit; never written directly.
	LastVisit string `json:"lastVisit"`
}

func (p *Patient) EntityID() string { return p.ID }

// Clone returns a deep copy so repository callers can never reach the
// repository's in-memory state.
func (p *Patient) Clone() *Patient {
	cp := *p
	if p.Visits != nil {
		cp.Visits = make([]Visit, len(p.Visits))
		copy(cp.Visits, p.Visits)
	}
	return &cp
}

// AddVisit appends a visit and refreshes the LastVisit cache.
func (p *Patient) AddVisit(v Visit) {
	p.Visits = append(p.Visits, v)
	p.LastVisit = v.Date
}

func (p *Patient) DisplayName() string {
	return strings.TrimSpace(p.Name)
}

type CreatePatientCommand struct {
	Name           string
	Age            int
	Gender         Gender
	Phone          string
	Email          string
	Height         string
	Weight         string
	BloodPressure  string
	MedicalHistory string
}

// UpdatePatientCommand carries partial field edits; nil pointers leave the
// stored value untouched.
type UpdatePatientCommand struct {
	Name           *string
	Age            *int
	Gender         *Gender
	Phone          *string
	Email          *string
	Height         *string
	Weight         *string
	BloodPressure  *string
	MedicalHistory *string
}

func (cmd *UpdatePatientCommand) ApplyTo(p *Patient) {
	if cmd.Name != nil {
		p.Name = *cmd.Name
	}
	if cmd.Age != nil {
		p.Age = *cmd.Age
	}
	if cmd.Gender != nil {
		p.Gender = *cmd.Gender
	}
	if cmd.Phone != nil {
		p.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		p.Email = *cmd.Email
	}
	if cmd.Height != nil {
		p.Height = *cmd.Height
	}
	if cmd.Weight != nil {
		p.Weight = *cmd.Weight
	}
	if cmd.BloodPressure != nil {
		p.BloodPressure = *cmd.BloodPressure
	}
	if cmd.MedicalHistory != nil {
		p.MedicalHistory = *cmd.MedicalHistory
	}
}
