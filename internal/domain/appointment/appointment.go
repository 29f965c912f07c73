package appointment

// State transitions possibilities:
//
//	pending   -> confirmed | cancelled | completed
//	confirmed -> completed | cancelled
//
// completed and cancelled are terminal. There is no automatic progression
// over time; every transition is caller-initiated.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is one scheduled visit. PatientName is a denormalized snapshot
// taken when the appointment is scheduled; renaming the patient afterwards
// does not rewrite it.
type Appointment struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`

	// Date is an ISO calendar date ("2025-01-10"); Time is the display
	// string the scheduling flow produced ("09:30 AM").
	Date string `json:"date"`
	Time string `json:"time"`

	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`

	Status Status `json:"status"`

	// MedicalRecord is populated exactly once, on the transition into
	// completed. It is the only persisted form of the clinical outcome;
	// Notes stays human prose.
	MedicalRecord *MedicalRecord `json:"medicalRecord,omitempty"`
}

func (a *Appointment) EntityID() string { return a.ID }

func (a *Appointment) Clone() *Appointment {
	cp := *a
	if a.MedicalRecord != nil {
		rec := *a.MedicalRecord
		cp.MedicalRecord = &rec
	}
	return &cp
}

func (a *Appointment) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

type ScheduleAppointmentCommand struct {
	PatientID string
	Date      string
	Time      string
	Reason    string
	Notes     string
}

// UpdateAppointmentCommand carries partial field edits; nil pointers leave
// the stored value untouched. Status is deliberately absent: status moves
// only through the transition methods on AppointmentService.
type UpdateAppointmentCommand struct {
	Date   *string
	Time   *string
	Reason *string
	Notes  *string
}

func (cmd *UpdateAppointmentCommand) ApplyTo(a *Appointment) {
	if cmd.Date != nil {
		a.Date = *cmd.Date
	}
	if cmd.Time != nil {
		a.Time = *cmd.Time
	}
	if cmd.Reason != nil {
		a.Reason = *cmd.Reason
	}
	if cmd.Notes != nil {
		a.Notes = *cmd.Notes
	}
}

// CompleteAppointmentCommand supplies the clinical outcome for the
// transition into completed. Either a structured Record or free-text
// Remarks ("Label: value" lines) may be given; Remarks are parsed once at
// completion time and never stored.
type CompleteAppointmentCommand struct {
	Record  *MedicalRecord
	Remarks string
}
