package appointment

import "context"

type Repository interface {
	// Initialize loads the collection from storage on first call; later calls
	// are no-ops.
	Initialize(ctx context.Context) error

	// GetAll returns deep copies of every appointment, in insertion order.
	GetAll(ctx context.Context) ([]*Appointment, error)

	// GetByID returns ErrAppointmentNotFound when the ID is absent.
	GetByID(ctx context.Context, id string) (*Appointment, error)

	// ListByPatient returns every appointment whose PatientID matches,
	// in insertion order.
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)

	// Create assigns a fresh ID, persists, and publishes a change event.
	Create(ctx context.Context, a *Appointment) error

	// Update merges partial field edits. Returns ErrAppointmentNotFound when
	// the ID is absent.
	Update(ctx context.Context, id string, cmd *UpdateAppointmentCommand) (*Appointment, error)

	// Save replaces an existing record wholesale, keyed by ID. Status
	// transitions and the completion side effect go through Save.
	Save(ctx context.Context, a *Appointment) error

	// BulkAdd inserts many records, keeping their IDs, with one persisted
	// batch and one change event.
	BulkAdd(ctx context.Context, as []*Appointment) error

	// Delete removes the record if present. Deleting a missing ID is a no-op.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes every listed ID in one persisted batch and one
	// change event.
	DeleteMany(ctx context.Context, ids []string) error

	// Reset drops the in-memory cache so the next access reloads from
	// storage.
	Reset()
}
