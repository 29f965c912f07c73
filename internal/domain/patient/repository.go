package patient

import "context"

type Repository interface {
	// Initialize loads the collection from storage on first call; later calls
	// are no-ops. Safe to call from every public entry point.
	Initialize(ctx context.Context) error

	// GetAll returns deep copies of every patient, in insertion order.
	GetAll(ctx context.Context) ([]*Patient, error)

	// GetByID returns ErrPatientNotFound when the ID is absent.
	GetByID(ctx context.Context, id string) (*Patient, error)

	// SearchByName returns patients whose name contains the query,
	// case-insensitively. An empty query matches everyone.
	SearchByName(ctx context.Context, query string) ([]*Patient, error)

	// Create assigns a fresh ID, persists, and publishes a change event.
	// The assigned ID is written back into p.
	Create(ctx context.Context, p *Patient) error

	// Update merges partial fields into an existing record. Returns
	// ErrPatientNotFound when the ID is absent.
	Update(ctx context.Context, id string, cmd *UpdatePatientCommand) (*Patient, error)

	// Save replaces an existing record wholesale, keyed by ID. Used for
	// cross-entity writes that have already been staged by a service.
	Save(ctx context.Context, p *Patient) error

	// BulkAdd inserts many records, keeping their IDs, with one persisted
	// batch and one change event.
	BulkAdd(ctx context.Context, ps []*Patient) error

	// Delete removes the record if present. Deleting a missing ID is a no-op.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes every listed ID in one persisted batch and one
	// change event. Missing IDs are skipped.
	DeleteMany(ctx context.Context, ids []string) error

	// Reset drops the in-memory cache so the next access reloads from
	// storage. Used after a bulk wipe.
	Reset()
}
