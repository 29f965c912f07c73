package oplog

import "context"

type Repository interface {
	Initialize(ctx context.Context) error

	// List returns the retained entries, most recent last.
	List(ctx context.Context) ([]Entry, error)

	// Append records a new entry, assigning its ID and timestamp, and evicts
	// the oldest entry once MaxEntries is exceeded.
	Append(ctx context.Context, op Operation, status Status, details string) (*Entry, error)

	// Reset drops the in-memory cache so the next access reloads from
	// storage.
	Reset()
}
