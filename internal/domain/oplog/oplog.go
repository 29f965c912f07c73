// Package oplog holds the audit trail for data-level operations: imports,
// exports, and bulk wipes. The trail is a capped ring of the most recent
// MaxEntries entries, oldest evicted first.
package oplog

import "time"

const MaxEntries = 100

type Operation string

const (
	OpImport Operation = "import"
	OpExport Operation = "export"
	OpClear  Operation = "clear"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Status    Status    `json:"status"`

	// Details is a human-readable summary, e.g.
	// "Imported 12 patients (3 duplicates skipped, 1 invalid)".
	Details string `json:"details"`
}
