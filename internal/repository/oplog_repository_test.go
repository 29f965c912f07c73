package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/oplog"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := NewOperationLogRepository(kvstore.NewMemoryStore(), events.NewBus(), zap.NewNop())
	repo.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	entry, err := repo.Append(ctx, oplog.OpExport, oplog.StatusSuccess, "Exported 2 patients and 1 appointments")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.ID == "" {
		t.Error("entry has no ID")
	}
	if !entry.Timestamp.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", entry.Timestamp)
	}

	entries, _ := repo.List(ctx)
	if len(entries) != 1 || entries[0].Operation != oplog.OpExport {
		t.Fatalf("List = %+v", entries)
	}
}

func TestRingEvictsOldestBeyondCap(t *testing.T) {
	ctx := context.Background()
	repo := NewOperationLogRepository(kvstore.NewMemoryStore(), events.NewBus(), zap.NewNop())

	for i := 0; i < oplog.MaxEntries+10; i++ {
		if _, err := repo.Append(ctx, oplog.OpImport, oplog.StatusSuccess, fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := repo.List(ctx)
	if len(entries) != oplog.MaxEntries {
		t.Fatalf("len = %d, want %d", len(entries), oplog.MaxEntries)
	}
	if entries[0].Details != "entry 10" {
		t.Fatalf("oldest retained = %q, want entry 10", entries[0].Details)
	}
	if entries[len(entries)-1].Details != fmt.Sprintf("entry %d", oplog.MaxEntries+9) {
		t.Fatalf("newest = %q", entries[len(entries)-1].Details)
	}
}

func TestOplogSurvivesReset(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewOperationLogRepository(store, events.NewBus(), zap.NewNop())

	_, _ = repo.Append(ctx, oplog.OpClear, oplog.StatusSuccess, "wiped")
	repo.Reset()

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Details != "wiped" {
		t.Fatalf("List after Reset = %+v", entries)
	}
}
