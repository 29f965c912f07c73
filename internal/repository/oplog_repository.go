package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/domain/oplog"
	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

// OperationLogRepository keeps the capped audit ring. Entries are value
// types and the eviction rule is specific to this collection, so it does
// not share the generic collection core.
type OperationLogRepository struct {
	store kvstore.Store
	bus   *events.Bus
	log   *zap.Logger

	mu      sync.Mutex
	loaded  bool
	entries []oplog.Entry

	now func() time.Time
}

var _ oplog.Repository = (*OperationLogRepository)(nil)

func NewOperationLogRepository(store kvstore.Store, bus *events.Bus, log *zap.Logger) *OperationLogRepository {
	return &OperationLogRepository{
		store: store,
		bus:   bus,
		log:   log.Named("oplog"),
		now:   time.Now,
	}
}

func (r *OperationLogRepository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLoaded(ctx)
}

func (r *OperationLogRepository) ensureLoaded(ctx context.Context) error {
	if r.loaded {
		return nil
	}

	data, err := r.store.Get(ctx, KeyOperationLog)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		r.entries = []oplog.Entry{}
		r.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading operation log: %w", err)
	}

	var entries []oplog.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.log.Error("operation log is corrupt, starting empty", zap.Error(err))
		entries = []oplog.Entry{}
	}
	r.entries = entries
	r.loaded = true
	return nil
}

func (r *OperationLogRepository) List(ctx context.Context) ([]oplog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]oplog.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *OperationLogRepository) Append(ctx context.Context, op oplog.Operation, status oplog.Status, details string) (*oplog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	entry := oplog.Entry{
		ID:        uuid.NewString(),
		Timestamp: r.now().UTC(),
		Operation: op,
		Status:    status,
		Details:   details,
	}

	prev := r.entries
	r.entries = append(r.entries, entry)
	if excess := len(r.entries) - oplog.MaxEntries; excess > 0 {
		r.entries = r.entries[excess:]
	}

	data, err := json.Marshal(r.entries)
	if err != nil {
		r.entries = prev
		return nil, fmt.Errorf("encoding operation log: %w", err)
	}
	if err := r.store.Set(ctx, KeyOperationLog, data); err != nil {
		r.entries = prev
		r.log.Error("persisting operation log failed", zap.Error(err))
		return nil, err
	}

	if r.bus != nil {
		r.bus.Publish(events.TopicOperationLogChanged)
	}
	return &entry, nil
}

func (r *OperationLogRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.entries = nil
}
