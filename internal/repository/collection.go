// Package repository implements the domain repository interfaces on top of
// a kvstore.Store. Each repository owns exactly one storage key holding one
// JSON array; the in-memory copy is the single authority between writes, and
// the whole array is persisted back on every mutation. All writes to a
// collection are serialized by the repository's mutex; no other component
// may touch the same key.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/events"
	"github.com/clinicpad/clinicpad/pkg/idgen"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

var errNotFound = errors.New("record not found")

type entity[T any] interface {
	EntityID() string
	Clone() T
}

// collection is the shared persistence core behind the patient and
// appointment repositories: lazy load on first access, whole-document
// writes, deep copies across the boundary, one change event per mutation
// (bulk mutations included).
type collection[T entity[T]] struct {
	store kvstore.Store
	key   string
	bus   *events.Bus
	topic events.Topic
	gen   idgen.Generator
	log   *zap.Logger

	mu     sync.Mutex
	loaded bool
	items  []T
}

func newCollection[T entity[T]](store kvstore.Store, key string, bus *events.Bus, topic events.Topic, gen idgen.Generator, log *zap.Logger) *collection[T] {
	return &collection[T]{store: store, key: key, bus: bus, topic: topic, gen: gen, log: log}
}

func (c *collection[T]) initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureLoaded(ctx)
}

// ensureLoaded must be called with c.mu held.
func (c *collection[T]) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		c.items = []T{}
		c.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Error("stored collection is corrupt, starting empty",
			zap.String("key", c.key), zap.Error(err))
		items = []T{}
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.loaded = true
	return nil
}

// persist must be called with c.mu held.
func (c *collection[T]) persist(ctx context.Context) error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		c.log.Error("persisting collection failed", zap.String("key", c.key), zap.Error(err))
		return err
	}
	return nil
}

func (c *collection[T]) publish() {
	if c.bus != nil {
		c.bus.Publish(c.topic)
	}
}

func (c *collection[T]) getAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out, nil
}

func (c *collection[T]) getByID(ctx context.Context, id string) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return zero, err
	}
	for _, item := range c.items {
		if item.EntityID() == id {
			return item.Clone(), nil
		}
	}
	return zero, errNotFound
}

func (c *collection[T]) filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	var out []T
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

// create assigns a fresh ID via assignID, appends, persists, and publishes.
func (c *collection[T]) create(ctx context.Context, item T, assignID func(id string)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	assignID(c.gen.Next(c.existingIDs()))
	c.items = append(c.items, item.Clone())

	if err := c.persist(ctx); err != nil {
		c.items = c.items[:len(c.items)-1]
		return err
	}
	c.publish()
	return nil
}

// mutate applies fn to a working copy of the record and swaps it in on
// success. The previous value is restored if persistence fails.
func (c *collection[T]) mutate(ctx context.Context, id string, fn func(T)) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return zero, err
	}

	idx := -1
	for i, item := range c.items {
		if item.EntityID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return zero, errNotFound
	}

	prev := c.items[idx]
	work := prev.Clone()
	fn(work)
	c.items[idx] = work

	if err := c.persist(ctx); err != nil {
		c.items[idx] = prev
		return zero, err
	}
	c.publish()
	return work.Clone(), nil
}

// save replaces the record with the same ID wholesale.
func (c *collection[T]) save(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	idx := -1
	for i, stored := range c.items {
		if stored.EntityID() == item.EntityID() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errNotFound
	}

	prev := c.items[idx]
	c.items[idx] = item.Clone()

	if err := c.persist(ctx); err != nil {
		c.items[idx] = prev
		return err
	}
	c.publish()
	return nil
}

func (c *collection[T]) bulkAdd(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	prevLen := len(c.items)
	for _, item := range items {
		c.items = append(c.items, item.Clone())
	}

	if err := c.persist(ctx); err != nil {
		c.items = c.items[:prevLen]
		return err
	}
	c.publish()
	return nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	return c.deleteMany(ctx, []string{id})
}

func (c *collection[T]) deleteMany(ctx context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := c.items[:0:0]
	for _, item := range c.items {
		if _, gone := drop[item.EntityID()]; !gone {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(c.items) {
		// Nothing matched; deleting a missing ID is a benign no-op.
		return nil
	}

	prev := c.items
	if kept == nil {
		kept = []T{}
	}
	c.items = kept

	if err := c.persist(ctx); err != nil {
		c.items = prev
		return err
	}
	c.publish()
	return nil
}

func (c *collection[T]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.items = nil
}

func (c *collection[T]) count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return len(c.items), nil
}

// existingIDs must be called with c.mu held.
func (c *collection[T]) existingIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		ids[item.EntityID()] = struct{}{}
	}
	return ids
}
