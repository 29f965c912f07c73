// Package idgen provides the ID-generation strategies used by the
// repositories. The default sequential strategy is intentionally simple
// and non-cryptographic: collection sizes in this domain are tiny and
// there is exactly one writer per collection.
package idgen

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator produces a fresh ID that collides neither with the IDs already
// present in the collection nor with any permanently reserved ID.
type Generator interface {
	Next(existing map[string]struct{}) string
}

// Sequential increments an integer counter from Floor and returns the first
// stringified value not present in the collection and not reserved.
type Sequential struct {
	// Floor is the first candidate value. Zero means 1.
	Floor int
	// Reserved IDs are never handed out, even when absent from the collection.
	Reserved map[string]struct{}
}

func NewSequential(reserved map[string]struct{}) *Sequential {
	return &Sequential{Floor: 1, Reserved: reserved}
}

func (g *Sequential) Next(existing map[string]struct{}) string {
	n := g.Floor
	if n <= 0 {
		n = 1
	}
	for {
		candidate := strconv.Itoa(n)
		if !g.taken(candidate, existing) {
			return candidate
		}
		n++
	}
}

func (g *Sequential) taken(id string, existing map[string]struct{}) bool {
	if _, ok := existing[id]; ok {
		return true
	}
	_, ok := g.Reserved[id]
	return ok
}

// Random generates UUIDv4 IDs. Kept as an alternative strategy for callers
// that want to drop the single-writer assumption behind Sequential.
type Random struct{}

func (Random) Next(map[string]struct{}) string {
	return uuid.NewString()
}
