package idgen

import "testing"

func TestSequentialSkipsExistingAndReserved(t *testing.T) {
	gen := NewSequential(map[string]struct{}{"2": {}, "4": {}})

	existing := map[string]struct{}{"1": {}}
	got := gen.Next(existing)
	if got != "3" {
		t.Fatalf("Next = %q, want 3 (1 exists, 2 reserved)", got)
	}

	existing[got] = struct{}{}
	if got := gen.Next(existing); got != "5" {
		t.Fatalf("Next = %q, want 5 (3 exists, 4 reserved)", got)
	}
}

func TestSequentialStartsAtOne(t *testing.T) {
	gen := NewSequential(nil)
	if got := gen.Next(nil); got != "1" {
		t.Fatalf("Next = %q, want 1", got)
	}
}

func TestSequentialHonorsFloor(t *testing.T) {
	gen := &Sequential{Floor: 100}
	if got := gen.Next(nil); got != "100" {
		t.Fatalf("Next = %q, want 100", got)
	}
}

func TestSequentialNeverRepeats(t *testing.T) {
	gen := NewSequential(map[string]struct{}{"3": {}, "7": {}})
	existing := map[string]struct{}{}
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		id := gen.Next(existing)
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		if _, reserved := gen.Reserved[id]; reserved {
			t.Fatalf("generated reserved ID %q", id)
		}
		seen[id] = true
		existing[id] = struct{}{}
	}
}

func TestRandomProducesDistinctIDs(t *testing.T) {
	gen := Random{}
	a, b := gen.Next(nil), gen.Next(nil)
	if a == b {
		t.Fatalf("two UUIDs collided: %q", a)
	}
}
