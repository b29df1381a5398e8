package crdt

import (
	"encoding/json"
	"fmt"
	"sync"
)

// GCounterState is the serializable state of a GCounter.
type GCounterState struct {
	Counts    map[ReplicaID]uint64 `json:"counts"`
	ReplicaID ReplicaID            `json:"replica_id"`
}

// GCounter is a grow-only counter. Each replica increments only its own
// entry; merge takes the pointwise maximum, so no entry ever decreases.
type GCounter struct {
	counts    map[ReplicaID]uint64
	replicaID ReplicaID
	mu        sync.RWMutex
}

// NewGCounter creates an empty counter owned by replicaID.
func NewGCounter(replicaID ReplicaID) *GCounter {
	return &GCounter{
		replicaID: replicaID,
		counts:    make(map[ReplicaID]uint64),
	}
}

// GCounterFromState restores a counter from its state. The state is copied.
func GCounterFromState(state GCounterState) *GCounter {
	g := NewGCounter(state.ReplicaID)
	for id, count := range state.Counts {
		g.counts[id] = count
	}
	return g
}

// Increment adds delta to the owner's entry. Decrements belong to PNCounter.
func (g *GCounter) Increment(delta int64) error {
	if delta < 0 {
		return fmt.Errorf("%w: gcounter delta must be non-negative, got %d", ErrInvalidArgument, delta)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.counts[g.replicaID] += uint64(delta)
	return nil
}

// Value returns the sum of all entries.
func (g *GCounter) Value() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var total uint64
	for _, count := range g.counts {
		total += count
	}
	return total
}

// Count returns the entry of a single replica.
func (g *GCounter) Count(id ReplicaID) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.counts[id]
}

// Merge folds another counter into this one.
func (g *GCounter) Merge(other *GCounter) {
	g.MergeState(other.State())
}

// MergeState folds a remote state into this counter: pointwise max per replica.
func (g *GCounter) MergeState(state GCounterState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id, count := range state.Counts {
		if count > g.counts[id] {
			g.counts[id] = count
		}
	}
}

// State returns a copy of the counter state.
func (g *GCounter) State() GCounterState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	counts := make(map[ReplicaID]uint64, len(g.counts))
	for id, count := range g.counts {
		counts[id] = count
	}
	return GCounterState{ReplicaID: g.replicaID, Counts: counts}
}

// Equal reports whether both counters hold the same entries, treating
// absent entries as 0.
func (g *GCounter) Equal(other *GCounter) bool {
	return VectorClock(g.State().Counts).Equal(VectorClock(other.State().Counts))
}

// Clone creates a deep copy of the counter.
func (g *GCounter) Clone() *GCounter {
	return GCounterFromState(g.State())
}

// MarshalJSON encodes the counter as its state.
func (g *GCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.State())
}

// Type implements CRDT.
func (g *GCounter) Type() Type { return TypeGCounter }

// ReplicaID implements CRDT.
func (g *GCounter) ReplicaID() ReplicaID { return g.replicaID }

// VectorClock implements CRDT. The entries of a GCounter are themselves a
// vector clock of the increments seen so far.
func (g *GCounter) VectorClock() VectorClock {
	return VectorClock(g.State().Counts)
}

func (g *GCounter) crdt() {}
