package crdt

import (
	"encoding/json"
	"fmt"
	"sync"
)

// PNCounterState is the serializable state of a PNCounter.
type PNCounterState struct {
	Increments map[ReplicaID]uint64 `json:"increments"`
	Decrements map[ReplicaID]uint64 `json:"decrements"`
	ReplicaID  ReplicaID            `json:"replica_id"`
}

// PNCounter is a counter that supports both increment and decrement. It is
// composed of two grow-only counters; the net value may be negative.
type PNCounter struct {
	increments *GCounter
	decrements *GCounter
	replicaID  ReplicaID
	mu         sync.RWMutex
}

// NewPNCounter creates a zero counter owned by replicaID.
func NewPNCounter(replicaID ReplicaID) *PNCounter {
	return &PNCounter{
		replicaID:  replicaID,
		increments: NewGCounter(replicaID),
		decrements: NewGCounter(replicaID),
	}
}

// PNCounterFromState restores a counter from its state.
func PNCounterFromState(state PNCounterState) *PNCounter {
	return &PNCounter{
		replicaID:  state.ReplicaID,
		increments: GCounterFromState(GCounterState{ReplicaID: state.ReplicaID, Counts: state.Increments}),
		decrements: GCounterFromState(GCounterState{ReplicaID: state.ReplicaID, Counts: state.Decrements}),
	}
}

// Increment increases the counter by delta.
func (p *PNCounter) Increment(delta int64) error {
	if delta < 0 {
		return fmt.Errorf("%w: increment delta must be non-negative, got %d", ErrInvalidArgument, delta)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.increments.Increment(delta)
}

// Decrement decreases the counter by delta.
func (p *PNCounter) Decrement(delta int64) error {
	if delta < 0 {
		return fmt.Errorf("%w: decrement delta must be non-negative, got %d", ErrInvalidArgument, delta)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.decrements.Increment(delta)
}

// Value returns increments minus decrements.
func (p *PNCounter) Value() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return int64(p.increments.Value()) - int64(p.decrements.Value())
}

// Merge folds another counter into this one.
func (p *PNCounter) Merge(other *PNCounter) {
	p.MergeState(other.State())
}

// MergeState merges both inner counters independently.
func (p *PNCounter) MergeState(state PNCounterState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.increments.MergeState(GCounterState{Counts: state.Increments})
	p.decrements.MergeState(GCounterState{Counts: state.Decrements})
}

// State returns a copy of the counter state.
func (p *PNCounter) State() PNCounterState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PNCounterState{
		ReplicaID:  p.replicaID,
		Increments: p.increments.State().Counts,
		Decrements: p.decrements.State().Counts,
	}
}

// Equal reports whether both inner counters are equal.
func (p *PNCounter) Equal(other *PNCounter) bool {
	a, b := p.State(), other.State()
	return VectorClock(a.Increments).Equal(VectorClock(b.Increments)) &&
		VectorClock(a.Decrements).Equal(VectorClock(b.Decrements))
}

// Clone creates a deep copy of the counter.
func (p *PNCounter) Clone() *PNCounter {
	return PNCounterFromState(p.State())
}

// MarshalJSON encodes the counter as its state.
func (p *PNCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.State())
}

// Type implements CRDT.
func (p *PNCounter) Type() Type { return TypePNCounter }

// ReplicaID implements CRDT.
func (p *PNCounter) ReplicaID() ReplicaID { return p.replicaID }

// VectorClock implements CRDT: every increment or decrement is one event of
// its replica.
func (p *PNCounter) VectorClock() VectorClock {
	state := p.State()
	vc := NewVectorClock()
	for id, count := range state.Increments {
		vc[id] += count
	}
	for id, count := range state.Decrements {
		vc[id] += count
	}
	return vc
}

func (p *PNCounter) crdt() {}
