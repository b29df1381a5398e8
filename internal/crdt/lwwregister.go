package crdt

import (
	"encoding/json"
	"sync"
)

// LWWRegisterState is the serializable state of an LWWRegister.
type LWWRegisterState[V any] struct {
	Value       V           `json:"value"`
	VectorClock VectorClock `json:"vector_clock"`
	ReplicaID   ReplicaID   `json:"replica_id"`
	Writer      ReplicaID   `json:"writer"`
	Timestamp   int64       `json:"timestamp"`
}

// LWWRegister is a Last-Write-Wins register. The current value is always the
// one written with the greatest (timestamp, writer) pair observed so far.
type LWWRegister[V any] struct {
	value     V
	clock     Clock
	vclock    VectorClock
	replicaID ReplicaID
	writer    ReplicaID
	timestamp int64
	mu        sync.RWMutex
}

// NewLWWRegister creates an empty register owned by replicaID.
func NewLWWRegister[V any](replicaID ReplicaID, clock Clock) *LWWRegister[V] {
	return &LWWRegister[V]{
		replicaID: replicaID,
		clock:     clock,
		vclock:    NewVectorClock(),
	}
}

// LWWRegisterFromState restores a register from its state.
func LWWRegisterFromState[V any](state LWWRegisterState[V], clock Clock) *LWWRegister[V] {
	return &LWWRegister[V]{
		replicaID: state.ReplicaID,
		clock:     clock,
		value:     state.Value,
		writer:    state.Writer,
		timestamp: state.Timestamp,
		vclock:    state.VectorClock.Clone(),
	}
}

// Set assigns value at the current time and bumps the owner's clock entry.
func (r *LWWRegister[V]) Set(value V) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.value = value
	r.timestamp = stamp(r.clock, r.timestamp)
	r.writer = r.replicaID
	r.vclock = r.vclock.Increment(r.replicaID)
}

// Get returns the current value and whether the register was ever written.
func (r *LWWRegister[V]) Get() (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.value, r.writer != ""
}

// Timestamp returns the timestamp of the current value.
func (r *LWWRegister[V]) Timestamp() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.timestamp
}

// Writer returns the replica that wrote the current value.
func (r *LWWRegister[V]) Writer() ReplicaID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.writer
}

// Merge folds another register into this one.
func (r *LWWRegister[V]) Merge(other *LWWRegister[V]) {
	r.MergeState(other.State())
}

// MergeState adopts the remote value when its (timestamp, writer) pair is
// greater. Vector clocks are merged in every case so causal history is kept
// even when the value does not change.
func (r *LWWRegister[V]) MergeState(state LWWRegisterState[V]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if newer(state.Timestamp, state.Writer, r.timestamp, r.writer) {
		r.value = state.Value
		r.timestamp = state.Timestamp
		r.writer = state.Writer
	}
	r.vclock = r.vclock.Merge(state.VectorClock)

	observe(r.clock, state.Timestamp)
}

// HappenedBefore reports whether this register's history is strictly
// contained in other's. Diagnostics only, merge does not depend on it.
func (r *LWWRegister[V]) HappenedBefore(other *LWWRegister[V]) bool {
	return r.VectorClock().HappensBefore(other.VectorClock())
}

// IsConcurrent reports whether neither register happened before the other.
func (r *LWWRegister[V]) IsConcurrent(other *LWWRegister[V]) bool {
	return r.VectorClock().Concurrent(other.VectorClock())
}

// State returns a copy of the register state.
func (r *LWWRegister[V]) State() LWWRegisterState[V] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return LWWRegisterState[V]{
		ReplicaID:   r.replicaID,
		Value:       r.value,
		Timestamp:   r.timestamp,
		Writer:      r.writer,
		VectorClock: r.vclock.Clone(),
	}
}

// Clone creates an independent copy sharing the same clock.
func (r *LWWRegister[V]) Clone() *LWWRegister[V] {
	return LWWRegisterFromState(r.State(), r.clock)
}

// MarshalJSON encodes the register as its state.
func (r *LWWRegister[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.State())
}

// Type implements CRDT.
func (r *LWWRegister[V]) Type() Type { return TypeLWWRegister }

// ReplicaID implements CRDT.
func (r *LWWRegister[V]) ReplicaID() ReplicaID { return r.replicaID }

// VectorClock implements CRDT.
func (r *LWWRegister[V]) VectorClock() VectorClock {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.vclock.Clone()
}

func (r *LWWRegister[V]) crdt() {}

// newer сравнивает две записи по правилу LWW:
// 1. Сначала сравнивается timestamp (больший выигрывает)
// 2. При равных timestamp сравнивается ReplicaID (лексикографически)
func newer(ts int64, writer ReplicaID, currentTS int64, currentWriter ReplicaID) bool {
	if ts > currentTS {
		return true
	}
	if ts < currentTS {
		return false
	}
	// Timestamps равны - сравниваем ReplicaID для детерминизма
	return writer > currentWriter
}
