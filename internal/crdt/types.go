// Package crdt содержит реплицируемые типы данных (CRDT), на которых строится
// синхронизация настроек между репликами: векторные часы, счетчики,
// LWW-регистр, OR-Set и LWW-Map.
//
// Все операции выполняются локально и синхронно. Единственное взаимодействие
// между репликами - Merge, который коммутативен, ассоциативен и идемпотентен.
package crdt

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ReplicaID уникальный идентификатор реплики (процесса, устройства, узла).
type ReplicaID string

// NewReplicaID генерирует новый идентификатор реплики (UUID).
func NewReplicaID() ReplicaID {
	return ReplicaID(uuid.New().String())
}

// String implements fmt.Stringer.
func (id ReplicaID) String() string {
	return string(id)
}

// Type is the tag of a CRDT variant used at the serialization boundary.
type Type string

// Known CRDT variants.
const (
	TypeGCounter    Type = "gcounter"
	TypePNCounter   Type = "pncounter"
	TypeLWWRegister Type = "lww-register"
	TypeORSet       Type = "or-set"
	TypeLWWMap      Type = "lww-map"
)

// Types returns every known variant tag.
func Types() []Type {
	return []Type{TypeGCounter, TypePNCounter, TypeLWWRegister, TypeORSet, TypeLWWMap}
}

// ParseType validates a type tag received from outside.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// CRDT is the closed set of replicated types. The unexported marker keeps
// the set limited to the variants defined in this package.
type CRDT interface {
	// Type returns the variant tag.
	Type() Type
	// ReplicaID returns the replica owning this instance.
	ReplicaID() ReplicaID
	// VectorClock returns a copy of the causal summary of the instance.
	VectorClock() VectorClock
	// MarshalJSON encodes the variant's state.
	json.Marshaler

	crdt()
}
