package crdt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// ORSetElement is one tagged instance of a value.
type ORSetElement[V comparable] struct {
	Value     V     `json:"value"`
	Timestamp int64 `json:"timestamp"`
}

// ORSetState is the serializable state of an ORSet. Elements holds live tags
// only; every removed tag is listed in Tombstones.
type ORSetState[V comparable] struct {
	Elements    map[string]ORSetElement[V] `json:"elements"`
	VectorClock VectorClock                `json:"vector_clock"`
	ReplicaID   ReplicaID                  `json:"replica_id"`
	Tombstones  []string                   `json:"tombstones"`
}

// ORSet is an observed-remove set. Every add creates a globally unique tag;
// remove tombstones the tags it has observed. A concurrent add produces a tag
// nobody has tombstoned, so add wins over a concurrent remove.
type ORSet[V comparable] struct {
	clock      Clock
	elements   map[string]ORSetElement[V] // tag -> element
	tombstones mapset.Set[string]
	vclock     VectorClock
	replicaID  ReplicaID
	counter    uint64
	mu         sync.RWMutex
}

// NewORSet creates an empty set owned by replicaID.
func NewORSet[V comparable](replicaID ReplicaID, clock Clock) *ORSet[V] {
	return &ORSet[V]{
		replicaID:  replicaID,
		clock:      clock,
		elements:   make(map[string]ORSetElement[V]),
		tombstones: mapset.NewThreadUnsafeSet[string](),
		vclock:     NewVectorClock(),
	}
}

// ORSetFromState restores a set from its state. The tag counter resumes after
// the highest counter found in the owner's own tags so restored replicas never
// reuse a tag.
func ORSetFromState[V comparable](state ORSetState[V], clock Clock) *ORSet[V] {
	s := NewORSet[V](state.ReplicaID, clock)
	for tag, element := range state.Elements {
		s.elements[tag] = element
	}
	for _, tag := range state.Tombstones {
		s.tombstones.Add(tag)
		delete(s.elements, tag)
	}
	s.vclock = state.VectorClock.Clone()

	for tag := range s.elements {
		s.resumeCounter(tag)
	}
	for tag := range s.tombstones.Iter() {
		s.resumeCounter(tag)
	}

	return s
}

// Add inserts value under a fresh tag {replicaID}-{timestamp}-{counter}.
// Re-adding a removed value creates a tag distinct from the tombstoned ones.
func (s *ORSet[V]) Add(value V) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.clock.Now()
	s.counter++
	tag := fmt.Sprintf("%s-%d-%d", s.replicaID, ts, s.counter)

	s.elements[tag] = ORSetElement[V]{Value: value, Timestamp: ts}
	s.vclock = s.vclock.Increment(s.replicaID)

	return tag
}

// Remove tombstones every tag currently associated with value. Removing an
// absent value is a no-op: there is no observed tag to tombstone.
func (s *ORSet[V]) Remove(value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for tag, element := range s.elements {
		if element.Value == value {
			s.tombstones.Add(tag)
			delete(s.elements, tag)
			removed = true
		}
	}

	if removed {
		s.vclock = s.vclock.Increment(s.replicaID)
	}
	return removed
}

// Has reports whether value has at least one live tag.
func (s *ORSet[V]) Has(value V) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, element := range s.elements {
		if element.Value == value {
			return true
		}
	}
	return false
}

// Value returns a snapshot of all present values.
func (s *ORSet[V]) Value() mapset.Set[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := mapset.NewSet[V]()
	for _, element := range s.elements {
		result.Add(element.Value)
	}
	return result
}

// Values returns present values as a slice in unspecified order.
func (s *ORSet[V]) Values() []V {
	return s.Value().ToSlice()
}

// Len returns the number of distinct present values.
func (s *ORSet[V]) Len() int {
	return s.Value().Cardinality()
}

// Tags returns the live tags of value.
func (s *ORSet[V]) Tags(value V) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tags []string
	for tag, element := range s.elements {
		if element.Value == value {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// Merge folds another set into this one.
func (s *ORSet[V]) Merge(other *ORSet[V]) {
	s.MergeState(other.State())
}

// MergeState unions remote elements and tombstones, then sweeps every local
// tag that is now tombstoned.
func (s *ORSet[V]) MergeState(state ORSetState[V]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest int64
	for tag, element := range state.Elements {
		// Теги глобально уникальны - совпадение тега означает тот же элемент
		s.elements[tag] = element
		if element.Timestamp > latest {
			latest = element.Timestamp
		}
	}
	for _, tag := range state.Tombstones {
		s.tombstones.Add(tag)
	}

	for tag := range s.elements {
		if s.tombstones.Contains(tag) {
			delete(s.elements, tag)
		}
	}

	s.vclock = s.vclock.Merge(state.VectorClock)
	observe(s.clock, latest)
}

// State returns a copy of the set state. Tombstones are sorted.
func (s *ORSet[V]) State() ORSetState[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elements := make(map[string]ORSetElement[V], len(s.elements))
	for tag, element := range s.elements {
		elements[tag] = element
	}

	tombstones := s.tombstones.ToSlice()
	sort.Strings(tombstones)

	return ORSetState[V]{
		ReplicaID:   s.replicaID,
		Elements:    elements,
		Tombstones:  tombstones,
		VectorClock: s.vclock.Clone(),
	}
}

// Clone creates an independent copy sharing the same clock.
func (s *ORSet[V]) Clone() *ORSet[V] {
	return ORSetFromState(s.State(), s.clock)
}

// MarshalJSON encodes the set as its state.
func (s *ORSet[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.State())
}

// Type implements CRDT.
func (s *ORSet[V]) Type() Type { return TypeORSet }

// ReplicaID implements CRDT.
func (s *ORSet[V]) ReplicaID() ReplicaID { return s.replicaID }

// VectorClock implements CRDT.
func (s *ORSet[V]) VectorClock() VectorClock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.vclock.Clone()
}

func (s *ORSet[V]) crdt() {}

// resumeCounter advances the tag counter past an own tag.
func (s *ORSet[V]) resumeCounter(tag string) {
	prefix := string(s.replicaID) + "-"
	if !strings.HasPrefix(tag, prefix) {
		return
	}

	idx := strings.LastIndex(tag, "-")
	n, err := strconv.ParseUint(tag[idx+1:], 10, 64)
	if err != nil {
		return
	}
	if n > s.counter {
		s.counter = n
	}
}
