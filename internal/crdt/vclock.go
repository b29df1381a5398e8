package crdt

// Ordering is the result of comparing two vector clocks.
type Ordering int

// Possible vector clock orderings.
const (
	Equal Ordering = iota
	Before
	After
	Concurrent
)

// String implements fmt.Stringer.
func (o Ordering) String() string {
	switch o {
	case Equal:
		return "equal"
	case Before:
		return "before"
	case After:
		return "after"
	case Concurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// VectorClock maps replicas to logical counts. An absent replica counts as 0.
// Methods never mutate the receiver; they return new clocks.
type VectorClock map[ReplicaID]uint64

// NewVectorClock creates an empty vector clock.
func NewVectorClock() VectorClock {
	return make(VectorClock)
}

// Get returns the count of a replica (0 when absent).
func (vc VectorClock) Get(id ReplicaID) uint64 {
	return vc[id]
}

// Clone creates an independent copy. A nil clock clones to an empty one.
func (vc VectorClock) Clone() VectorClock {
	clone := make(VectorClock, len(vc))
	for id, count := range vc {
		clone[id] = count
	}
	return clone
}

// Increment returns a copy with the replica's count increased by one.
func (vc VectorClock) Increment(id ReplicaID) VectorClock {
	next := vc.Clone()
	next[id]++
	return next
}

// Merge returns the pointwise maximum of both clocks.
func (vc VectorClock) Merge(other VectorClock) VectorClock {
	merged := vc.Clone()
	for id, count := range other {
		if count > merged[id] {
			merged[id] = count
		}
	}
	return merged
}

// Compare scans the union of replicas and reports how vc relates to other.
func (vc VectorClock) Compare(other VectorClock) Ordering {
	greater, less := false, false

	for id, count := range vc {
		switch o := other[id]; {
		case count > o:
			greater = true
		case count < o:
			less = true
		}
	}
	for id, count := range other {
		if _, seen := vc[id]; !seen && count > 0 {
			less = true
		}
	}

	switch {
	case greater && less:
		return Concurrent
	case less:
		return Before
	case greater:
		return After
	default:
		return Equal
	}
}

// HappensBefore reports whether vc is dominated by other: every count is
// less or equal and at least one is strictly less.
func (vc VectorClock) HappensBefore(other VectorClock) bool {
	return vc.Compare(other) == Before
}

// Concurrent reports whether neither clock happens before the other.
// Equal clocks are concurrent too.
func (vc VectorClock) Concurrent(other VectorClock) bool {
	return !vc.HappensBefore(other) && !other.HappensBefore(vc)
}

// Equal reports whether both clocks hold the same counts, treating absent
// replicas as 0.
func (vc VectorClock) Equal(other VectorClock) bool {
	return vc.Compare(other) == Equal
}
