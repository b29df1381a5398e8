package crdt

import (
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestORSet_AddRemove(t *testing.T) {
	s := NewORSet[string]("r1", NewManualClock(100))

	tag := s.Add("apple")
	assert.Equal(t, "r1-100-1", tag)
	assert.True(t, s.Has("apple"))

	s.Add("apple")
	assert.Len(t, s.Tags("apple"), 2)
	assert.Equal(t, 1, s.Len(), "Duplicate adds should count once")

	assert.True(t, s.Remove("apple"))
	assert.False(t, s.Has("apple"))
	assert.Empty(t, s.Tags("apple"))

	assert.False(t, s.Remove("apple"), "Removing absent value should be a no-op")
	assert.False(t, s.Remove("missing"))
}

func TestORSet_ReAddAfterRemove(t *testing.T) {
	s := NewORSet[string]("r1", NewManualClock(100))

	first := s.Add("x")
	s.Remove("x")
	second := s.Add("x")

	assert.NotEqual(t, first, second)
	assert.True(t, s.Has("x"))
	assert.Contains(t, s.State().Tombstones, first)
}

func TestORSet_Merge(t *testing.T) {
	r1 := NewORSet[string]("r1", NewManualClock(1))
	r2 := NewORSet[string]("r2", NewManualClock(2))

	r1.Add("apple")
	r1.Add("banana")
	r1.Remove("apple")
	r2.Add("banana")

	r1.Merge(r2)

	assert.True(t, mapset.NewSet("banana").Equal(r1.Value()))
	assert.Equal(t, 1, r1.Len())
	assert.Len(t, r1.Tags("banana"), 2)
}

func TestORSet_RemoveReplicates(t *testing.T) {
	r1 := NewORSet[string]("r1", NewManualClock(1))
	r2 := NewORSet[string]("r2", NewManualClock(2))

	r1.Add("x")
	r2.Merge(r1)
	require.True(t, r2.Has("x"))

	r2.Remove("x")
	r1.Merge(r2)

	assert.False(t, r1.Has("x"))
	assert.False(t, r2.Has("x"))
}

func TestORSet_AddWins(t *testing.T) {
	r1 := NewORSet[string]("r1", NewManualClock(10))
	r2 := NewORSet[string]("r2", NewManualClock(20))

	r1.Add("x")
	r1.Remove("x")
	r2.Add("x")

	r1.Merge(r2)
	r2.Merge(r1)

	assert.True(t, r1.Has("x"))
	assert.True(t, r2.Has("x"))
}

func TestORSet_MergeIdempotentAndDuplicated(t *testing.T) {
	r1 := NewORSet[string]("r1", NewManualClock(1))
	r2 := NewORSet[string]("r2", NewManualClock(2))
	r2.Add("a")
	r2.Add("b")
	r2.Remove("a")

	state := r2.State()
	r1.MergeState(state)
	once := r1.State()
	r1.MergeState(state)
	r1.Merge(r1)

	assert.Equal(t, once, r1.State())
	assert.Equal(t, []string{"b"}, r1.Values())
}

func TestORSet_FromStateResumesCounter(t *testing.T) {
	s := NewORSet[string]("r1", NewManualClock(5))
	s.Add("a")
	s.Add("b")
	s.Add("c")
	s.Remove("c")

	restored := ORSetFromState(s.State(), NewManualClock(5))
	tag := restored.Add("d")

	assert.Equal(t, "r1-5-4", tag, "Restored set should not reuse tags")
	assert.ElementsMatch(t, []string{"a", "b", "d"}, restored.Values())
}

func TestORSet_FromStateSweepsTombstoned(t *testing.T) {
	state := ORSetState[string]{
		ReplicaID: "r1",
		Elements: map[string]ORSetElement[string]{
			"r2-1-1": {Value: "gone", Timestamp: 1},
			"r2-1-2": {Value: "kept", Timestamp: 1},
		},
		Tombstones:  []string{"r2-1-1"},
		VectorClock: VectorClock{"r2": 2},
	}

	s := ORSetFromState(state, NewManualClock(0))

	assert.False(t, s.Has("gone"))
	assert.True(t, s.Has("kept"))
	assert.Equal(t, "r1-0-1", s.Add("new"), "Foreign tags should not move the counter")
}

func TestORSet_TagFormat(t *testing.T) {
	s := NewORSet[int]("replica-with-dashes", NewManualClock(42))

	tag := s.Add(7)
	assert.True(t, strings.HasPrefix(tag, "replica-with-dashes-42-"))

	restored := ORSetFromState(s.State(), NewManualClock(42))
	assert.Equal(t, "replica-with-dashes-42-2", restored.Add(8))
}

func TestORSet_StateIsCopy(t *testing.T) {
	s := NewORSet[string]("r1", NewManualClock(1))
	s.Add("a")

	state := s.State()
	for tag := range state.Elements {
		delete(state.Elements, tag)
	}

	assert.True(t, s.Has("a"))
	assert.Equal(t, TypeORSet, s.Type())
	assert.Equal(t, uint64(1), s.VectorClock().Get("r1"))
}
