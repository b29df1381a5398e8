package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCounter_Increment(t *testing.T) {
	tests := []struct {
		name    string
		deltas  []int64
		want    uint64
		wantErr bool
	}{
		{"Single increment", []int64{5}, 5, false},
		{"Several increments", []int64{1, 2, 3}, 6, false},
		{"Zero delta", []int64{0}, 0, false},
		{"Negative delta", []int64{-1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewGCounter("r1")

			var err error
			for _, d := range tt.deltas {
				if err = c.Increment(d); err != nil {
					break
				}
			}

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, c.Value())
		})
	}
}

func TestGCounter_Merge(t *testing.T) {
	r1 := NewGCounter("r1")
	r2 := NewGCounter("r2")

	require.NoError(t, r1.Increment(5))
	require.NoError(t, r2.Increment(3))

	r1.Merge(r2)

	assert.Equal(t, uint64(8), r1.Value())
	assert.Equal(t, uint64(5), r1.Count("r1"))
	assert.Equal(t, uint64(3), r1.Count("r2"))
	assert.Equal(t, uint64(3), r2.Value(), "Merge should not modify the source")
}

func TestGCounter_MergeState_PointwiseMax(t *testing.T) {
	c := GCounterFromState(GCounterState{
		ReplicaID: "r1",
		Counts:    map[ReplicaID]uint64{"r1": 4, "r2": 7},
	})

	c.MergeState(GCounterState{Counts: map[ReplicaID]uint64{"r1": 2, "r2": 9, "r3": 1}})

	assert.Equal(t, uint64(4), c.Count("r1"), "Older entry should not lower the count")
	assert.Equal(t, uint64(9), c.Count("r2"))
	assert.Equal(t, uint64(1), c.Count("r3"), "First contact replica should be adopted")
	assert.Equal(t, uint64(14), c.Value())
}

func TestGCounter_Monotonicity(t *testing.T) {
	a := NewGCounter("a")
	b := NewGCounter("b")

	var previous uint64
	check := func() {
		current := a.Value()
		assert.GreaterOrEqual(t, current, previous, "Value should never decrease")
		previous = current
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, a.Increment(int64(i%3)))
		check()
		require.NoError(t, b.Increment(2))
		if i%2 == 0 {
			a.Merge(b)
		} else {
			// Устаревший снимок не должен уменьшать значение
			a.MergeState(GCounterState{Counts: map[ReplicaID]uint64{"a": 0, "b": 1}})
		}
		check()
	}
}

func TestGCounter_EqualAndClone(t *testing.T) {
	a := NewGCounter("r1")
	require.NoError(t, a.Increment(2))

	clone := a.Clone()
	assert.True(t, a.Equal(clone))

	require.NoError(t, clone.Increment(1))
	assert.False(t, a.Equal(clone), "Clone should be independent")

	withZero := GCounterFromState(GCounterState{
		ReplicaID: "r2",
		Counts:    map[ReplicaID]uint64{"r1": 2, "r9": 0},
	})
	assert.True(t, a.Equal(withZero), "Absent entries should compare as 0")
}

func TestGCounter_StateIsCopy(t *testing.T) {
	c := NewGCounter("r1")
	require.NoError(t, c.Increment(1))

	state := c.State()
	state.Counts["r1"] = 100

	assert.Equal(t, uint64(1), c.Value())
	assert.Equal(t, ReplicaID("r1"), state.ReplicaID)
}

func TestGCounter_CRDT(t *testing.T) {
	c := NewGCounter("r1")
	require.NoError(t, c.Increment(3))

	var v CRDT = c
	assert.Equal(t, TypeGCounter, v.Type())
	assert.Equal(t, ReplicaID("r1"), v.ReplicaID())
	assert.Equal(t, VectorClock{"r1": 3}, v.VectorClock())
}
