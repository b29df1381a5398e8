package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNCounter_IncrementDecrement(t *testing.T) {
	c := NewPNCounter("r1")

	require.NoError(t, c.Increment(10))
	require.NoError(t, c.Decrement(3))
	assert.Equal(t, int64(7), c.Value())

	require.NoError(t, c.Decrement(20))
	assert.Equal(t, int64(-13), c.Value(), "Value may go negative")
}

func TestPNCounter_NegativeDelta(t *testing.T) {
	tests := []struct {
		name string
		op   func(c *PNCounter) error
	}{
		{"Increment", func(c *PNCounter) error { return c.Increment(-1) }},
		{"Decrement", func(c *PNCounter) error { return c.Decrement(-5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPNCounter("r1")
			err := tt.op(c)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, int64(0), c.Value(), "Failed call should not change value")
		})
	}
}

func TestPNCounter_MergeWithFreshReplica(t *testing.T) {
	r1 := NewPNCounter("r1")
	require.NoError(t, r1.Increment(10))
	require.NoError(t, r1.Decrement(3))
	require.Equal(t, int64(7), r1.Value())

	r1.Merge(NewPNCounter("r2"))

	assert.Equal(t, int64(7), r1.Value())
}

func TestPNCounter_Merge(t *testing.T) {
	r1 := NewPNCounter("r1")
	r2 := NewPNCounter("r2")

	require.NoError(t, r1.Increment(5))
	require.NoError(t, r2.Decrement(2))
	require.NoError(t, r2.Increment(1))

	r1.Merge(r2)
	r2.Merge(r1)

	assert.Equal(t, int64(4), r1.Value())
	assert.Equal(t, int64(4), r2.Value())
	assert.True(t, r1.Equal(r2))
}

func TestPNCounter_RoundTrip(t *testing.T) {
	c := NewPNCounter("r1")
	require.NoError(t, c.Increment(4))
	require.NoError(t, c.Decrement(1))

	restored := PNCounterFromState(c.State())

	assert.Equal(t, c.State(), restored.State())
	assert.Equal(t, ReplicaID("r1"), restored.ReplicaID())

	require.NoError(t, restored.Increment(1))
	assert.Equal(t, int64(3), c.Value(), "Restored counter should be independent")
}

func TestPNCounter_CRDT(t *testing.T) {
	c := NewPNCounter("r1")
	require.NoError(t, c.Increment(2))
	require.NoError(t, c.Decrement(1))

	var v CRDT = c.Clone()
	assert.Equal(t, TypePNCounter, v.Type())
	assert.Equal(t, VectorClock{"r1": 3}, v.VectorClock())
}
