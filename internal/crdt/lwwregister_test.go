package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLWWRegister_SetGet(t *testing.T) {
	clock := NewManualClock(100)
	r := NewLWWRegister[string]("r1", clock)

	_, ok := r.Get()
	assert.False(t, ok, "Empty register should report no value")

	r.Set("dark")
	value, ok := r.Get()
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
	assert.Equal(t, int64(100), r.Timestamp())
	assert.Equal(t, ReplicaID("r1"), r.Writer())

	// Часы стоят, но повторная запись должна получить большую метку
	r.Set("light")
	assert.Equal(t, int64(101), r.Timestamp())
	assert.Equal(t, uint64(2), r.VectorClock().Get("r1"))
}

func TestLWWRegister_Merge(t *testing.T) {
	tests := []struct {
		name       string
		localTS    int64
		localID    ReplicaID
		remoteTS   int64
		remoteID   ReplicaID
		wantValue  string
		wantWriter ReplicaID
	}{
		{"Remote newer wins", 100, "r1", 200, "r2", "remote", "r2"},
		{"Local newer kept", 300, "r1", 200, "r2", "local", "r1"},
		{"Tie greater remote id wins", 100, "r1", 100, "r2", "remote", "r2"},
		{"Tie smaller remote id loses", 100, "r2", 100, "r1", "local", "r2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := NewLWWRegister[string](tt.localID, NewManualClock(tt.localTS))
			remote := NewLWWRegister[string](tt.remoteID, NewManualClock(tt.remoteTS))
			local.Set("local")
			remote.Set("remote")

			local.Merge(remote)

			value, _ := local.Get()
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantWriter, local.Writer())

			// Векторные часы объединяются в любом случае
			vc := local.VectorClock()
			assert.Equal(t, uint64(1), vc.Get(tt.localID))
			assert.Equal(t, uint64(1), vc.Get(tt.remoteID))
		})
	}
}

func TestLWWRegister_MergeIntoEmpty(t *testing.T) {
	local := NewLWWRegister[int]("r1", NewManualClock(0))
	remote := NewLWWRegister[int]("r2", NewManualClock(5))
	remote.Set(42)

	local.Merge(remote)

	value, ok := local.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestLWWRegister_MergeObservesRemoteTimestamp(t *testing.T) {
	clock := NewHybridClockWithSource(fixedWall(10))
	local := NewLWWRegister[string]("r1", clock)

	remote := NewLWWRegister[string]("r2", NewManualClock(5000))
	remote.Set("remote")

	local.Merge(remote)
	local.Set("local")

	value, _ := local.Get()
	assert.Equal(t, "local", value, "Write after merge should win")
	assert.Greater(t, local.Timestamp(), int64(5000))
}

func TestLWWRegister_Causality(t *testing.T) {
	a := NewLWWRegister[string]("a", NewManualClock(1))
	b := NewLWWRegister[string]("b", NewManualClock(2))

	a.Set("x")
	b.Merge(a)
	b.Set("z")
	assert.True(t, a.HappenedBefore(b))
	assert.False(t, a.IsConcurrent(b))

	a.Set("y")
	assert.True(t, a.IsConcurrent(b))
}

func TestLWWRegister_RoundTrip(t *testing.T) {
	r := NewLWWRegister[string]("r1", NewManualClock(7))
	r.Set("value")

	restored := LWWRegisterFromState(r.State(), NewManualClock(0))

	assert.Equal(t, r.State(), restored.State())
	assert.Equal(t, TypeLWWRegister, restored.Type())
	assert.Equal(t, ReplicaID("r1"), restored.ReplicaID())
}
