// Package merge связывает типы CRDT с внешним миром: снимки состояния с
// тегом типа, конверт SyncMessage и слияние полученного конверта с
// локальным экземпляром.
package merge

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/prefkeeper/internal/crdt"
)

// Snapshot is a tagged CRDT state: the unit of persistence.
type Snapshot struct {
	Type  crdt.Type       `json:"type"`
	State json.RawMessage `json:"state"`
}

// SyncMessage is the envelope exchanged between replicas. State always holds
// the full state of the sender.
type SyncMessage struct {
	From        crdt.ReplicaID   `json:"from"`
	To          crdt.ReplicaID   `json:"to,omitempty"`
	Type        crdt.Type        `json:"type"`
	State       json.RawMessage  `json:"state"`
	VectorClock crdt.VectorClock `json:"vector_clock"`
	Timestamp   int64            `json:"timestamp"`
}

// Ordering reports how the sender's vector clock relates to local.
// After means the message carries events local has not seen.
func (m *SyncMessage) Ordering(local crdt.VectorClock) crdt.Ordering {
	return m.VectorClock.Compare(local)
}

// Dispatcher serializes CRDTs through a Codec and rebuilds them from their
// type tag. Rebuilt instances use the dispatcher's clock.
type Dispatcher struct {
	codec Codec
	clock crdt.Clock
}

// NewDispatcher creates a dispatcher. A nil codec means JSONCodec.
func NewDispatcher(codec Codec, clock crdt.Clock) *Dispatcher {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Dispatcher{codec: codec, clock: clock}
}

// Clock returns the clock given to rebuilt instances.
func (d *Dispatcher) Clock() crdt.Clock {
	return d.clock
}

// Snapshot captures the current state of c.
func (d *Dispatcher) Snapshot(c crdt.CRDT) (*Snapshot, error) {
	state, err := c.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s state: %w", c.Type(), err)
	}
	return &Snapshot{Type: c.Type(), State: state}, nil
}

// Serialize encodes c as a tagged snapshot.
func (d *Dispatcher) Serialize(c crdt.CRDT) ([]byte, error) {
	snapshot, err := d.Snapshot(c)
	if err != nil {
		return nil, err
	}

	data, err := d.codec.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// CreateSyncMessage wraps the full state of c into an envelope addressed to
// to. An empty to means broadcast.
func (d *Dispatcher) CreateSyncMessage(c crdt.CRDT, to crdt.ReplicaID) (*SyncMessage, error) {
	snapshot, err := d.Snapshot(c)
	if err != nil {
		return nil, err
	}

	return &SyncMessage{
		From:        c.ReplicaID(),
		To:          to,
		Type:        snapshot.Type,
		State:       snapshot.State,
		VectorClock: c.VectorClock(),
		Timestamp:   d.clock.Now(),
	}, nil
}

// EncodeMessage encodes an envelope through the codec.
func (d *Dispatcher) EncodeMessage(msg *SyncMessage) ([]byte, error) {
	data, err := d.codec.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync message: %w", err)
	}
	return data, nil
}

// DecodeMessage decodes an envelope and validates its type tag.
func (d *Dispatcher) DecodeMessage(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := d.codec.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if _, err := crdt.ParseType(string(msg.Type)); err != nil {
		return nil, err
	}
	if len(msg.State) == 0 {
		return nil, fmt.Errorf("%w: empty state", ErrInvalidMessage)
	}
	return &msg, nil
}

// Deserialize decodes a snapshot produced by Serialize. Maps are restored as
// LWWMap[string, V]; sets and registers hold V.
func Deserialize[V comparable](d *Dispatcher, data []byte) (crdt.CRDT, error) {
	var snapshot Snapshot
	if err := d.codec.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return FromState[V](d, snapshot.Type, snapshot.State)
}

// FromState rebuilds an instance of type t from its JSON state.
func FromState[V comparable](d *Dispatcher, t crdt.Type, state json.RawMessage) (crdt.CRDT, error) {
	switch t {
	case crdt.TypeGCounter:
		s, err := decodeState[crdt.GCounterState](state)
		if err != nil {
			return nil, err
		}
		return crdt.GCounterFromState(s), nil

	case crdt.TypePNCounter:
		s, err := decodeState[crdt.PNCounterState](state)
		if err != nil {
			return nil, err
		}
		return crdt.PNCounterFromState(s), nil

	case crdt.TypeLWWRegister:
		s, err := decodeState[crdt.LWWRegisterState[V]](state)
		if err != nil {
			return nil, err
		}
		return crdt.LWWRegisterFromState(s, d.clock), nil

	case crdt.TypeORSet:
		s, err := decodeState[crdt.ORSetState[V]](state)
		if err != nil {
			return nil, err
		}
		return crdt.ORSetFromState(s, d.clock), nil

	case crdt.TypeLWWMap:
		s, err := decodeState[crdt.LWWMapState[string, V]](state)
		if err != nil {
			return nil, err
		}
		return crdt.LWWMapFromState(s, d.clock), nil

	default:
		return nil, fmt.Errorf("%w: %q", crdt.ErrUnknownType, t)
	}
}

// New creates an empty instance of type t owned by replicaID.
func New[V comparable](d *Dispatcher, t crdt.Type, replicaID crdt.ReplicaID) (crdt.CRDT, error) {
	switch t {
	case crdt.TypeGCounter:
		return crdt.NewGCounter(replicaID), nil
	case crdt.TypePNCounter:
		return crdt.NewPNCounter(replicaID), nil
	case crdt.TypeLWWRegister:
		return crdt.NewLWWRegister[V](replicaID, d.clock), nil
	case crdt.TypeORSet:
		return crdt.NewORSet[V](replicaID, d.clock), nil
	case crdt.TypeLWWMap:
		return crdt.NewLWWMap[string, V](replicaID, d.clock), nil
	default:
		return nil, fmt.Errorf("%w: %q", crdt.ErrUnknownType, t)
	}
}

// Apply merges the state carried by msg into local.
func Apply[V comparable](d *Dispatcher, local crdt.CRDT, msg *SyncMessage) error {
	if msg.Type != local.Type() {
		return fmt.Errorf("%w: local %s, message %s", ErrTypeMismatch, local.Type(), msg.Type)
	}
	return mergeState[V](local, msg.State)
}

// MergeSnapshot merges a stored snapshot into local.
func MergeSnapshot[V comparable](local crdt.CRDT, snapshot *Snapshot) error {
	if snapshot.Type != local.Type() {
		return fmt.Errorf("%w: local %s, snapshot %s", ErrTypeMismatch, local.Type(), snapshot.Type)
	}
	return mergeState[V](local, snapshot.State)
}

func mergeState[V comparable](local crdt.CRDT, state json.RawMessage) error {
	switch l := local.(type) {
	case *crdt.GCounter:
		s, err := decodeState[crdt.GCounterState](state)
		if err != nil {
			return err
		}
		l.MergeState(s)

	case *crdt.PNCounter:
		s, err := decodeState[crdt.PNCounterState](state)
		if err != nil {
			return err
		}
		l.MergeState(s)

	case *crdt.LWWRegister[V]:
		s, err := decodeState[crdt.LWWRegisterState[V]](state)
		if err != nil {
			return err
		}
		l.MergeState(s)

	case *crdt.ORSet[V]:
		s, err := decodeState[crdt.ORSetState[V]](state)
		if err != nil {
			return err
		}
		l.MergeState(s)

	case *crdt.LWWMap[string, V]:
		s, err := decodeState[crdt.LWWMapState[string, V]](state)
		if err != nil {
			return err
		}
		l.MergeState(s)

	default:
		// Тот же тег типа, но другой параметр V
		return fmt.Errorf("%w: unsupported value type %T", ErrTypeMismatch, local)
	}
	return nil
}

func decodeState[S any](data json.RawMessage) (S, error) {
	var state S
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return state, nil
}
