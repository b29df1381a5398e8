package crdt

import (
	"encoding/json"
	"sync"
)

// LWWEntry одна ячейка LWW-Map. Удаление не убирает ячейку из карты,
// а помечает ее флагом Deleted (tombstone).
type LWWEntry[V any] struct {
	Value     V         `json:"value"`     // Value значение (нулевое для tombstone)
	Writer    ReplicaID `json:"writer"`    // Writer реплика, записавшая эту версию
	Timestamp int64     `json:"timestamp"` // Timestamp метка записи
	Deleted   bool      `json:"deleted"`   // Deleted флаг soft delete
}

// wins сообщает, должна ли запись e заменить current при слиянии:
// 1. Больший Timestamp выигрывает
// 2. При равных Timestamp tombstone выигрывает у значения (delete-wins)
// 3. При равных Timestamp и флаге Deleted выигрывает больший Writer
func (e LWWEntry[V]) wins(current LWWEntry[V]) bool {
	if e.Timestamp != current.Timestamp {
		return e.Timestamp > current.Timestamp
	}
	if e.Deleted != current.Deleted {
		return e.Deleted
	}
	return e.Writer > current.Writer
}

// LWWMapState is the serializable state of an LWWMap.
type LWWMapState[K comparable, V any] struct {
	Entries     map[K]LWWEntry[V] `json:"entries"`
	VectorClock VectorClock       `json:"vector_clock"`
	ReplicaID   ReplicaID         `json:"replica_id"`
}

// LWWMap представляет карту независимых LWW-ячеек.
// Каждый ключ, который когда-либо записывался или удалялся, сохраняет
// ячейку навсегда, чтобы слияние с репликой, не видевшей удаления,
// не воскресило старое значение.
type LWWMap[K comparable, V any] struct {
	clock     Clock
	entries   map[K]LWWEntry[V]
	vclock    VectorClock
	replicaID ReplicaID
	mu        sync.RWMutex
}

// NewLWWMap создает пустую LWW-Map, принадлежащую реплике replicaID.
func NewLWWMap[K comparable, V any](replicaID ReplicaID, clock Clock) *LWWMap[K, V] {
	return &LWWMap[K, V]{
		replicaID: replicaID,
		clock:     clock,
		entries:   make(map[K]LWWEntry[V]),
		vclock:    NewVectorClock(),
	}
}

// LWWMapFromState восстанавливает карту из состояния, включая tombstones.
func LWWMapFromState[K comparable, V any](state LWWMapState[K, V], clock Clock) *LWWMap[K, V] {
	m := NewLWWMap[K, V](state.ReplicaID, clock)
	for key, entry := range state.Entries {
		m.entries[key] = entry
	}
	m.vclock = state.VectorClock.Clone()
	return m
}

// Set записывает значение по ключу с текущей меткой.
func (m *LWWMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = LWWEntry[V]{
		Value:     value,
		Timestamp: stamp(m.clock, m.entries[key].Timestamp),
		Writer:    m.replicaID,
	}
	m.vclock = m.vclock.Increment(m.replicaID)
}

// Get возвращает значение по ключу.
// Второй результат false, если ключа нет или он помечен как удаленный.
func (m *LWWMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[key]
	if !exists || entry.Deleted {
		var zero V
		return zero, false
	}

	return entry.Value, true
}

// Has проверяет наличие неудаленного значения по ключу.
func (m *LWWMap[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete помечает ключ как удаленный с новой меткой.
// Tombstone создается даже для ключа, которого локально нет: запоздавший
// удаленный Set с более старой меткой не должен воскресить значение.
func (m *LWWMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = LWWEntry[V]{
		Timestamp: stamp(m.clock, m.entries[key].Timestamp),
		Writer:    m.replicaID,
		Deleted:   true,
	}
	m.vclock = m.vclock.Increment(m.replicaID)
}

// Clear помечает все известные ключи как удаленные одной общей меткой.
// Эквивалентно Delete для каждого ключа.
func (m *LWWMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		return
	}

	var latest int64
	for _, entry := range m.entries {
		if entry.Timestamp > latest {
			latest = entry.Timestamp
		}
	}
	ts := stamp(m.clock, latest)

	for key := range m.entries {
		m.entries[key] = LWWEntry[V]{Timestamp: ts, Writer: m.replicaID, Deleted: true}
	}
	m.vclock = m.vclock.Increment(m.replicaID)
}

// Merge объединяет текущую карту с другой.
func (m *LWWMap[K, V]) Merge(other *LWWMap[K, V]) {
	m.MergeState(other.State())
}

// MergeState применяет правило LWW к каждому ключу удаленного состояния.
// Операция коммутативна, ассоциативна и идемпотентна.
func (m *LWWMap[K, V]) MergeState(state LWWMapState[K, V]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest int64
	for key, remote := range state.Entries {
		if remote.Timestamp > latest {
			latest = remote.Timestamp
		}

		local, exists := m.entries[key]

		// Если ключа нет - добавляем
		if !exists || remote.wins(local) {
			m.entries[key] = remote
		}
	}

	m.vclock = m.vclock.Merge(state.VectorClock)
	observe(m.clock, latest)
}

// Keys возвращает все неудаленные ключи.
func (m *LWWMap[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]K, 0, len(m.entries))
	for key, entry := range m.entries {
		if !entry.Deleted {
			keys = append(keys, key)
		}
	}
	return keys
}

// Values возвращает все неудаленные значения.
func (m *LWWMap[K, V]) Values() []V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values := make([]V, 0, len(m.entries))
	for _, entry := range m.entries {
		if !entry.Deleted {
			values = append(values, entry.Value)
		}
	}
	return values
}

// Len возвращает количество неудаленных ключей.
func (m *LWWMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, entry := range m.entries {
		if !entry.Deleted {
			count++
		}
	}
	return count
}

// TotalLen возвращает общее количество ячеек (включая tombstones).
func (m *LWWMap[K, V]) TotalLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// ForEach вызывает fn для каждого неудаленного ключа. fn вызывается на
// снимке карты, поэтому может безопасно обращаться к самой карте.
func (m *LWWMap[K, V]) ForEach(fn func(key K, value V)) {
	for key, entry := range m.Entries() {
		if !entry.Deleted {
			fn(key, entry.Value)
		}
	}
}

// Entries возвращает копию всех ячеек, включая удаленные.
// Используется для синхронизации и диагностики.
func (m *LWWMap[K, V]) Entries() map[K]LWWEntry[V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make(map[K]LWWEntry[V], len(m.entries))
	for key, entry := range m.entries {
		entries[key] = entry
	}
	return entries
}

// State возвращает копию состояния карты.
func (m *LWWMap[K, V]) State() LWWMapState[K, V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make(map[K]LWWEntry[V], len(m.entries))
	for key, entry := range m.entries {
		entries[key] = entry
	}

	return LWWMapState[K, V]{
		ReplicaID:   m.replicaID,
		Entries:     entries,
		VectorClock: m.vclock.Clone(),
	}
}

// Clone создает независимую копию карты с теми же часами.
func (m *LWWMap[K, V]) Clone() *LWWMap[K, V] {
	return LWWMapFromState(m.State(), m.clock)
}

// MarshalJSON кодирует карту как ее состояние.
func (m *LWWMap[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.State())
}

// Type implements CRDT.
func (m *LWWMap[K, V]) Type() Type { return TypeLWWMap }

// ReplicaID implements CRDT.
func (m *LWWMap[K, V]) ReplicaID() ReplicaID { return m.replicaID }

// VectorClock implements CRDT.
func (m *LWWMap[K, V]) VectorClock() VectorClock {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.vclock.Clone()
}

func (m *LWWMap[K, V]) crdt() {}
