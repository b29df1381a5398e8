package crdt

import (
	"math"
	"sync"
	"time"
)

// Clock источник временных меток (миллисекунды) для LWW-упорядочивания.
// Передается в каждый экземпляр CRDT при создании, чтобы тесты могли
// подставлять детерминированное время.
type Clock interface {
	// Now возвращает текущую временную метку в миллисекундах.
	Now() int64
}

// Observer реализуется часами, которые учитывают временные метки,
// полученные от других реплик при слиянии.
type Observer interface {
	// Observe сообщает часам о метке, увиденной в удаленном состоянии.
	Observe(timestamp int64)
}

// HybridClock гибридные часы: физическое время в миллисекундах, которое
// никогда не идет назад и всегда опережает все наблюдавшиеся метки.
// Это делает совпадение меток двух реплик практически невозможным,
// а tie-break по ReplicaID остается только последним рубежом.
type HybridClock struct {
	wall func() time.Time // источник физического времени
	last int64            // последняя выданная или увиденная метка
	mu   sync.Mutex       // мьютекс для потокобезопасности
}

// NewHybridClock создает гибридные часы на основе системного времени.
func NewHybridClock() *HybridClock {
	return &HybridClock{wall: time.Now}
}

// NewHybridClockWithSource создает гибридные часы с заданным источником времени.
// Используется для тестирования.
func NewHybridClockWithSource(wall func() time.Time) *HybridClock {
	return &HybridClock{wall: wall}
}

// Now возвращает max(физическое время, последняя метка + 1).
// Метки, выданные одними часами, строго возрастают до math.MaxInt64,
// дальше часы стоят на месте.
func (c *HybridClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.wall().UnixMilli()
	if now <= c.last {
		now = next(c.last)
	}
	c.last = now

	return now
}

// Observe продвигает часы до удаленной метки, если она больше локальной.
// Аналог Update у часов Лампорта: следующий Now будет больше timestamp.
func (c *HybridClock) Observe(timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timestamp > c.last {
		c.last = timestamp
	}
}

// Last возвращает последнюю выданную или увиденную метку без изменения часов.
func (c *HybridClock) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}

// ManualClock часы с ручным управлением для детерминированных тестов
// и воспроизведения сценариев с равными метками.
type ManualClock struct {
	now int64
	mu  sync.Mutex
}

// NewManualClock создает ручные часы, показывающие start.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// Now возвращает установленную метку.
func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Set устанавливает текущую метку.
func (c *ManualClock) Set(timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = timestamp
}

// Advance сдвигает часы на delta и возвращает новую метку.
func (c *ManualClock) Advance(delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += delta
	return c.now
}

// observe передает удаленную метку часам, если они это поддерживают.
func observe(clock Clock, timestamp int64) {
	if o, ok := clock.(Observer); ok {
		o.Observe(timestamp)
	}
}

// stamp выдает метку для локальной записи в ячейку, текущая метка которой
// равна current: метка не меньше current + 1, даже если часы отстают.
func stamp(clock Clock, current int64) int64 {
	ts := clock.Now()
	if ts <= current {
		ts = next(current)
	}
	return ts
}

// next возвращает ts + 1 без переполнения.
func next(ts int64) int64 {
	if ts == math.MaxInt64 {
		return ts
	}
	return ts + 1
}
