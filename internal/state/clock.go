package state

import "sync/atomic"

// Clock hands out restore generations. A restore may only paint while its
// generation is the latest one issued.
type Clock struct {
	counter atomic.Uint64
}

// Tick issues the next generation.
func (c *Clock) Tick() uint64 {
	return c.counter.Add(1)
}

// IsLatest reports whether gen is still the newest generation.
func (c *Clock) IsLatest(gen uint64) bool {
	return c.counter.Load() == gen
}
