// Package random wraps math/rand/v2 with a lock so one seeded generator can
// be shared by every agent.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is a goroutine-safe random number source.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Source seeded from seed. Equal seeds give equal sequences.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// NewFromTime returns a Source seeded from the wall clock.
func NewFromTime() *Source {
	return New(time.Now().UnixNano())
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// IntRange returns a value in [lo, hi].
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.IntN(hi-lo+1)
}

// Uniform returns a value in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Float64()
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return s.Float64() < p
}

// Pick returns a random element of items, or "" when items is empty.
func (s *Source) Pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[s.IntRange(0, len(items)-1)]
}

// Weighted returns the index chosen according to weights.
func (s *Source) Weighted(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	target := s.Float64() * total
	for i, w := range weights {
		if target < w {
			return i
		}
		target -= w
	}
	return len(weights) - 1
}
