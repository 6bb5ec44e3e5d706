// Package random provides a rand.Rand that battle services can share:
// sessions run concurrently, so the generator wired through the monster
// policy, the loot generator and the session services must serialize access
// to its source.
package random

import (
	"math/rand"
	"sync"
)

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewLocked returns a generator that is safe for concurrent use. A fixed
// seed gives reproducible draws, as long as the call order is serial.
func NewLocked(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed)})
}
