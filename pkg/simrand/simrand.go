// Package simrand provides the injectable random source used by every
// randomized simulation policy, so tests can pin a seed and reproduce
// outcomes such as the designed scan failure draw.
package simrand

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the subset of math/rand used by the simulator. Implementations
// must be safe for concurrent use; job drivers and registry operations
// draw from the same source.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Int63n(n int64) int64
}

// locked wraps a *rand.Rand with a mutex. math/rand sources are not
// goroutine safe on their own.
type locked struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a concurrency-safe source seeded with seed. A seed of 0
// falls back to the current time.
func New(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &locked{rng: rand.New(rand.NewSource(seed))}
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

func (l *locked) Int63n(n int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Int63n(n)
}
