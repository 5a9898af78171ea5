package games

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the source of every outcome draw. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a goroutine-safe Random seeded from the clock
func NewRandom() Random {
	return &lockedRandom{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *lockedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRandom) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}
