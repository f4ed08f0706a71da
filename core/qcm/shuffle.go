package qcm

import (
	"math/rand"
	"sync"
	"time"
)

// Source provides the randomness for shuffles. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a number in [0, n).
	Intn(n int) int
}

// NewRandomSource returns a time-seeded source safe for concurrent use,
// so one source can serve every workspace.
func NewRandomSource() Source {
	return &lockedSource{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// Shuffle permutes n elements in place with Fisher-Yates, calling swap for each exchange.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}
