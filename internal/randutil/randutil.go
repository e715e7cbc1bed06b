package randutil

import (
	"sync"

	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Picker draws uniform indices from a seeded generator. It is safe for
// concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a Picker seeded with seed.
func NewPicker(seed int64) *Picker {
	return &Picker{rng: New(seed)}
}

// Next returns a uniform index in [0, n).
func (p *Picker) Next(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// Sequence replays a fixed list of indices, wrapping around at the end.
type Sequence struct {
	mu      sync.Mutex
	indices []int
	pos     int
}

// NewSequence returns a Sequence over indices. An empty sequence always
// yields 0.
func NewSequence(indices ...int) *Sequence {
	return &Sequence{indices: indices}
}

// Next returns the next index in the sequence, reduced modulo n.
func (s *Sequence) Next(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.indices) == 0 || n <= 0 {
		return 0
	}
	v := s.indices[s.pos%len(s.indices)]
	s.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
