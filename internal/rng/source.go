package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Source is the only randomness the core consumes. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// New returns a deterministic source for seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
}

// NewSeed draws a seed from crypto/rand, falling back to the wall clock.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Sequence replays scripted values and is test-friendly. Each list cycles
// when exhausted; an empty list yields zero.
type Sequence struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

func NewSequence(floats []float64, ints []int) *Sequence {
	return &Sequence{floats: floats, ints: ints}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

// Intn returns the next scripted int reduced modulo n.
func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}

// ErrNoWeight is returned when a weighted table has no positive entries.
var ErrNoWeight = errors.New("weighted table has no positive weights")

// PickWeighted draws one entry from items, skipping non-positive weights.
func PickWeighted[T any](src Source, items []T, weight func(T) int) (T, error) {
	var zero T
	total := 0
	for _, it := range items {
		if w := weight(it); w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return zero, ErrNoWeight
	}

	pick := src.Intn(total)
	running := 0
	for _, it := range items {
		w := weight(it)
		if w <= 0 {
			continue
		}
		running += w
		if pick < running {
			return it, nil
		}
	}
	return zero, fmt.Errorf("failed to draw weighted entry")
}
