package core

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInsufficientPool reports a draw without replacement asking for more
// items than the pool holds.
var ErrInsufficientPool = errors.New("insufficient pool")

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntBetween returns a random int in [lo, hi). When hi <= lo it returns lo.
func (r *RNG) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo)
}

// Sample draws k distinct elements from pool without replacement. The pool
// is not modified. The returned slice is in draw order.
func Sample[T any](r *RNG, pool []T, k int) ([]T, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: negative sample size %d", ErrInsufficientPool, k)
	}
	if k > len(pool) {
		return nil, fmt.Errorf("%w: want %d of %d", ErrInsufficientPool, k, len(pool))
	}
	if k == 0 {
		return nil, nil
	}
	buf := append([]T(nil), pool...)
	// Partial Fisher-Yates: the first k slots end up holding the draw.
	for i := 0; i < k; i++ {
		j := i + r.r.IntN(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:k:k], nil
}

// SampleRange draws k distinct ints from [lo, hi) without replacement.
func SampleRange(r *RNG, lo, hi, k int) ([]int, error) {
	if hi < lo {
		hi = lo
	}
	pool := make([]int, hi-lo)
	for i := range pool {
		pool[i] = lo + i
	}
	return Sample(r, pool, k)
}
