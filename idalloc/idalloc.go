// Package idalloc hands out small numeric suffixes for generated
// names, skipping numbers already taken in the document.
package idalloc

import (
	"errors"
	"fmt"
)

var ErrExhausted = errors.New("id space exhausted")

// Pool allocates the smallest unused number at or above base. A
// nonzero limit bounds the space; Seed marks numbers seen in the
// document as taken.
type Pool struct {
	base  uint64
	limit uint64
	used  map[uint64]bool
}

func New(base, limit uint64) *Pool {
	return &Pool{base: base, limit: limit, used: map[uint64]bool{}}
}

func (p *Pool) Seed(n uint64) {
	p.used[n] = true
}

func (p *Pool) Next() (uint64, error) {
	for n := p.base; p.limit == 0 || n <= p.limit; n++ {
		if !p.used[n] {
			p.used[n] = true
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: base %d limit %d", ErrExhausted, p.base, p.limit)
}
