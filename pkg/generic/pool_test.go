package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetPoolClearsOnPut(t *testing.T) {
	p := NewResetPool(
		func() *[]int { s := make([]int, 0, 8); return &s },
		func(s *[]int) { *s = (*s)[:0] },
	)

	s := p.Get()
	*s = append(*s, 1, 2, 3)
	p.Put(s)

	// sync.Pool may or may not hand the same value back; either way it must be empty
	got := p.Get()
	assert.Empty(t, *got)
}

