package lsphost

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/lsphost/lsphost/internal/framing"
	"github.com/stretchr/testify/assert"
)

func TestSequencer(t *testing.T) {
	var got []int64
	s := newSequencer(func(res *framing.Response) {
		got = append(got, res.ID.Number())
	})
	s.push(1, framing.NewResultResponse(framing.NumberID(11), nil))
	s.push(2, framing.NewResultResponse(framing.NumberID(12), nil))
	assert.Empty(t, got)
	assert.Equal(t, 2, s.pending())
	s.push(0, framing.NewResultResponse(framing.NumberID(10), nil))
	assert.Equal(t, []int64{10, 11, 12}, got)
	assert.Equal(t, 0, s.pending())
}

func TestSequencer_Concurrent(t *testing.T) {
	const n = 1000
	var got []int64
	s := newSequencer(func(res *framing.Response) {
		got = append(got, res.ID.Number())
	})
	wg := sync.WaitGroup{}
	for _, i := range rand.Perm(n) {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.push(uint64(i), framing.NewResultResponse(framing.NumberID(int64(i)), nil))
		}(i)
	}
	wg.Wait()
	assert.Len(t, got, n)
	for i, id := range got {
		assert.Equal(t, int64(i), id)
	}
}
