package lsphost

import (
	"sync"

	"github.com/lsphost/lsphost/internal/framing"
)

// sequencer holds back responses completed out of turn and releases them in
// request arrival order.
type sequencer struct {
	mu   sync.Mutex
	next uint64
	held map[uint64]*framing.Response
	send func(*framing.Response)
}

func newSequencer(send func(*framing.Response)) *sequencer {
	return &sequencer{
		held: make(map[uint64]*framing.Response),
		send: send,
	}
}

// push accepts the response of the request which arrived as seq.
// Every seq must be pushed exactly once.
func (s *sequencer) push(seq uint64, res *framing.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[seq] = res
	for {
		next, ok := s.held[s.next]
		if !ok {
			return
		}
		delete(s.held, s.next)
		s.next++
		s.send(next)
	}
}

func (s *sequencer) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}
