package service

import "sync"

// sequencer orders notifications by the World write that produced them.
// A ticket is taken while the guard is held; emit then waits for every
// earlier ticket before delivering, without holding the guard.
type sequencer struct {
	mu   sync.Mutex
	cond *sync.Cond
	next uint64 // next ticket to hand out
	turn uint64 // ticket allowed to emit
}

func newSequencer() *sequencer {
	s := &sequencer{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// ticket must be followed by exactly one emit with the returned value
func (s *sequencer) ticket() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.next
	s.next++
	return t
}

func (s *sequencer) emit(t uint64, fn func()) {
	s.mu.Lock()
	for s.turn != t {
		s.cond.Wait()
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.turn++
		s.mu.Unlock()
		s.cond.Broadcast()
	}()
	fn()
}
