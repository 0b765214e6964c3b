package ledger

import "sync/atomic"

// Sequencer provides monotonically increasing sequence numbers for
// transaction records.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// AdvanceTo raises the counter to at least n, used when rehydrating a
// persisted history.
func (s *Sequencer) AdvanceTo(n uint64) {
	for {
		cur := s.n.Load()
		if cur >= n || s.n.CompareAndSwap(cur, n) {
			return
		}
	}
}
