// Package session tracks which catalog product, if any, the operator is
// editing. One slot: beginning a new edit replaces the previous one.
package session

import "sync"

// EditSession holds the single in-progress edit slot.
type EditSession struct {
	mu       sync.Mutex
	activeID string
}

// New returns a session with no active edit.
func New() *EditSession {
	return &EditSession{}
}

// Begin marks the product as being edited.
func (s *EditSession) Begin(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = productID
}

// End clears the slot, on cancel and on a completed update alike.
func (s *EditSession) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
}

// Active returns the product id under edit, if any.
func (s *EditSession) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != ""
}

// Invalidate ends the session if it references the given product, used
// when that product is deleted.
func (s *EditSession) Invalidate(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == productID {
		s.activeID = ""
	}
}
