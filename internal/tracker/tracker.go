// Package tracker holds the process-lifetime record of pairs that have
// already had an alert attempted.
package tracker

import "sync"

// SeenSet is an append-only set of pair addresses. Membership is the only
// thing that matters; entries are never pruned, so the footprint grows with
// the number of distinct pairs observed over the life of the process. The
// set is deliberately not persisted: a restart starts fresh.
type SeenSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewSeenSet creates an empty seen set.
func NewSeenSet() *SeenSet {
	return &SeenSet{
		seen: make(map[string]struct{}),
	}
}

// Contains reports whether an alert has already been attempted for pairID.
func (s *SeenSet) Contains(pairID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.seen[pairID]
	return ok
}

// Record marks pairID as alerted. Recording an already-present id is a
// no-op.
func (s *SeenSet) Record(pairID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen[pairID] = struct{}{}
}

// Len returns the number of distinct pairs recorded so far.
func (s *SeenSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.seen)
}
