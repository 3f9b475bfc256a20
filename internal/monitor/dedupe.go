// =============================
// File: internal/monitor/dedupe.go
// =============================
package monitor

import "sync"

// seenSet is a bounded set of recently processed transaction signatures.
// Both ingestion channels can observe the same transaction; the set keeps
// the second observation from re-entering the pipeline. Eviction is FIFO
// and dedup is best-effort.
type seenSet struct {
	mu       sync.Mutex
	set      map[string]struct{}
	order    []string
	capacity int
}

func newSeenSet(capacity int) *seenSet {
	return &seenSet{
		set:      make(map[string]struct{}, capacity),
		capacity: capacity,
	}
}

// firstSeen records the signature and reports whether this was its first
// observation.
func (s *seenSet) firstSeen(signature string) bool {
	if signature == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[signature]; ok {
		return false
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.set, oldest)
	}
	s.set[signature] = struct{}{}
	s.order = append(s.order, signature)
	return true
}
