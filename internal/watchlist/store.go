// internal/watchlist/store.go
package watchlist

import (
	"errors"
	"sync"
	"time"

	"github.com/rovshanmuradov/liquidity-watch/internal/metrics"
)

var (
	ErrAlreadyWatched   = errors.New("identifier is already being watched")
	ErrCapacityExceeded = errors.New("maximum watchlist size reached")
	ErrNotWatched       = errors.New("identifier is not being watched")
)

// Entry is a watched identifier together with its alert bookkeeping.
// LastAlertAt is the zero time until the first alert is recorded.
type Entry struct {
	Identifier  string
	AddedAt     time.Time
	LastAlertAt time.Time
}

// Store is a bounded, concurrency-safe set of watched identifiers
// (addresses or mints). It is the only shared mutable state in the
// pipeline; every method is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []string
	maxSize int
	clock   func() time.Time
}

// NewStore creates a store holding at most maxSize identifiers.
func NewStore(maxSize int) *Store {
	return NewStoreWithClock(maxSize, time.Now)
}

// NewStoreWithClock creates a store with an injected clock.
func NewStoreWithClock(maxSize int, clock func() time.Time) *Store {
	return &Store{
		entries: make(map[string]*Entry),
		maxSize: maxSize,
		clock:   clock,
	}
}

// Add registers a new identifier. AddedAt is immutable: re-adding an
// existing identifier fails without touching the entry.
func (s *Store) Add(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; ok {
		return ErrAlreadyWatched
	}
	if len(s.entries) >= s.maxSize {
		return ErrCapacityExceeded
	}

	s.entries[id] = &Entry{Identifier: id, AddedAt: s.clock()}
	s.order = append(s.order, id)
	metrics.WatchlistSize.Set(float64(len(s.entries)))
	return nil
}

// Remove deletes an identifier from the store.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotWatched
	}
	delete(s.entries, id)
	for i, watched := range s.order {
		if watched == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.WatchlistSize.Set(float64(len(s.entries)))
	return nil
}

// Contains reports whether the identifier is watched.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// AnyWatched reports whether at least one of the identifiers is watched.
func (s *Store) AnyWatched(ids ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.entries[id]; ok {
			return true
		}
	}
	return false
}

// WatchedOf returns the subset of ids that are on the watchlist.
func (s *Store) WatchedOf(ids ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []string
	for _, id := range ids {
		if _, ok := s.entries[id]; ok {
			matched = append(matched, id)
		}
	}
	return matched
}

// List returns all entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, *s.entries[id])
	}
	return entries
}

// Size returns the number of watched identifiers.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CanAlert reports whether the cooldown window for the identifier has
// elapsed. Never-alerted identifiers can always alert.
func (s *Store) CanAlert(id string, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAlertLocked(id, cooldown)
}

// RecordAlert marks the identifier as alerted now.
func (s *Store) RecordAlert(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[id]; ok {
		entry.LastAlertAt = s.clock()
	}
}

// TryAlert performs the cooldown check and the alert-time update as one
// atomic step. Two concurrent calls for the same identifier inside the
// cooldown window cannot both return true.
func (s *Store) TryAlert(id string, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canAlertLocked(id, cooldown) {
		return false
	}
	if entry, ok := s.entries[id]; ok {
		entry.LastAlertAt = s.clock()
	}
	return true
}

func (s *Store) canAlertLocked(id string, cooldown time.Duration) bool {
	entry, ok := s.entries[id]
	if !ok || entry.LastAlertAt.IsZero() {
		return true
	}
	return s.clock().Sub(entry.LastAlertAt) >= cooldown
}
