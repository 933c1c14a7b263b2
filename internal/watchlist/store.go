package watchlist

import (
	"sort"
	"sync"
)

// DefaultIDs is the membership a fresh store starts with.
var DefaultIDs = []string{"bitcoin", "ethereum", "cardano"}

// Store is a process-lifetime set of coin ids. Ids are not validated against
// the market; unknown ids simply never join a coin.
type Store struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewStore creates a store seeded with ids.
func NewStore(ids []string) *Store {
	s := &Store{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle removes id if present, inserts it otherwise, and reports the new
// membership.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Contains reports whether id is watchlisted.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// All returns the current members, sorted for stable output.
func (s *Store) All() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Len returns the number of members.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
