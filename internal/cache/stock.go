package cache

import (
	"sync"
	"time"
)

// DefaultStockTTL is how long a stock quantity is served before it is fetched again.
const DefaultStockTTL = 5 * time.Minute

// StockEntry is a cached stock quantity and the moment it was fetched.
type StockEntry struct {
	Quantity  int
	FetchedAt time.Time
}

// Store keeps product stock quantities in memory for a fixed TTL.
// A single mutex guards the map and is never held across I/O.
type Store struct {
	mu      sync.Mutex
	entries map[int]StockEntry
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultStockTTL
	}
	s := &Store{
		entries: make(map[int]StockEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the cached quantity if the entry is younger than the TTL.
func (s *Store) Get(productID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[productID]
	if !ok || !s.fresh(e) {
		return 0, false
	}
	return e.Quantity, true
}

// Lookup splits ids into fresh hits and ids that must be fetched. Duplicates are dropped
// and missing keeps the order of first appearance.
func (s *Store) Lookup(ids []int) (hits map[int]int, missing []int) {
	hits = make(map[int]int, len(ids))
	seen := make(map[int]struct{}, len(ids))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if e, ok := s.entries[id]; ok && s.fresh(e) {
			hits[id] = e.Quantity
			continue
		}
		missing = append(missing, id)
	}
	return hits, missing
}

// SetMany stores every quantity with the same fetch time.
func (s *Store) SetMany(quantities map[int]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, q := range quantities {
		s.entries[id] = StockEntry{Quantity: q, FetchedAt: now}
	}
}

func (s *Store) Set(productID, quantity int) {
	s.SetMany(map[int]int{productID: quantity})
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[int]StockEntry)
}

// Len counts entries, stale ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) fresh(e StockEntry) bool {
	return s.now().Sub(e.FetchedAt) < s.ttl
}
