package core

// store.go keeps recent conversion results in memory so the web front end
// can offer them for download after the convert request has returned.
//
// Entries expire after a TTL and the store is capped; when full, the oldest
// entry is evicted. Nothing is written to disk.

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrConversionNotFound is returned for unknown or expired conversion IDs.
var ErrConversionNotFound = errors.New("conversion not found")

// Store defaults.
const (
	DefaultResultTTL        = 30 * time.Minute
	DefaultResultMaxEntries = 256
)

// Conversion is a stored pipeline result.
type Conversion struct {
	ID        string
	CreatedAt time.Time
	Result    *Result
}

// ResultStore is a TTL-bounded, size-bounded map of conversions.
type ResultStore struct {
	mu         sync.Mutex
	entries    map[string]*Conversion
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewResultStore creates a store. Non-positive arguments take the defaults.
func NewResultStore(ttl time.Duration, maxEntries int) *ResultStore {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultResultMaxEntries
	}
	return &ResultStore{
		entries:    make(map[string]*Conversion),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put stores r under a fresh ID and returns the stored conversion.
func (s *ResultStore) Put(r *Result) *Conversion {
	c := &Conversion{
		ID:     uuid.NewString(),
		Result: r,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.CreatedAt = s.now()
	for len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[c.ID] = c
	return c
}

// Get returns the conversion with id if it exists and has not expired.
func (s *ResultStore) Get(id string) (*Conversion, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrConversionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.entries[id]
	if !ok {
		return nil, ErrConversionNotFound
	}
	if s.expiredLocked(c) {
		delete(s.entries, id)
		return nil, ErrConversionNotFound
	}
	return c, nil
}

// Sweep removes expired entries and returns how many were removed.
func (s *ResultStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.entries {
		if s.expiredLocked(c) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *ResultStore) expiredLocked(c *Conversion) bool {
	return s.now().Sub(c.CreatedAt) > s.ttl
}

func (s *ResultStore) evictOldestLocked() {
	var oldest *Conversion
	for _, c := range s.entries {
		if oldest == nil || c.CreatedAt.Before(oldest.CreatedAt) {
			oldest = c
		}
	}
	if oldest != nil {
		delete(s.entries, oldest.ID)
	}
}
