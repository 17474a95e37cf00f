package utils

import (
	"sync"
	"time"
)

// expiringSet is the single-process fallback used when Redis is not configured.
type expiringSet struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func newExpiringSet() *expiringSet {
	return &expiringSet{items: map[string]time.Time{}}
}

func (s *expiringSet) add(key string, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.items[key] = until
}

func (s *expiringSet) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.items[key]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(s.items, key)
		return false
	}
	return true
}

// take reports whether key was present and unexpired, removing it either way.
func (s *expiringSet) take(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.items[key]
	delete(s.items, key)
	return ok && time.Now().Before(until)
}

func (s *expiringSet) sweepLocked() {
	now := time.Now()
	for k, until := range s.items {
		if now.After(until) {
			delete(s.items, k)
		}
	}
}
