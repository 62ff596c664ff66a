// Package ratelimit bounds request volume per client address and route class
// using fixed time windows.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Route classes carry separate ceilings: credential guessing and paid
// generation calls get far tighter budgets than general traffic.
const (
	ClassGeneral = "general"
	ClassAuth    = "auth"
	ClassPlan    = "plan"
)

// DefaultWindow is the fixed counting window shared by all classes.
const DefaultWindow = 15 * time.Minute

// CounterStore increments a bucket counter inside a fixed window. A
// single-process map and a shared redis store are interchangeable behind it;
// with the map, ceilings apply per instance rather than globally.
type CounterStore interface {
	// Incr bumps the counter for key and returns the new count. The counter
	// resets when window elapses since the bucket's first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type bucket struct {
	count       int64
	windowStart time.Time
}

// MemoryStore is the in-process CounterStore. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets[key]
	if !ok || now.Sub(b.windowStart) >= window {
		b = &bucket{windowStart: now}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}
