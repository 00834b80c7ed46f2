// Package ratelimit limits request rates per client key.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a request for key may proceed
type Limiter interface {
	Allow(key string) bool
}

// SlidingWindowLimiter allows at most limit requests per key within any
// windowSize interval.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	now        func() time.Time
	stopCh     chan struct{}
	stopOnce   sync.Once
}

type window struct {
	requests []time.Time
}

// NewSlidingWindowLimiter creates a limiter and starts its cleanup loop.
// Call Stop to end it.
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}

	go l.cleanupLoop(windowSize)

	return l
}

// NewPerMinute creates a limiter allowing requestsPerMinute per key
func NewPerMinute(requestsPerMinute int) *SlidingWindowLimiter {
	return NewSlidingWindowLimiter(requestsPerMinute, time.Minute)
}

// Allow checks if a request is allowed and records it when it is
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}

	now := l.now()
	w.requests = prune(w.requests, now.Add(-l.windowSize))

	if len(w.requests) >= l.limit {
		return false
	}

	w.requests = append(w.requests, now)
	return true
}

// Reset forgets the history of key
func (l *SlidingWindowLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
}

// Stop ends the cleanup loop
func (l *SlidingWindowLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// cleanupLoop drops keys with no requests inside the window
func (l *SlidingWindowLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *SlidingWindowLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.windowSize)
	for key, w := range l.windows {
		w.requests = prune(w.requests, cutoff)
		if len(w.requests) == 0 {
			delete(l.windows, key)
		}
	}
}

// prune drops requests at or before cutoff. Requests are kept in time order.
func prune(requests []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(requests) && !requests[i].After(cutoff) {
		i++
	}
	return requests[i:]
}
