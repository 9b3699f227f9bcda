package services

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Submission caps within the sliding window, per originating IP.
const (
	RateWindow       = 60 * time.Second
	TopicRateLimit   = 6
	CommentRateLimit = 12
)

// RateLimiter is a sliding-window counter keyed by network identity. The
// windows live in a bounded LRU so a scan over many source addresses cannot
// grow the map without bound. Counters are process-local: a multi-instance
// deployment under-counts abuse, which is an accepted scaling limitation,
// not something this limiter tries to solve.
type RateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   *lru.Cache[string, []time.Time]
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	cache, err := lru.New[string, []time.Time](4096)
	if err != nil {
		log.Fatalf("Failed to create rate limiter cache: %v", err)
	}
	return &RateLimiter{max: max, window: window, hits: cache}
}

// Allow records an attempt for key and reports whether it is within quota.
// A rejected attempt is still recorded inside the window slice only insofar
// as older entries are pruned; rejections do not extend the window.
func (l *RateLimiter) Allow(key string) bool {
	return l.allowAt(key, time.Now())
}

func (l *RateLimiter) allowAt(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	window, _ := l.hits.Get(key)
	cutoff := now.Add(-l.window)
	kept := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.hits.Add(key, kept)
		return false
	}
	kept = append(kept, now)
	l.hits.Add(key, kept)
	return true
}
