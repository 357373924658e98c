package telegram

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Conte777/SaveVideoBot/config"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type chatBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ChatLimiter throttles link requests per chat with a token bucket
type ChatLimiter struct {
	mu        sync.Mutex
	buckets   map[int64]*chatBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewChatLimiter creates a limiter from download config.
// A non-positive RatePerMinute disables throttling.
func NewChatLimiter(cfg *config.DownloadConfig) *ChatLimiter {
	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}

	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &ChatLimiter{
		buckets: make(map[int64]*chatBucket),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the chat may start another request now
func (l *ChatLimiter) Allow(chatID int64) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[chatID]
	if !ok {
		b = &chatBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[chatID] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1)
}

// Len returns the number of tracked chats
func (l *ChatLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops buckets of chats that have been idle long enough to be full again
func (l *ChatLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterSweepInterval {
		return
	}
	l.lastSweep = now

	for id, b := range l.buckets {
		if now.Sub(b.lastSeen) > limiterIdleTTL {
			delete(l.buckets, id)
		}
	}
}
