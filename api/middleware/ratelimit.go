package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/printprobe/config"
	"github.com/use-agent/printprobe/models"
	"golang.org/x/time/rate"
)

const (
	limiterIdle = time.Hour
	sweepEvery  = 5 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet hands out one token bucket per identity. Idle buckets are
// swept while handling requests, at most every sweepEvery.
type limiterSet struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterSet(cfg config.RateLimitConfig) *limiterSet {
	return &limiterSet{
		rps:     rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (ls *limiterSet) allow(identity string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	now := ls.now()
	if now.Sub(ls.lastSweep) >= sweepEvery {
		for id, e := range ls.entries {
			if now.Sub(e.lastSeen) > limiterIdle {
				delete(ls.entries, id)
			}
		}
		ls.lastSweep = now
	}

	e, ok := ls.entries[identity]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(ls.rps, ls.burst)}
		ls.entries[identity] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RateLimit returns per-identity token-bucket rate limiting. The identity
// is the API key set by Auth, or the client IP without one.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	ls := newLimiterSet(cfg)
	return func(c *gin.Context) {
		identity := c.GetString(identityKey)
		if identity == "" {
			identity = c.ClientIP()
		}
		if !ls.allow(identity) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.NewErrorResponse(
				models.ErrCodeRateLimited,
				"rate limit exceeded, please slow down",
			))
			return
		}
		c.Next()
	}
}
