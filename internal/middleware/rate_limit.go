package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	rateLimitPerSecond = 5
	rateLimitBurst     = 10
	limiterIdleTTL     = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimitStore struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

func newRateLimitStore() *rateLimitStore {
	s := &rateLimitStore{limiters: make(map[string]*ipLimiter)}
	go s.cleanupLoop()
	return s
}

func (s *rateLimitStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rateLimitPerSecond, rateLimitBurst)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (s *rateLimitStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for ip, entry := range s.limiters {
			if time.Since(entry.lastSeen) > limiterIdleTTL {
				delete(s.limiters, ip)
			}
		}
		s.mu.Unlock()
	}
}

var authLimiters = newRateLimitStore()

// RateLimitMiddleware throttles requests per client IP. Used on the auth
// endpoints to slow down credential stuffing.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authLimiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
