package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/StudyRAG/internal/config"
	"golang.org/x/time/rate"
)

const clientIdleTimeout = 10 * time.Minute

var limiterInstance = NewClientLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND, clientIdleTimeout)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter hands out one token bucket per client IP and forgets clients idle longer than idleTimeout.
type ClientLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientBucket
	limit       rate.Limit
	burst       int
	idleTimeout time.Duration
	lastSweep   time.Time
}

func NewClientLimiter(limit rate.Limit, burst int, idleTimeout time.Duration) *ClientLimiter {
	return &ClientLimiter{
		clients:     make(map[string]*clientBucket),
		limit:       limit,
		burst:       burst,
		idleTimeout: idleTimeout,
	}
}

func (c *ClientLimiter) Allow(ip string) bool {
	return c.allowAt(ip, time.Now())
}

func (c *ClientLimiter) allowAt(ip string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > c.idleTimeout {
		for key, b := range c.clients {
			if now.Sub(b.lastSeen) > c.idleTimeout {
				delete(c.clients, key)
			}
		}
		c.lastSweep = now
	}

	b, ok := c.clients[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (c *ClientLimiter) tracked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

//TODO: move the buckets to redis once more than one instance serves traffic
