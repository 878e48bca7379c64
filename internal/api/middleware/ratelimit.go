package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/agrilink/messaging/internal/metrics"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RPS       float64  // steady-state requests per second per client
	Burst     int      // burst allowance; defaults to 2x RPS
	Whitelist []string // IPs or CIDRs exempt from rate limiting
}

// RateLimiter applies a per-client token bucket. The UI prototype has no
// accounts, so clients are keyed by IP.
type RateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientLimiter
	limit        rate.Limit
	burst        int
	logger       zerolog.Logger
	whitelist    []*net.IPNet
	whitelistIPs map[string]bool
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// staleAfter is how long an idle client entry is kept before eviction.
const staleAfter = 10 * time.Minute

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(logger zerolog.Logger, cfg RateLimiterConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(cfg.RPS * 2)
		if burst < 1 {
			burst = 1
		}
	}

	rl := &RateLimiter{
		clients:      make(map[string]*clientLimiter),
		limit:        rate.Limit(cfg.RPS),
		burst:        burst,
		logger:       logger,
		whitelistIPs: make(map[string]bool),
	}

	// Parse whitelist entries
	for _, entry := range cfg.Whitelist {
		if strings.Contains(entry, "/") {
			// CIDR notation
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				logger.Warn().Str("entry", entry).Err(err).Msg("invalid CIDR in whitelist")
				continue
			}
			rl.whitelist = append(rl.whitelist, ipNet)
		} else {
			// Single IP
			rl.whitelistIPs[entry] = true
		}
	}

	if len(cfg.Whitelist) > 0 {
		logger.Info().
			Int("ips", len(rl.whitelistIPs)).
			Int("cidrs", len(rl.whitelist)).
			Msg("rate limit whitelist configured")
	}

	return rl
}

// Middleware enforces the per-client limit.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if rl.isWhitelisted(ip) {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.limiterFor(ip).Allow() {
			// Same label shape as the HTTP metrics: conversation ids are
			// collapsed to keep cardinality bounded.
			metrics.RateLimitHits.WithLabelValues(r.Method + " " + normalizePath(r.URL.Path)).Inc()
			rl.logger.Warn().
				Str("ip", ip).
				Str("path", r.URL.Path).
				Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// limiterFor returns the token bucket for a client, evicting stale entries
// opportunistically.
func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if len(rl.clients) > 1024 {
		for key, c := range rl.clients {
			if now.Sub(c.lastSeen) > staleAfter {
				delete(rl.clients, key)
			}
		}
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// isWhitelisted checks if an IP is in the whitelist.
func (rl *RateLimiter) isWhitelisted(ipStr string) bool {
	// Check exact IP match
	if rl.whitelistIPs[ipStr] {
		return true
	}

	// Check CIDR ranges
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, ipNet := range rl.whitelist {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP extracts the client address, set earlier by chi's RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
