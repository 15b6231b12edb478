// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net/http"
	"time"

	"github.com/maruel/admindash/internal/storage"
)

// Scope defines how rate limit keys are determined.
type Scope int

const (
	// ScopeIP uses client IP address as the rate limit key.
	ScopeIP Scope = iota
	// ScopeAccount uses the authenticated account ID as the rate limit key.
	ScopeAccount
)

// Tier defines a rate limit tier with its limiter and scope.
type Tier struct {
	Name    string
	Limiter *Limiter
	Scope   Scope
}

// Config holds rate limiters for different tiers. A nil tier is unlimited.
type Config struct {
	Auth       *Tier
	Write      *Tier
	ReadAuth   *Tier // authenticated read
	ReadUnauth *Tier // unauthenticated read
}

// NewConfig creates the tiers from server configuration:
//   - Auth: login attempts, IP scope, burst equal to the per-minute rate
//   - Write: POST/PATCH/DELETE, account scope
//   - Read (auth): account scope
//   - Read (unauth): IP scope.
//
// Non-auth tiers allow a burst of a sixth of their per-minute rate.
func NewConfig(limits storage.RateLimits) *Config {
	return &Config{
		Auth:       newTier("auth", limits.AuthRatePerMin, limits.AuthRatePerMin, ScopeIP),
		Write:      newTier("write", limits.WriteRatePerMin, limits.WriteRatePerMin/6, ScopeAccount),
		ReadAuth:   newTier("read", limits.ReadAuthRatePerMin, limits.ReadAuthRatePerMin/6, ScopeAccount),
		ReadUnauth: newTier("read", limits.ReadUnauthRatePerMin, limits.ReadUnauthRatePerMin/6, ScopeIP),
	}
}

func newTier(name string, perMin, burst int, scope Scope) *Tier {
	if perMin <= 0 {
		return nil
	}
	return &Tier{Name: name, Limiter: NewLimiter(perMin, time.Minute, burst), Scope: scope}
}

// exempt returns true for paths that are never rate limited.
func exempt(path string) bool {
	return path == "/api/health" || path == "/metrics"
}

// MatchUnauth returns the tier for unauthenticated requests.
// Returns nil for paths that should not be rate limited.
func (c *Config) MatchUnauth(method, path string) *Tier {
	switch {
	case exempt(path):
		return nil
	case method == http.MethodPost && path == "/api/auth/login":
		return c.Auth
	case method == http.MethodGet:
		return c.ReadUnauth
	}
	return nil
}

// MatchAuth returns the tier for authenticated requests.
// Returns nil for paths that should not be rate limited.
func (c *Config) MatchAuth(method, path string) *Tier {
	if exempt(path) {
		return nil
	}
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return c.Write
	case http.MethodGet:
		return c.ReadAuth
	}
	return nil
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	for _, t := range []*Tier{c.Auth, c.Write, c.ReadAuth, c.ReadUnauth} {
		if t != nil {
			t.Limiter.Close()
		}
	}
}
