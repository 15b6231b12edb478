// Manages server configuration stored in server_config.json.

package storage

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ServerConfig stores all server-wide configuration.
// Loaded from server_config.json, created with defaults if missing.
type ServerConfig struct {
	// JWTSecret is the secret used to sign JWT tokens.
	// Auto-generated if empty on first load.
	JWTSecret []byte `json:"jwt_secret"`

	// Quotas defines server-wide resource limits.
	Quotas ServerQuotas `json:"quotas"`

	// RateLimits defines rate limiting configuration.
	RateLimits RateLimits `json:"rate_limits"`

	// Pagination defines list page sizes.
	Pagination Pagination `json:"pagination"`

	// CORS defines cross-origin access. No origins disables CORS headers.
	CORS CORS `json:"cors"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For or X-Real-IP.
	// Only enable it behind a reverse proxy that overwrites these headers.
	TrustProxyHeaders bool `json:"trust_proxy_headers"`
}

// RateLimits defines rate limiting configuration (requests per minute).
type RateLimits struct {
	// AuthRatePerMin limits login attempts.
	// 0 means unlimited.
	AuthRatePerMin int `json:"auth_rate_per_min"`

	// WriteRatePerMin limits write operations (POST/PATCH/DELETE).
	// 0 means unlimited.
	WriteRatePerMin int `json:"write_rate_per_min"`

	// ReadAuthRatePerMin limits authenticated read operations.
	// 0 means unlimited.
	ReadAuthRatePerMin int `json:"read_auth_rate_per_min"`

	// ReadUnauthRatePerMin limits unauthenticated read operations.
	// 0 means unlimited.
	ReadUnauthRatePerMin int `json:"read_unauth_rate_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.AuthRatePerMin < 0 {
		return errors.New("auth_rate_per_min must be non-negative")
	}
	if r.WriteRatePerMin < 0 {
		return errors.New("write_rate_per_min must be non-negative")
	}
	if r.ReadAuthRatePerMin < 0 {
		return errors.New("read_auth_rate_per_min must be non-negative")
	}
	if r.ReadUnauthRatePerMin < 0 {
		return errors.New("read_unauth_rate_per_min must be non-negative")
	}
	return nil
}

// DefaultRateLimits returns the default rate limits.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		AuthRatePerMin:       5,     // 5 req/min for login
		WriteRatePerMin:      60,    // 60 req/min for writes
		ReadAuthRatePerMin:   30000, // 30k req/min for authenticated reads
		ReadUnauthRatePerMin: 6000,  // 6k req/min for unauthenticated reads
	}
}

// ServerQuotas defines server-wide resource limits.
type ServerQuotas struct {
	// MaxRequestBodyBytes limits the size of any single HTTP request body.
	MaxRequestBodyBytes int64 `json:"max_request_body_bytes"`

	// MaxSessionsPerAccount limits active sessions per account.
	// 0 means unlimited.
	MaxSessionsPerAccount int `json:"max_sessions_per_account"`
}

// Validate checks that all quota values are in range.
func (q *ServerQuotas) Validate() error {
	if q.MaxRequestBodyBytes <= 0 {
		return errors.New("max_request_body_bytes must be positive")
	}
	if q.MaxSessionsPerAccount < 0 {
		return errors.New("max_sessions_per_account must be non-negative")
	}
	return nil
}

// DefaultServerQuotas returns the default server-wide quotas.
func DefaultServerQuotas() ServerQuotas {
	return ServerQuotas{
		MaxRequestBodyBytes:   1024 * 1024, // 1 MiB
		MaxSessionsPerAccount: 10,
	}
}

// Pagination defines list page sizes.
type Pagination struct {
	// DefaultLimit is the page size when the request has none.
	DefaultLimit int `json:"default_limit"`
	// MaxLimit caps the requested page size.
	MaxLimit int `json:"max_limit"`
}

// Validate checks that 1 <= DefaultLimit <= MaxLimit.
func (p *Pagination) Validate() error {
	if p.DefaultLimit < 1 {
		return errors.New("default_limit must be positive")
	}
	if p.MaxLimit < p.DefaultLimit {
		return errors.New("max_limit must be at least default_limit")
	}
	return nil
}

// DefaultPagination returns the default page sizes.
func DefaultPagination() Pagination {
	return Pagination{DefaultLimit: 10, MaxLimit: 100}
}

// CORS defines cross-origin access.
type CORS struct {
	// AllowedOrigins lists the origins allowed to call the API, e.g.
	// "http://localhost:5173". "*" allows any origin.
	AllowedOrigins []string `json:"allowed_origins"`
}

// Validate checks that no origin is blank.
func (c *CORS) Validate() error {
	for _, o := range c.AllowedOrigins {
		if o == "" {
			return errors.New("allowed_origins must not contain empty values")
		}
	}
	return nil
}

// DefaultServerConfig returns a configuration with defaults and no secret.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Quotas:     DefaultServerQuotas(),
		RateLimits: DefaultRateLimits(),
		Pagination: DefaultPagination(),
		CORS:       CORS{AllowedOrigins: []string{}},
	}
}

// Validate checks that the configuration is valid.
func (c *ServerConfig) Validate() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("jwt_secret is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 bytes")
	}
	if err := c.Quotas.Validate(); err != nil {
		return fmt.Errorf("quotas: %w", err)
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.CORS.Validate(); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// LoadServerConfig loads configuration from dataDir/server_config.json.
// Creates the file with defaults if it doesn't exist.
// Auto-generates JWTSecret if empty.
func LoadServerConfig(dataDir string) (*ServerConfig, error) {
	path := filepath.Join(dataDir, "server_config.json")

	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read server_config.json: %w", err)
		}
		// File doesn't exist, will create with defaults
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse server_config.json: %w", err)
		}
	}

	// Auto-generate JWT secret if missing
	modified := false
	if len(cfg.JWTSecret) == 0 {
		cfg.JWTSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.JWTSecret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		modified = true
	}

	// Save if we created defaults or generated a secret
	if modified || errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server_config.json: %w", err)
	}
	return &cfg, nil
}

// Save saves configuration to dataDir/server_config.json.
func (c *ServerConfig) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dataDir, "server_config.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write server_config.json: %w", err)
	}
	return nil
}
