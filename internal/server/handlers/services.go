// Defines shared service dependencies for handlers.

package handlers

import (
	"time"

	"github.com/maruel/admindash/internal/server/ipgeo"
	"github.com/maruel/admindash/internal/storage"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
)

// Services holds all service dependencies for handlers.
type Services struct {
	User    *records.UserService
	Product *records.ProductService
	Account *identity.AccountService
	Session *identity.SessionService
	GeoIP   *ipgeo.Checker // may be nil
}

// Config holds configuration values needed by handlers.
type Config struct {
	storage.ServerConfig
	Version string
	// Now is the clock used for tokens and the dashboard. Defaults to time.Now.
	Now func() time.Time
	// OnLogin is called with "success" or "failure" after each login attempt.
	OnLogin func(result string)
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Config) onLogin(result string) {
	if c.OnLogin != nil {
		c.OnLogin(result)
	}
}
