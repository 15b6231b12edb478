// Package ipgeo provides IP-to-country geolocation using MaxMind MMDB files.
package ipgeo

import (
	"net/netip"
	"time"

	"github.com/oschwald/maxminddb-golang/v2"
)

// Checker resolves IP addresses to ISO 3166-1 alpha-2 country codes.
//
// A nil *Checker is valid: it classifies local and Tailscale addresses and
// returns "" for everything else.
type Checker struct {
	reader *maxminddb.Reader
}

// Open opens an MMDB file for country lookups.
func Open(dbPath string) (*Checker, error) {
	r, err := maxminddb.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Checker{reader: r}, nil
}

// Close releases the MMDB reader resources.
func (c *Checker) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// countryRecord is the minimal struct for MMDB country lookups.
type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Labels returned for addresses that never reach the database.
const (
	Local     = "local"
	Tailscale = "tailscale"
)

// tailscalePrefix is the Tailscale CGNAT range 100.64.0.0/10.
var tailscalePrefix = netip.MustParsePrefix("100.64.0.0/10")

// classify labels addresses that are not routable on the internet.
func classify(addr netip.Addr) string {
	switch {
	case addr.IsLoopback(), addr.IsPrivate(), addr.IsUnspecified(), addr.IsLinkLocalUnicast():
		return Local
	case tailscalePrefix.Contains(addr):
		return Tailscale
	}
	return ""
}

// CountryCode returns the ISO 3166-1 alpha-2 country code for the given IP
// string, Local or Tailscale for non-routable addresses, and "" when the
// address is unparsable, unknown, or no database is loaded.
func (c *Checker) CountryCode(ipStr string) string {
	addr, err := netip.ParseAddr(ipStr)
	if err != nil {
		return ""
	}
	addr = addr.Unmap()
	if label := classify(addr); label != "" {
		return label
	}
	if c == nil || c.reader == nil {
		return ""
	}
	var rec countryRecord
	if err := c.reader.Lookup(addr).Decode(&rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Describe returns the database type and build time, for the startup log.
func (c *Checker) Describe() (dbType string, built time.Time) {
	if c == nil || c.reader == nil {
		return "", time.Time{}
	}
	m := c.reader.Metadata
	return m.DatabaseType, time.Unix(int64(m.BuildEpoch), 0).UTC() //nolint:gosec // epoch fits in int64
}
