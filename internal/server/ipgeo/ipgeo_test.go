package ipgeo

import (
	"path/filepath"
	"testing"
)

func TestCountryCode(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", Local},
		{"::1", "local"},
		{"::ffff:127.0.0.1", "local"},
		{"10.0.0.1", "local"},
		{"192.168.1.1", "local"},
		{"172.16.0.1", "local"},
		{"0.0.0.0", "local"},
		{"169.254.1.1", "local"},
		{"fe80::1", "local"},
		{"100.64.0.1", Tailscale},
		{"100.127.255.254", "tailscale"},
		// Public addresses need a database.
		{"100.128.0.0", ""},
		{"8.8.8.8", ""},
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, c := range []*Checker{nil, {}} {
		for _, tt := range tests {
			if got := c.CountryCode(tt.ip); got != tt.want {
				t.Errorf("CountryCode(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		}
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Error("Open succeeded on a missing file")
	}
	var c *Checker
	if err := c.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
	if dbType, built := c.Describe(); dbType != "" || !built.IsZero() {
		t.Errorf("nil Describe() = %q, %v", dbType, built)
	}
}
