package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadServerConfig(t *testing.T) {
	t.Run("CreatesDefaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadServerConfig(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(cfg.JWTSecret) != 32 {
			t.Errorf("JWTSecret has %d bytes, want 32", len(cfg.JWTSecret))
		}
		if cfg.Quotas != DefaultServerQuotas() {
			t.Errorf("Quotas = %+v", cfg.Quotas)
		}
		if cfg.Pagination != DefaultPagination() {
			t.Errorf("Pagination = %+v", cfg.Pagination)
		}
		if cfg.TrustProxyHeaders {
			t.Error("TrustProxyHeaders must default to false")
		}
		info, err := os.Stat(filepath.Join(dir, "server_config.json"))
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("perm = %o, want 600", perm)
		}

		// The secret is stable across loads.
		again, err := LoadServerConfig(dir)
		if err != nil {
			t.Fatal(err)
		}
		if string(again.JWTSecret) != string(cfg.JWTSecret) {
			t.Error("JWT secret changed on reload")
		}
	})

	t.Run("PartialFileKeepsDefaults", func(t *testing.T) {
		dir := t.TempDir()
		data := `{"pagination":{"default_limit":20,"max_limit":50},"cors":{"allowed_origins":["http://localhost:5173"]}}`
		if err := os.WriteFile(filepath.Join(dir, "server_config.json"), []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadServerConfig(dir)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Pagination.DefaultLimit != 20 || cfg.Pagination.MaxLimit != 50 {
			t.Errorf("Pagination = %+v", cfg.Pagination)
		}
		if cfg.RateLimits != DefaultRateLimits() {
			t.Errorf("RateLimits = %+v", cfg.RateLimits)
		}
		if len(cfg.CORS.AllowedOrigins) != 1 {
			t.Errorf("CORS = %+v", cfg.CORS)
		}
		// The generated secret was written back.
		raw, err := os.ReadFile(filepath.Join(dir, "server_config.json"))
		if err != nil {
			t.Fatal(err)
		}
		var saved ServerConfig
		if err := json.Unmarshal(raw, &saved); err != nil {
			t.Fatal(err)
		}
		if len(saved.JWTSecret) != 32 {
			t.Error("secret not saved")
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			name string
			data string
			want string
		}{
			{"syntax", `{`, "failed to parse"},
			{"pagination", `{"pagination":{"default_limit":20,"max_limit":5}}`, "max_limit"},
			{"rate", `{"rate_limits":{"auth_rate_per_min":-1}}`, "auth_rate_per_min"},
			{"body", `{"quotas":{"max_request_body_bytes":0}}`, "max_request_body_bytes"},
			{"short secret", `{"jwt_secret":"c2hvcnQ="}`, "at least 32 bytes"},
			{"origin", `{"cors":{"allowed_origins":[""]}}`, "allowed_origins"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				if err := os.WriteFile(filepath.Join(dir, "server_config.json"), []byte(tt.data), 0o600); err != nil {
					t.Fatal(err)
				}
				_, err := LoadServerConfig(dir)
				if err == nil || !strings.Contains(err.Error(), tt.want) {
					t.Errorf("err = %v, want containing %q", err, tt.want)
				}
			})
		}
	})
}
