package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envPrefix is prepended to every environment variable read by the server.
const envPrefix = "ADMINDASH_"

// envConfig holds the settings that can come from the environment or the
// .env file in the data directory.
type envConfig struct {
	HTTP         string `env:"HTTP"`
	LogLevel     string `env:"LOG_LEVEL"`
	GeoDB        string `env:"GEO_DB"`
	Seed         string `env:"SEED"`
	DemoEmail    string `env:"DEMO_EMAIL"`
	DemoPassword string `env:"DEMO_PASSWORD"`
}

// parseEnv merges the .env values with the process environment, the latter
// winning, and decodes the result. Keys in dotenv may omit the prefix.
func parseEnv(dotenv map[string]string, environ []string) (*envConfig, error) {
	merged := make(map[string]string, len(dotenv)+len(environ))
	for k, v := range dotenv {
		if !strings.HasPrefix(k, envPrefix) {
			k = envPrefix + k
		}
		merged[k] = v
	}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, envPrefix) {
			merged[k] = v
		}
	}
	cfg, err := env.ParseAsWithOptions[envConfig](env.Options{
		Prefix:      envPrefix,
		Environment: merged,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv reads dataDir/.env. A missing file yields an empty map.
func loadDotEnv(dataDir string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, ".env")) //nolint:gosec // G304: path is constructed from dataDir flag, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return parseDotEnv(string(data))
}

func parseDotEnv(content string) (map[string]string, error) {
	out := make(map[string]string)
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		if strings.HasPrefix(val, "'") || strings.HasSuffix(val, "'") {
			if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
				return nil, fmt.Errorf("single quotes are not supported for wrapping in .env: %s", line)
			}
			return nil, fmt.Errorf("unbalanced single quotes in .env: %s", line)
		}
		if strings.HasPrefix(val, "\"") {
			unquoted, err := strconv.Unquote(val)
			if err != nil {
				return nil, fmt.Errorf("failed to unquote %s: %w", key, err)
			}
			val = unquoted
		}
		out[key] = val
	}
	return out, nil
}
