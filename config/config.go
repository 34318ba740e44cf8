// Package config loads environment variables and provides a typed Config used across the job.
// It applies sensible defaults so the binary can run locally with minimal setup.
// Missing Twitch credentials are not fatal here; the token exchange fails explicitly instead.
package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
)

// DefaultRosterPath is used when ROSTER_PATH is unset.
const DefaultRosterPath = "streamers.xlsx"

// DefaultOutputPath is used when OUTPUT_PATH is unset.
const DefaultOutputPath = "live.json"

// DefaultCredentialsFile is the fallback JSON credentials file consulted when
// TWITCH_CLIENT_ID / TWITCH_CLIENT_SECRET are not both set.
const DefaultCredentialsFile = "twitch_credentials.json"

// Credentials is the Twitch app credential pair used for the
// client-credentials token exchange. Empty values are allowed; downstream
// authentication fails with a diagnostic rather than this package guessing.
type Credentials struct {
	ClientID     string `json:"twitch_client_id"`
	ClientSecret string `json:"twitch_client_secret"`
}

type Config struct {
	// Twitch
	Credentials Credentials

	// Input / output
	RosterPath string
	OutputPath string

	// Helix query rate limit (requests per second).
	HelixRPS float64

	// Optional Prometheus textfile export path (node_exporter textfile collector).
	MetricsTextfile string
}

// CredentialProvider yields a credential pair, reporting whether it produced
// a usable (both fields non-empty) result. Providers are tried in order;
// the first success wins.
type CredentialProvider func() (Credentials, bool)

// EnvProvider reads TWITCH_CLIENT_ID / TWITCH_CLIENT_SECRET.
func EnvProvider() (Credentials, bool) {
	c := Credentials{
		ClientID:     os.Getenv("TWITCH_CLIENT_ID"),
		ClientSecret: os.Getenv("TWITCH_CLIENT_SECRET"),
	}
	return c, c.ClientID != "" && c.ClientSecret != ""
}

// FileProvider reads the fallback JSON credentials file at path.
// A missing or malformed file is a miss, not an error.
func FileProvider(path string) CredentialProvider {
	return func() (Credentials, bool) {
		b, err := os.ReadFile(path)
		if err != nil {
			return Credentials{}, false
		}
		var c Credentials
		if err := json.Unmarshal(b, &c); err != nil {
			slog.Warn("credentials file is not valid JSON", slog.String("path", path), slog.Any("err", err))
			return Credentials{}, false
		}
		return c, c.ClientID != "" && c.ClientSecret != ""
	}
}

// ResolveCredentials walks providers in order and returns the first usable
// pair. When none succeeds it returns empty Credentials and logs a warning;
// the run proceeds and the token exchange produces the real failure.
func ResolveCredentials(providers ...CredentialProvider) Credentials {
	for _, p := range providers {
		if c, ok := p(); ok {
			return c
		}
	}
	slog.Warn("no twitch credentials found in env or credentials file; token exchange will fail")
	return Credentials{}
}

// Load reads environment variables and applies defaults. It never fails on
// missing credentials; it only errors on values that cannot be parsed.
func Load() (*Config, error) {
	cfg := &Config{}

	credFile := os.Getenv("TWITCH_CREDENTIALS_FILE")
	if credFile == "" {
		credFile = DefaultCredentialsFile
	}
	cfg.Credentials = ResolveCredentials(EnvProvider, FileProvider(credFile))

	cfg.RosterPath = os.Getenv("ROSTER_PATH")
	if cfg.RosterPath == "" {
		cfg.RosterPath = DefaultRosterPath
	}

	cfg.OutputPath = os.Getenv("OUTPUT_PATH")
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}

	cfg.HelixRPS = 5
	if v := os.Getenv("HELIX_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			slog.Warn("invalid HELIX_RPS, using default", slog.String("value", v))
		} else {
			cfg.HelixRPS = f
		}
	}

	cfg.MetricsTextfile = os.Getenv("METRICS_TEXTFILE")

	return cfg, nil
}
