// Package config loads runtime settings for the platecheck binaries from
// environment variables, with an optional .env file for local development.
// Every variable has a default so a bare environment still yields a working
// server; malformed numeric values are reported rather than silently
// defaulted.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"platecheck/internal/classify"
)

// Config carries the runtime settings for the server and CLI.
type Config struct {
	// ListenAddr is the address the web server binds to.
	ListenAddr string

	// AuthToken, when non-empty, enables bearer-token authentication on the
	// report endpoints.
	AuthToken string

	// RegistryURL and InspectionsURL are the default remote sources used
	// when a request does not upload files.
	RegistryURL    string
	InspectionsURL string

	// GreenMaxDays and YellowMaxDays are the default staleness thresholds.
	GreenMaxDays  int
	YellowMaxDays int

	// MaxUploadBytes caps the size of each uploaded source file.
	MaxUploadBytes int64

	// FetchTimeout is the per-request timeout for remote source downloads.
	FetchTimeout time.Duration

	// InsecureSkipVerify disables TLS verification on source downloads.
	InsecureSkipVerify bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     getEnv("PLATECHECK_LISTEN_ADDR", ":8080"),
		AuthToken:      os.Getenv("PLATECHECK_AUTH_TOKEN"),
		RegistryURL:    os.Getenv("PLATECHECK_REGISTRY_URL"),
		InspectionsURL: os.Getenv("PLATECHECK_INSPECTIONS_URL"),
	}

	var err error
	if cfg.GreenMaxDays, err = getInt("PLATECHECK_GREEN_MAX_DAYS", 7); err != nil {
		return Config{}, err
	}
	if cfg.YellowMaxDays, err = getInt("PLATECHECK_YELLOW_MAX_DAYS", 30); err != nil {
		return Config{}, err
	}
	maxUpload, err := getInt("PLATECHECK_MAX_UPLOAD_BYTES", 25<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)
	if cfg.FetchTimeout, err = getDuration("PLATECHECK_FETCH_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.InsecureSkipVerify, err = getBool("PLATECHECK_INSECURE_SKIP_VERIFY", false); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Thresholds returns the configured staleness thresholds, clamped into a
// consistent pair.
func (c Config) Thresholds() classify.Thresholds {
	t, _ := classify.Thresholds{GreenMax: c.GreenMaxDays, YellowMax: c.YellowMaxDays}.Clamp()
	return t
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration: %w", key, v, err)
	}
	return d, nil
}
