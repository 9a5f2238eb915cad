package config

import (
	"testing"
	"time"
)

/*
TestLoad_Defaults verifies that a bare environment yields the documented
defaults.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.GreenMaxDays != 7 || cfg.YellowMaxDays != 30 {
		t.Fatalf("thresholds = %d/%d, want 7/30", cfg.GreenMaxDays, cfg.YellowMaxDays)
	}
	if cfg.MaxUploadBytes != 25<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Fatalf("FetchTimeout = %v", cfg.FetchTimeout)
	}
}

/*
TestLoad_Overrides verifies that each variable is read from the environment
and that malformed numbers are reported as errors.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PLATECHECK_LISTEN_ADDR", ":9999")
	t.Setenv("PLATECHECK_AUTH_TOKEN", "secret")
	t.Setenv("PLATECHECK_GREEN_MAX_DAYS", "14")
	t.Setenv("PLATECHECK_YELLOW_MAX_DAYS", "60")
	t.Setenv("PLATECHECK_FETCH_TIMEOUT", "90s")
	t.Setenv("PLATECHECK_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" || cfg.AuthToken != "secret" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.GreenMaxDays != 14 || cfg.YellowMaxDays != 60 {
		t.Fatalf("thresholds = %d/%d", cfg.GreenMaxDays, cfg.YellowMaxDays)
	}
	if cfg.FetchTimeout != 90*time.Second {
		t.Fatalf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if !cfg.InsecureSkipVerify {
		t.Fatalf("InsecureSkipVerify = false, want true")
	}

	t.Setenv("PLATECHECK_GREEN_MAX_DAYS", "seven")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-integer threshold")
	}
}

/*
TestThresholds_ClampsInvertedPair verifies that the config-level accessor
returns a consistent pair even when the environment inverts the thresholds.
*/
func TestThresholds_ClampsInvertedPair(t *testing.T) {
	t.Setenv("PLATECHECK_GREEN_MAX_DAYS", "60")
	t.Setenv("PLATECHECK_YELLOW_MAX_DAYS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	th := cfg.Thresholds()
	if th.YellowMax < th.GreenMax {
		t.Fatalf("thresholds not clamped: %+v", th)
	}
}
