package testsvc

import (
	"os"
	"strconv"
)

// Config holds client-level settings for the Test Service API.
// Credentials (organization URL, personal access token) are per-user and
// passed to NewClient separately.
type Config struct {
	// TimeoutMs bounds every single remote call. There is no retry policy:
	// failures are reported once.
	TimeoutMs int
	// MaxInFlight caps concurrent suite fetches during a recursive
	// hierarchy walk.
	MaxInFlight int
	// DisableFlatList forces the recursive hierarchy fetcher even when the
	// flat suite listing would be available.
	DisableFlatList bool
	// LogCalls enables the call log observer.
	LogCalls bool
	// APIVersion is appended to every request as the api-version parameter.
	APIVersion string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeoutMs:   30000,
		MaxInFlight: 16,
		APIVersion:  "7.1",
	}
}

// LoadConfig reads Test Service configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CASELINE_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CASELINE_API_MAX_IN_FLIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxInFlight = n
		}
	}
	if v := os.Getenv("CASELINE_API_NO_FLAT"); v != "" {
		cfg.DisableFlatList, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CASELINE_API_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CASELINE_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}

	return cfg
}
