package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for knobs not set through the environment.
const (
	DefaultPort      = 4900
	DefaultCacheSize = 256
	DefaultDebounce  = 300 * time.Millisecond
)

// Config carries the environment-tunable settings of the serving
// commands.
type Config struct {
	// Port is the default HTTP port for watch and edit servers.
	Port int
	// CacheSize bounds the fragment cache, in parsed files.
	CacheSize int
	// Debounce is how long to wait after a file event before
	// re-unfurling, absorbing editor save bursts.
	Debounce time.Duration
}

// Load reads configuration from a .env file when one exists, then from
// environment variables, falling back to defaults. Unparsable values
// fall back silently; a broken environment should not keep the tool
// from starting.
func Load() Config {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Config{
		Port:      DefaultPort,
		CacheSize: DefaultCacheSize,
		Debounce:  DefaultDebounce,
	}

	// 2. Override with environment variables if present
	if port, ok := intEnv("UNFURL_PORT"); ok && port > 0 {
		cfg.Port = port
	}
	if size, ok := intEnv("UNFURL_CACHE_SIZE"); ok && size > 0 {
		cfg.CacheSize = size
	}
	if ms, ok := intEnv("UNFURL_DEBOUNCE_MS"); ok && ms >= 0 {
		cfg.Debounce = time.Duration(ms) * time.Millisecond
	}

	return cfg
}

func intEnv(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
