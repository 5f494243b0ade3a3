package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `json:"listen_addr"`
	Debug      bool   `json:"debug"`

	// Directories
	DataDirectory string `json:"data_directory"`

	// Upstream market data source
	MarketBaseURL   string        `json:"market_base_url"`
	MarketTimeout   time.Duration `json:"market_timeout"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	MockCacheTTL    time.Duration `json:"mock_cache_ttl"`
	RefreshSchedule string        `json:"refresh_schedule"`

	// Advisor
	GeminiAPIKey string `json:"-"`
	GeminiModel  string `json:"gemini_model"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:      ":8000",
		Debug:           false,
		DataDirectory:   filepath.Join(wd, "data"),
		MarketBaseURL:   "https://www.nseindia.com/api",
		MarketTimeout:   15 * time.Second,
		CacheTTL:        5 * time.Minute,
		MockCacheTTL:    time.Minute,
		RefreshSchedule: "@every 5m",
		GeminiModel:     "gemini-2.0-flash",
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := DefaultConfig()

	if addr := os.Getenv("FINANCER_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("FINANCER_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if dataDir := os.Getenv("FINANCER_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}
	if base := os.Getenv("FINANCER_MARKET_URL"); base != "" {
		cfg.MarketBaseURL = base
	}
	if ttl := os.Getenv("FINANCER_CACHE_TTL_SECONDS"); ttl != "" {
		if secs, err := strconv.Atoi(ttl); err == nil && secs > 0 {
			cfg.CacheTTL = time.Duration(secs) * time.Second
		}
	}
	if sched := os.Getenv("FINANCER_REFRESH_SCHEDULE"); sched != "" {
		cfg.RefreshSchedule = sched
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}
	if model := os.Getenv("FINANCER_GEMINI_MODEL"); model != "" {
		cfg.GeminiModel = model
	}

	cfg.ensureDirectories()

	return cfg
}

// ensureDirectories creates required directories if they don't exist
func (c *Config) ensureDirectories() {
	if err := os.MkdirAll(c.DataDirectory, 0755); err != nil {
		logrus.WithError(err).Warnf("could not create directory %s", c.DataDirectory)
	}
}
