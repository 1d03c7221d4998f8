// Package config provides environment-based configuration for the
// profilefields binary. Values are read from PROFILEFIELDS_* variables;
// command-line flags override them.
package config

import (
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-profilefields/pkg/field"
)

// Config holds the binary's settings.
type Config struct {
	// Addr is the HTTP listen address. Default: :8080.
	Addr string

	// DatabaseDSN is a sqlite DSN. When set it takes precedence over
	// FixturesDir.
	DatabaseDSN string

	// FixturesDir seeds an in-memory store from JSON/YAML fixture files.
	FixturesDir string

	// TemplatesDir overrides the embedded admin templates with files on disk.
	TemplatesDir string

	// Locale is the default message locale. Default: en.
	Locale string

	// PatternMode selects how multiple validation patterns combine.
	PatternMode field.PatternMode

	// Verbose enables debug logging.
	Verbose bool
}

// Load reads configuration from the environment. Invalid values are reported
// on logger and replaced by their defaults.
func Load(logger *zap.Logger) *Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Config{
		Addr:         getEnv("PROFILEFIELDS_ADDR", ":8080"),
		DatabaseDSN:  getEnv("PROFILEFIELDS_DB", ""),
		FixturesDir:  getEnv("PROFILEFIELDS_FIXTURES", ""),
		TemplatesDir: getEnv("PROFILEFIELDS_TEMPLATES", ""),
		Locale:       getEnv("PROFILEFIELDS_LOCALE", "en"),
		PatternMode:  getEnvPatternMode(logger, "PROFILEFIELDS_PATTERN_MODE", field.PatternLastWins),
		Verbose:      getEnvBool(logger, "PROFILEFIELDS_VERBOSE", false),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(logger *zap.Logger, key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		logger.Warn("invalid boolean for env var, using default",
			zap.String("key", key),
			zap.String("value", val),
			zap.Bool("default", defaultVal),
			zap.Error(err),
		)
		return defaultVal
	}
	return b
}

func getEnvPatternMode(logger *zap.Logger, key string, defaultVal field.PatternMode) field.PatternMode {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	mode, err := field.ParsePatternMode(val)
	if err != nil {
		logger.Warn("invalid pattern mode for env var, using default",
			zap.String("key", key),
			zap.String("value", val),
			zap.Stringer("default", defaultVal),
			zap.Error(err),
		)
		return defaultVal
	}
	return mode
}
