package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-profilefields/pkg/field"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PROFILEFIELDS_ADDR",
		"PROFILEFIELDS_DB",
		"PROFILEFIELDS_FIXTURES",
		"PROFILEFIELDS_TEMPLATES",
		"PROFILEFIELDS_LOCALE",
		"PROFILEFIELDS_PATTERN_MODE",
		"PROFILEFIELDS_VERBOSE",
	} {
		t.Setenv(key, "")
	}

	want := &Config{
		Addr:        ":8080",
		Locale:      "en",
		PatternMode: field.PatternLastWins,
	}
	if diff := cmp.Diff(want, Load(nil)); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PROFILEFIELDS_ADDR", "127.0.0.1:9000")
	t.Setenv("PROFILEFIELDS_DB", "file:profile.db")
	t.Setenv("PROFILEFIELDS_FIXTURES", "./fixtures")
	t.Setenv("PROFILEFIELDS_TEMPLATES", "./templates")
	t.Setenv("PROFILEFIELDS_LOCALE", "es")
	t.Setenv("PROFILEFIELDS_PATTERN_MODE", "all")
	t.Setenv("PROFILEFIELDS_VERBOSE", "true")

	want := &Config{
		Addr:         "127.0.0.1:9000",
		DatabaseDSN:  "file:profile.db",
		FixturesDir:  "./fixtures",
		TemplatesDir: "./templates",
		Locale:       "es",
		PatternMode:  field.PatternAll,
		Verbose:      true,
	}
	if diff := cmp.Diff(want, Load(nil)); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PROFILEFIELDS_PATTERN_MODE", "sometimes")
	t.Setenv("PROFILEFIELDS_VERBOSE", "loud")

	core, logs := observer.New(zap.WarnLevel)
	cfg := Load(zap.New(core))

	if cfg.PatternMode != field.PatternLastWins || cfg.Verbose {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if logs.Len() != 2 {
		t.Fatalf("expected two warnings, got %d", logs.Len())
	}
}
