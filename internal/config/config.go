// Package config loads runtime configuration from defaults, an optional
// YAML file and LEDGER_-prefixed environment variables, in that order of
// precedence (later layers win). Environment variables use double
// underscores as the key separator, e.g. LEDGER_STORE__DRIVER.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LEDGER_"

// Config carries all runtime settings.
type Config struct {
	// StoreDriver selects the store implementation: "memory" or "sqlite".
	StoreDriver string
	// StorePath is the SQLite database file, ignored by the memory driver.
	StorePath string
	// ImportBatchLimit caps write operations per import batch.
	ImportBatchLimit int
	// SettingsReadTimeout bounds settings reads before falling back to
	// defaults.
	SettingsReadTimeout time.Duration
	// LogLevel is a logrus level name.
	LogLevel string
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"store.driver":          "sqlite",
		"store.path":            "expense-ledger.db",
		"import.batch_limit":    400,
		"settings.read_timeout": "5s",
		"log.level":             "info",
	}
}

// Load reads configuration. filePath may be empty to skip the file layer.
func Load(filePath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if filePath != "" {
		if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{
		StoreDriver:         k.String("store.driver"),
		StorePath:           k.String("store.path"),
		ImportBatchLimit:    k.Int("import.batch_limit"),
		SettingsReadTimeout: k.Duration("settings.read_timeout"),
		LogLevel:            k.String("log.level"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}
	if c.StoreDriver == "sqlite" && c.StorePath == "" {
		return fmt.Errorf("config: store path required for sqlite driver")
	}
	if c.ImportBatchLimit <= 0 {
		return fmt.Errorf("config: import batch limit must be positive")
	}
	if c.SettingsReadTimeout <= 0 {
		return fmt.Errorf("config: settings read timeout must be positive")
	}
	return nil
}
