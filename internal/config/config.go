// Package config reads the engine's optional TOML configuration file,
// decoded into struct-tag-mapped fields with github.com/BurntSushi/toml.
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the top-level TOML document. Every field is optional; zero
// values fall back to the engine's built-in defaults.
type Config struct {
	Workers int      `toml:"workers"`
	Queries []string `toml:"queries"`
	Format  string   `toml:"format"`
	DSN     string   `toml:"dsn"`
}

// Default returns a Config with every field at its built-in default:
// GOMAXPROCS workers, every registered query, human output, no DSN.
func Default() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		Format:  "human",
	}
}

// Load reads the file at path and merges it over Default(). A missing
// path is not an error: ssbd runs with defaults when no config file is
// given.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	return Parse(f, cfg)
}

// Parse decodes TOML content from r over base, returning the merged
// result. An absent or zero workers/format field keeps base's value;
// Queries and DSN treat nil/"" as unset naturally.
func Parse(r io.Reader, base Config) (Config, error) {
	cfg := base
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = base.Workers
	}
	if cfg.Format == "" {
		cfg.Format = base.Format
	}
	return cfg, nil
}
