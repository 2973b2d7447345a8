/*
Package config loads tool configuration.

RESOLUTION ORDER:
  1. Built-in defaults (local paths, production classification tables)
  2. Optional TOML file (-config flag)
  3. Environment overrides (TOWSTAT_DB, TOWSTAT_LISTEN, LOG_LEVEL)

The classification tables are configurable so a reporting change (a new
pickup code, a new hold code) is a config edit, not a rebuild. Omitted
table sections fall back to the production tables in towing.DefaultTables.
*/
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/citydot/towstat/towing"
)

type Config struct {
	// DB is the SQLite database holding both the custody extract and the
	// stats tables.
	DB string `toml:"db"`

	// Listen is the dashboard API bind address.
	Listen string `toml:"listen"`

	LogLevel string `toml:"log_level"`

	// Categories maps numeric code prefixes (as TOML keys) to category
	// names. Empty means DefaultTables.
	Categories map[string]string `toml:"categories"`

	// HoldCodes is the police-hold allow-list override.
	HoldCodes []string `toml:"hold_codes"`

	// DirtbikeTypes is the non-standard size-class override.
	DirtbikeTypes []string `toml:"dirtbike_types"`
}

func defaults() *Config {
	return &Config{
		DB:       "towstat.db",
		Listen:   ":8080",
		LogLevel: "info",
	}
}

// Load builds the effective configuration. path may be empty (no file).
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if v := os.Getenv("TOWSTAT_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("TOWSTAT_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// Tables converts the config overrides into classifier tables. Unset
// sections stay nil so the classifier falls back to its defaults.
func (c *Config) Tables() (towing.ClassifierTables, error) {
	var tables towing.ClassifierTables

	if len(c.Categories) > 0 {
		tables.Categories = make(map[int]towing.Category, len(c.Categories))
		// Sorted iteration so a bad key is reported deterministically.
		keys := make([]string, 0, len(c.Categories))
		for k := range c.Categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n, err := strconv.Atoi(k)
			if err != nil {
				return towing.ClassifierTables{}, fmt.Errorf("bad category key %q: %w", k, err)
			}
			tables.Categories[n] = towing.Category(c.Categories[k])
		}
	}
	if len(c.HoldCodes) > 0 {
		tables.HoldCodes = c.HoldCodes
	}
	if len(c.DirtbikeTypes) > 0 {
		tables.NonStandardTypes = c.DirtbikeTypes
	}
	return tables, nil
}
