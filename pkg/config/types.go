package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent spool configuration stored as config.toml
// in the .spool/ directory. The TOML layout uses sections for logical
// grouping.
type Config struct {
	Version int           `toml:"version"`
	Split   SplitConfig   `toml:"split"`
	Convert ConvertConfig `toml:"convert"`
	Batch   BatchConfig   `toml:"batch"`
}

// SplitConfig holds bulk-export splitting settings.
type SplitConfig struct {
	// OutputDir is where per-conversation JSON files are written.
	OutputDir string `toml:"output_dir,omitempty"`

	// IndexDB, when set, mirrors index.json into a SQLite database.
	IndexDB string `toml:"index_db,omitempty"`
}

// ConvertConfig holds markdown conversion settings.
type ConvertConfig struct {
	// OutputDir is where batch runs place generated documents.
	OutputDir string `toml:"output_dir,omitempty"`
}

// BatchConfig holds batch driver settings.
type BatchConfig struct {
	Workers uint   `toml:"workers,omitempty"`
	LogFile string `toml:"log_file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"split.output_dir": {
		get: func(c *Config) string { return c.Split.OutputDir },
		set: func(c *Config, v string) error { c.Split.OutputDir = v; return nil },
	},
	"split.index_db": {
		get: func(c *Config) string { return c.Split.IndexDB },
		set: func(c *Config, v string) error { c.Split.IndexDB = v; return nil },
	},
	"convert.output_dir": {
		get: func(c *Config) string { return c.Convert.OutputDir },
		set: func(c *Config, v string) error { c.Convert.OutputDir = v; return nil },
	},
	"batch.workers": {
		get: func(c *Config) string {
			if c.Batch.Workers == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Batch.Workers), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for batch.workers: %w", err)
			}
			c.Batch.Workers = uint(n)
			return nil
		},
	},
	"batch.log_file": {
		get: func(c *Config) string { return c.Batch.LogFile },
		set: func(c *Config, v string) error { c.Batch.LogFile = v; return nil },
	},
}
