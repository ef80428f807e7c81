package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project configuration file
const ConfigFileName = "taskdesk.toml"

// ErrNotFound is returned by Discover when no config file exists up the tree.
var ErrNotFound = errors.New("no " + ConfigFileName + " found")

// fileConfig is the raw TOML structure. Pointers tell unset keys apart from
// zero values so that layered files only override what they name.
type fileConfig struct {
	Server struct {
		Host              *string `toml:"host"`
		Port              *int    `toml:"port"`
		AuthRatePerMinute *int    `toml:"auth_rate_per_minute"`
		AuthBurst         *int    `toml:"auth_burst"`
	} `toml:"server"`
	Database struct {
		Path               *string `toml:"path"`
		StatementCacheSize *int    `toml:"statement_cache_size"`
	} `toml:"database"`
	Log struct {
		Level  *string `toml:"level"`
		Format *string `toml:"format"`
	} `toml:"log"`
}

// parseFile reads the TOML file at path. Unknown keys are rejected.
func parseFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw fileConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	if raw.Server.Port != nil {
		if err := validatePort(*raw.Server.Port); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	// A relative database path is relative to the file declaring it.
	if p := raw.Database.Path; p != nil && *p != "" && !filepath.IsAbs(*p) {
		abs := filepath.Join(filepath.Dir(path), *p)
		raw.Database.Path = &abs
	}
	return &raw, nil
}

// apply copies every key set in f onto cfg.
func (f *fileConfig) apply(cfg *Config) {
	if f.Server.Host != nil {
		cfg.Server.Host = *f.Server.Host
	}
	if f.Server.Port != nil {
		cfg.Server.Port = *f.Server.Port
	}
	if f.Server.AuthRatePerMinute != nil {
		cfg.Server.AuthRatePerMinute = *f.Server.AuthRatePerMinute
	}
	if f.Server.AuthBurst != nil {
		cfg.Server.AuthBurst = *f.Server.AuthBurst
	}
	if f.Database.Path != nil {
		cfg.Database.Path = *f.Database.Path
	}
	if f.Database.StatementCacheSize != nil {
		cfg.Database.StatementCacheSize = *f.Database.StatementCacheSize
	}
	if f.Log.Level != nil {
		cfg.Log.Level = *f.Log.Level
	}
	if f.Log.Format != nil {
		cfg.Log.Format = *f.Log.Format
	}
}

// Load parses the file at path over the defaults.
func Load(path string) (*Config, error) {
	f, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	f.apply(cfg)
	return cfg, nil
}

// Discover returns the path of the nearest taskdesk.toml, searching from
// startDir up to the filesystem root.
func Discover(startDir string) (string, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNotFound
		}
		dir = parent
	}
}
