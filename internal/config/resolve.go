package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// GlobalConfigDir is the name of the global config directory in home
	GlobalConfigDir = ".taskdesk"

	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.toml"
)

// Environment variables consulted by Resolve.
const (
	EnvDatabasePath = "TASKDESK_DB_PATH"
	EnvBind         = "TASKDESK_BIND"
	EnvLogLevel     = "TASKDESK_LOG_LEVEL"
)

// ResolveOptions tells Resolve where to look.
type ResolveOptions struct {
	// Home holds the global config directory. Empty skips the global file.
	Home string
	// Dir is where project file discovery starts. Ignored when Path is set.
	Dir string
	// Path is an explicit config file, which must exist.
	Path string
	// LookupEnv reads the environment; nil uses os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Resolve builds the configuration. Precedence order (highest to lowest):
// 1. Environment variables
// 2. Project config (explicit Path or the taskdesk.toml discovered from Dir)
// 3. Global config (~/.taskdesk/config.toml)
// 4. Built-in defaults
func Resolve(opts ResolveOptions) (*Config, error) {
	cfg := Default()

	if opts.Home != "" {
		globalPath := filepath.Join(opts.Home, GlobalConfigDir, GlobalConfigFileName)
		if _, err := os.Stat(globalPath); err == nil {
			f, err := parseFile(globalPath)
			if err != nil {
				return nil, err
			}
			f.apply(cfg)
		}
	}

	projectPath := opts.Path
	if projectPath == "" && opts.Dir != "" {
		found, err := Discover(opts.Dir)
		switch {
		case err == nil:
			projectPath = found
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}
	if projectPath != "" {
		f, err := parseFile(projectPath)
		if err != nil {
			return nil, err
		}
		f.apply(cfg)
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabasePath); ok && v != "" {
		cfg.Database.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvBind); ok && v != "" {
		host, portStr, err := net.SplitHostPort(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBind, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvBind, portStr)
		}
		if err := validatePort(port); err != nil {
			return fmt.Errorf("%s: %w", EnvBind, err)
		}
		cfg.Server.Host = host
		cfg.Server.Port = port
	}
	return nil
}
