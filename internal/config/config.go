// Package config loads sapling settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in a project root.
const FileName = "sapling.toml"

// Config holds project-wide settings.
type Config struct {
	// DeclarationSuffixes mark files whose top-level declarations are ambient.
	DeclarationSuffixes []string `toml:"declaration_suffixes"`
	// SkipDirs are directory names never descended into when loading a tree.
	SkipDirs []string `toml:"skip_dirs"`
	// DB is the default SQLite path for the declaration index.
	DB string `toml:"db"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// Parallel enables the worker pool when loading directories.
	Parallel bool `toml:"parallel"`
	// UseGit lists files with `git ls-files` when the root is a repository.
	UseGit bool `toml:"use_git"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DeclarationSuffixes: []string{".d.ts", ".d.mts", ".d.cts"},
		SkipDirs:            []string{"node_modules", "vendor", "dist"},
		DB:                  ".sapling.db",
		LogLevel:            "info",
		Parallel:            true,
		UseGit:              true,
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	for _, s := range c.DeclarationSuffixes {
		if !strings.HasPrefix(s, ".") {
			errs = append(errs, fmt.Errorf("declaration suffix %q must start with a dot", s))
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SkipDir reports whether a directory with this name is skipped.
func (c *Config) SkipDir(name string) bool {
	for _, d := range c.SkipDirs {
		if d == name {
			return true
		}
	}
	return false
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Validatable is an optional interface that config structs can implement
// to validate themselves after loading.
type Validatable interface {
	Validate() error
}

// LoadTOML loads a TOML config file into a struct of type T.
// If the file does not exist, it returns the provided defaults.
func LoadTOML[T any](path string, defaults *T) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := new(T)
	if defaults != nil {
		*cfg = *defaults
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if v, ok := any(cfg).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("config: validating %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Load reads a sapling config from path, falling back to Default.
func Load(path string) (*Config, error) {
	return LoadTOML(path, Default())
}
