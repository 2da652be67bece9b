// Package config loads dirdeps rendering configuration from TOML.
//
// Every key is optional; missing keys keep the values from [Default].
//
//	max_dot_graph_successor = 1
//	max_dot_graph_ancestor  = 1
//	dot_transparent         = false
//	dot_font_name           = "Helvetica"
//	dot_font_size           = 10
//	link_relations          = true
//	html_file_extension     = ".html"
//	cache_url               = ""      # "", "none", "memory" or "redis://host:6379/0"
//	concurrency             = 4
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dhebbeker/doxygen/pkg/dotdir"
	"github.com/dhebbeker/doxygen/pkg/errors"
)

// DefaultFile is the configuration file looked up in the working directory
// when no explicit path is given.
const DefaultFile = "dirdeps.toml"

// CacheDisabled is the cache_url value that turns caching off.
const CacheDisabled = "none"

// Config holds every tunable of a dirdeps run.
type Config struct {
	MaxSuccessor  int    `toml:"max_dot_graph_successor"`
	MaxAncestor   int    `toml:"max_dot_graph_ancestor"`
	Transparent   bool   `toml:"dot_transparent"`
	FontName      string `toml:"dot_font_name"`
	FontSize      int    `toml:"dot_font_size"`
	LinkRelations bool   `toml:"link_relations"`
	FileExtension string `toml:"html_file_extension"`
	CacheURL      string `toml:"cache_url"`
	Concurrency   int    `toml:"concurrency"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxSuccessor:  1,
		MaxAncestor:   1,
		FontName:      "Helvetica",
		FontSize:      10,
		LinkRelations: true,
		FileExtension: ".html",
		Concurrency:   4,
	}
}

// Load reads path on top of the defaults. An empty path tries [DefaultFile]
// and silently falls back to the defaults when it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the graph algorithm cannot work with.
func (c Config) Validate() error {
	switch {
	case c.MaxSuccessor < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_dot_graph_successor must not be negative (got %d)", c.MaxSuccessor)
	case c.MaxAncestor < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_dot_graph_ancestor must not be negative (got %d)", c.MaxAncestor)
	case c.FontSize <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "dot_font_size must be positive (got %d)", c.FontSize)
	case c.Concurrency < 1:
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must be at least 1 (got %d)", c.Concurrency)
	}
	return nil
}

// GraphOptions returns the settings consumed by the DOT generator.
func (c Config) GraphOptions() dotdir.Options {
	return dotdir.Options{
		MaxSuccessor:  c.MaxSuccessor,
		MaxAncestor:   c.MaxAncestor,
		Transparent:   c.Transparent,
		FontName:      c.FontName,
		FontSize:      c.FontSize,
		LinkRelations: c.LinkRelations,
		FileExtension: c.FileExtension,
	}
}

// CacheEnabled reports whether artifacts should be cached at all.
func (c Config) CacheEnabled() bool { return c.CacheURL != CacheDisabled }
