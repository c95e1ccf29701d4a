package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/sprout/pkg/errors"
)

// envPrefix is stripped from environment variables before they are mapped
// onto config keys.
const envPrefix = "SPROUT_"

// Config holds every tunable sprout consults at runtime. Zero values are
// never used directly; Load always starts from the built-in defaults.
type Config struct {
	Repeat     RepeatConfig     `koanf:"repeat" toml:"repeat" json:"repeat"`
	Directives DirectivesConfig `koanf:"directives" toml:"directives" json:"directives"`
	Inherit    InheritConfig    `koanf:"inherit" toml:"inherit" json:"inherit"`
	Download   DownloadConfig   `koanf:"download" toml:"download" json:"download"`
	Diff       DiffConfig       `koanf:"diff" toml:"diff" json:"diff"`
	Hooks      HooksConfig      `koanf:"hooks" toml:"hooks" json:"hooks"`
	Image      ImageConfig      `koanf:"image" toml:"image" json:"image"`
}

// RepeatConfig bounds <repeat> expansion.
type RepeatConfig struct {
	// MaxCount is the largest accepted repeat count. Counts above it fail
	// the node rather than the whole run.
	MaxCount int `koanf:"max_count" toml:"max_count" json:"max_count"`
}

// DirectivesConfig bounds {{if}}/{{for}} processing.
type DirectivesConfig struct {
	// MaxDepth caps directive nesting inside a single file body.
	MaxDepth int `koanf:"max_depth" toml:"max_depth" json:"max_depth"`
}

// InheritConfig bounds template inheritance resolution.
type InheritConfig struct {
	// MaxDepth caps parent-chain length before resolution gives up.
	MaxDepth int `koanf:"max_depth" toml:"max_depth" json:"max_depth"`
}

// DownloadConfig governs <file url="..."> fetches.
type DownloadConfig struct {
	TimeoutSeconds int   `koanf:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds"`
	MaxBytes       int64 `koanf:"max_bytes" toml:"max_bytes" json:"max_bytes"`
}

// DiffConfig caps how much file content the diff preview renders.
type DiffConfig struct {
	MaxContentChars int `koanf:"max_content_chars" toml:"max_content_chars" json:"max_content_chars"`
	MaxLines        int `koanf:"max_lines" toml:"max_lines" json:"max_lines"`
}

// HooksConfig governs post-create hook execution.
type HooksConfig struct {
	TimeoutSeconds int `koanf:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds"`
}

// ImageConfig supplies defaults for <file generate="image"> nodes that
// omit dimensions or color.
type ImageConfig struct {
	DefaultWidth  int    `koanf:"default_width" toml:"default_width" json:"default_width"`
	DefaultHeight int    `koanf:"default_height" toml:"default_height" json:"default_height"`
	DefaultColor  string `koanf:"default_color" toml:"default_color" json:"default_color"`
}

// defaults is the base layer every load starts from. Keys are dotted koanf
// paths matching the struct tags above.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"repeat.max_count":         10000,
		"directives.max_depth":     20,
		"inherit.max_depth":        10,
		"download.timeout_seconds": 30,
		"download.max_bytes":       int64(50 * 1024 * 1024),
		"diff.max_content_chars":   50000,
		"diff.max_lines":           1000,
		"hooks.timeout_seconds":    60,
		"image.default_width":      100,
		"image.default_height":     100,
		"image.default_color":      "#CCCCCC",
	}
}

// Default returns the built-in configuration without consulting the
// filesystem or environment.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The defaults map always unmarshals cleanly.
		panic(fmt.Sprintf("config: defaults failed to load: %v", err))
	}
	return cfg
}

// Load assembles the effective configuration. configFile may be empty or
// point to a file that does not exist; both mean "defaults plus
// environment". A file that exists but fails to parse is an error.
func Load(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default configuration")
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to parse config file %s", configFile)
			}
		}
	}

	// SPROUT_DOWNLOAD_TIMEOUT_SECONDS -> download.timeout_seconds. Only the
	// first underscore separates section from key; section names never
	// contain underscores.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Repeat.MaxCount < 1:
		return errors.New(errors.ErrConfigParse, "repeat.max_count must be at least 1")
	case c.Directives.MaxDepth < 1:
		return errors.New(errors.ErrConfigParse, "directives.max_depth must be at least 1")
	case c.Inherit.MaxDepth < 1:
		return errors.New(errors.ErrConfigParse, "inherit.max_depth must be at least 1")
	case c.Download.TimeoutSeconds < 1:
		return errors.New(errors.ErrConfigParse, "download.timeout_seconds must be at least 1")
	case c.Download.MaxBytes < 1:
		return errors.New(errors.ErrConfigParse, "download.max_bytes must be at least 1")
	case c.Image.DefaultWidth < 1 || c.Image.DefaultHeight < 1:
		return errors.New(errors.ErrConfigParse, "image dimensions must be at least 1")
	}
	return nil
}

const fileHeader = `# sprout configuration.
# Values here override the built-in defaults; SPROUT_* environment
# variables override both.

`

// WriteDefault writes the built-in configuration as a TOML file at path,
// creating parent directories as needed. It refuses to overwrite an
// existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "config file already exists: %s", path)
	}

	data, err := gotoml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to marshal default configuration")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "failed to create config directory %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "failed to write config file %s", path)
	}
	return nil
}
