// Package paths provides centralized path handling for sprout.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for sprout
	EnvDataDir = "SPROUT_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for sprout
	EnvConfigDir = "SPROUT_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for sprout
	EnvCacheDir = "SPROUT_CACHE_DIR"
)

// Default directories and files.
// These constants define sprout's internal layout and are not
// user-configurable; user-facing tunables belong in pkg/config.
const (
	// AppDirName is the directory name for sprout-specific files
	AppDirName = "sprout"

	// ConfigFileName is the name of the configuration file
	ConfigFileName = "sprout.toml"

	// DatabaseFileName is the name of the template store database
	DatabaseFileName = "sprout.db"

	// ManifestFileName is the default created-items manifest written by create
	ManifestFileName = "last-create.json"

	// LogFileName is the name of the log file
	LogFileName = "sprout.log"
)

// Paths provides centralized path management for sprout
type Paths interface {
	DataDir() string
	ConfigDir() string
	CacheDir() string
	StateDir() string
	ConfigFilePath() string
	DatabasePath() string
	ManifestPath() string
	LogFilePath() string
}

type paths struct {
	xdgData   string
	xdgConfig string
	xdgCache  string
	xdgState  string
}

// New creates a new Paths instance, respecting environment overrides.
func New() (Paths, error) {
	p := &paths{}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, AppDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, AppDirName)
	}

	// XDG state has no override of its own; the logging setup reads
	// XDG_STATE_HOME directly and this must agree with it
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, AppDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", AppDirName)
	}

	return p, nil
}

func (p *paths) DataDir() string   { return p.xdgData }
func (p *paths) ConfigDir() string { return p.xdgConfig }
func (p *paths) CacheDir() string  { return p.xdgCache }
func (p *paths) StateDir() string  { return p.xdgState }

// ConfigFilePath returns the path of the optional TOML config file.
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// DatabasePath returns the path of the template store database.
func (p *paths) DatabasePath() string {
	return filepath.Join(p.xdgData, DatabaseFileName)
}

// ManifestPath returns the default location of the created-items manifest.
func (p *paths) ManifestPath() string {
	return filepath.Join(p.xdgState, ManifestFileName)
}

// LogFilePath returns the path of the log file.
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
