// Package config holds engine settings: remote endpoints, network limits and
// extra launcher search roots. Settings come from an optional TOML file under
// the XDG config directory; every field has a working default so the engine
// runs with no file at all.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/perlytiara/modsync/pkg/errors"
)

// ConfigPathEnv overrides the config file location when set.
const ConfigPathEnv = "MODSYNC_CONFIG"

// Config is the engine configuration.
type Config struct {
	// ReleaseAPIBaseURL is the release index root, queried as
	// <base>/releases/latest or <base>/releases/tags/<tag>.
	ReleaseAPIBaseURL string `toml:"release_api_base_url"`

	// PackInfoBaseURL serves per-package-type pack metadata (server name,
	// address, automodpack fingerprint), queried as <base>/<packageType>/.
	PackInfoBaseURL string `toml:"pack_info_base_url"`

	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`
	RetryCount         int `toml:"retry_count"`
	DownloadWorkers    int `toml:"download_workers"`
	ScanWorkers        int `toml:"scan_workers"`

	// ExtraLauncherRoots are additional directories probed during launcher
	// discovery, on top of the platform's well-known paths.
	ExtraLauncherRoots []string `toml:"extra_launcher_roots"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ReleaseAPIBaseURL:  "https://api.github.com/repos/perlytiara/NAHA-Minecraft-Modpacks",
		PackInfoBaseURL:    "https://perlytiara.github.io/NAHA-MC.IO/api",
		HTTPTimeoutSeconds: 30,
		RetryCount:         3,
		DownloadWorkers:    4,
		ScanWorkers:        4,
	}
}

// HTTPTimeout returns the network timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Load reads the config file if one exists and merges it over the defaults.
// A missing file is not an error; an unreadable or malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv(ConfigPathEnv)
	if path == "" {
		path = filepath.Join(xdg.ConfigHome, "modsync", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "reading config file %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "parsing config file %s", path)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps nonsense values back to their defaults.
func (c *Config) normalize() {
	def := Default()
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = def.HTTPTimeoutSeconds
	}
	if c.RetryCount < 0 {
		c.RetryCount = def.RetryCount
	}
	if c.DownloadWorkers <= 0 {
		c.DownloadWorkers = def.DownloadWorkers
	}
	if c.ScanWorkers <= 0 {
		c.ScanWorkers = def.ScanWorkers
	}
}
