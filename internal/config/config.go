// Package config loads the remix.json project configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/remixgo/remix/internal/errdefs"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "remix.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultRoutesDir is the default routes directory.
	DefaultRoutesDir = "app/routes"

	// DefaultPublicDir is the default static files directory.
	DefaultPublicDir = "public"

	// DefaultManifestPath is the default asset manifest location.
	DefaultManifestPath = "public/build/manifest.json"
)

// Config represents the complete remix.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Port is the server port.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// RoutesDir is the path to the routes directory.
	RoutesDir string `json:"routes,omitempty"`

	// PublicDir is the path to the static files directory.
	PublicDir string `json:"public,omitempty"`

	// Assets configures where the asset manifest comes from.
	Assets AssetsConfig `json:"assets,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// AssetsConfig selects the asset manifest source. At most one of
// DevServer and S3 should be set; Manifest is the local-file fallback.
type AssetsConfig struct {
	// Manifest is the path to a local manifest.json.
	Manifest string `json:"manifest,omitempty"`

	// DevServer is the URL of a running asset dev server's manifest
	// endpoint.
	DevServer string `json:"devServer,omitempty"`

	// S3 points at a manifest object written by a deploy.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates a manifest object in S3.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Region string `json:"region,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Watch contains paths to watch for changes, relative to the
	// project directory. Defaults to the routes directory.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains glob patterns to skip during watch.
	Ignore []string `json:"ignore,omitempty"`

	// HotReload enables the browser live-reload socket. A pointer so a
	// file that omits the key gets the default (on) while an explicit
	// false still disables it.
	HotReload *bool `json:"hotReload,omitempty"`
}

// HotReloadEnabled reports whether the live-reload socket should run.
func (d DevConfig) HotReloadEnabled() bool {
	return d.HotReload == nil || *d.HotReload
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		Host:      DefaultHost,
		RoutesDir: DefaultRoutesDir,
		PublicDir: DefaultPublicDir,
		Assets:    AssetsConfig{Manifest: DefaultManifestPath},
	}
}

// Load reads a remix.json from path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errdefs.New(errdefs.CodeConfigNotFound).Wrap(err)
		}
		return nil, errdefs.New(errdefs.CodeConfigInvalid).Wrap(err)
	}

	// Unmarshal into a zero Config so applyDefaults can see which
	// fields the file actually set. Starting from Default() would leave
	// the default manifest path in place alongside a configured dev
	// server or S3 bucket, breaking asset-source exclusivity.
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errdefs.New(errdefs.CodeConfigInvalid).
			WithDetail(err.Error()).
			WithSuggestion("check " + path + " for JSON syntax errors")
	}
	cfg.configPath = path
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// Find searches startDir and its parents for a remix.json and loads it.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, errdefs.New(errdefs.CodeConfigNotFound).
				WithSuggestion("run the command inside a project containing " + ConfigFileName)
		}
		dir = parent
	}
}

// applyDefaults fills any zero-valued field a loaded file left out.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.RoutesDir == "" {
		c.RoutesDir = DefaultRoutesDir
	}
	if c.PublicDir == "" {
		c.PublicDir = DefaultPublicDir
	}
	if c.Assets.Manifest == "" && c.Assets.DevServer == "" && c.Assets.S3.Bucket == "" {
		c.Assets.Manifest = DefaultManifestPath
	}
	if len(c.Dev.Watch) == 0 {
		c.Dev.Watch = []string{c.RoutesDir}
	}
}

// applyEnv lets the deploy environment override the listen address.
// PORT and HOST win over remix.json, matching hosting platforms that
// inject the port.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Port = port
		}
	}
	if v := os.Getenv("HOST"); v != "" {
		c.Host = v
	}
}

// Dir returns the project directory the config was loaded from, or "."
// for a config built in code.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}
