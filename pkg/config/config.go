// Package config loads printdisc configuration from a YAML file.
//
// All fields are optional; missing values fall back to defaults that
// match the discovery package's constants.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/printkit/printkit-go/pkg/discovery"
)

// Config is the top-level printdisc configuration.
type Config struct {
	// StatePath is the manual printer registry file.
	StatePath string `yaml:"state_path"`

	// EventLog is the CBOR event log file. Empty disables file logging.
	EventLog string `yaml:"event_log"`

	// Scheme is the URI scheme assumed for manually added printers.
	Scheme string `yaml:"scheme"`

	// Port is the port filled into URIs that lack one.
	Port int `yaml:"port"`

	// ProbePaths overrides the candidate resource paths, in priority order.
	ProbePaths []string `yaml:"probe_paths"`

	// MDNS configures the mDNS discovery source.
	MDNS MDNS `yaml:"mdns"`
}

// MDNS configures the mDNS discovery source.
type MDNS struct {
	// Enabled turns mDNS browsing on.
	Enabled bool `yaml:"enabled"`

	// Interface restricts browsing to one network interface.
	// Empty string means all interfaces.
	Interface string `yaml:"interface"`

	// Secure browses _ipps._tcp instead of _ipp._tcp.
	Secure bool `yaml:"secure"`
}

// Default returns the default configuration. The registry lives under
// the user cache directory.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config from path, or returns defaults when path is
// empty or the file does not exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StatePath == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = "."
		}
		c.StatePath = filepath.Join(dir, "printdisc", "manual-printers.json")
	}
	if c.Scheme == "" {
		c.Scheme = discovery.DefaultScheme
	}
	if c.Port == 0 {
		c.Port = discovery.DefaultPort
	}
	if c.ProbePaths == nil {
		c.ProbePaths = discovery.ProbePaths()
	}
}
