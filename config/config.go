// Package config loads YAML configuration for udp-rpc servers and clients.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Client   ClientConfig   `yaml:"client"`
	Registry RegistryConfig `yaml:"registry"`
}

type ServerConfig struct {
	Address       string `yaml:"address"`        // UDP bind address, e.g. "127.0.0.1:34567"
	AdvertiseAddr string `yaml:"advertise_addr"` // Address registered in etcd; must be routable, unlike ":34567"
	BufferSize    int    `yaml:"buffer_size"`    // Receive scratch buffer, 0 = 4096
	Snappy        bool   `yaml:"snappy"`         // Compress datagrams below the framing layer
	DebugAddress  string `yaml:"debug_address"`  // HTTP debug/metrics listen address, empty = disabled
	Middleware    struct {
		Logging   bool     `yaml:"logging"`
		Recovery  bool     `yaml:"recovery"`
		Metrics   bool     `yaml:"metrics"`
		Timeout   Duration `yaml:"timeout"` // 0 = unbounded handlers
		RateLimit struct {
			Enabled bool    `yaml:"enabled"`
			Rate    float64 `yaml:"rate"`
			Burst   int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"middleware"`
}

type ClientConfig struct {
	Mode       string `yaml:"mode"`        // "fixed" or "discovery"
	Address    string `yaml:"address"`     // Server address (fixed mode)
	BufferSize int    `yaml:"buffer_size"` // Receive scratch buffer, 0 = 4096
	Snappy     bool   `yaml:"snappy"`      // Must match the server's setting
	Balancer   string `yaml:"balancer"`    // roundrobin / weightedrandom / consistenthash
	HashKey    string `yaml:"hash_key"`    // Affinity key for consistenthash
}

type RegistryConfig struct {
	Endpoints []string `yaml:"endpoints"`
	LeaseTTL  int64    `yaml:"lease_ttl"` // Seconds, 0 = 10
}

// Duration parses "500ms"-style strings from YAML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = dd
	return nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
