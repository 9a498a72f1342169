// Package config loads the optional turing.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "turing.yaml"

// Config holds the settings shared by the CLI commands. Flags override it.
type Config struct {
	LogLevel string      `yaml:"log_level"`
	LogJSON  string      `yaml:"log_json"`
	MaxSteps int         `yaml:"max_steps"`
	HTTP     HTTPConfig  `yaml:"http"`
	Cache    CacheConfig `yaml:"cache"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type CacheConfig struct {
	// RedisAddr selects the Redis cache; empty means in-memory.
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		HTTP:     HTTPConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. An empty path reads DefaultFile if it
// exists; a missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data into cfg. Unknown top-level keys are rejected.
func Parse(data []byte, cfg *Config) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return nil
	}
	return root.Decode(&strictConfig{cfg})
}

// strictConfig rejects top-level keys Config does not define.
type strictConfig struct {
	cfg *Config
}

func (s *strictConfig) UnmarshalYAML(n *yaml.Node) error {
	known := map[string]bool{"log_level": true, "log_json": true, "max_steps": true, "http": true, "cache": true}
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i].Value; !known[k] {
				return fmt.Errorf("line %d: unknown setting %q", n.Content[i].Line, k)
			}
		}
	}
	return n.Decode(s.cfg)
}
