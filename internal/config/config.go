package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileNames are the config files looked up, in order, in each directory.
var FileNames = []string{"forja.json", "forja.toml"}

// Config represents the forja.json or forja.toml configuration file
type Config struct {
	Name       string      `json:"name" toml:"name"`
	Sources    []string    `json:"sources" toml:"sources"`
	Exclude    []string    `json:"exclude" toml:"exclude"`
	Output     string      `json:"output" toml:"output"`
	Generators []string    `json:"generators" toml:"generators"`
	Cache      CacheConfig `json:"cache" toml:"cache"`
	Watch      WatchConfig `json:"watch" toml:"watch"`
}

// CacheConfig bounds the incremental cache kept between passes
type CacheConfig struct {
	Size int `json:"size" toml:"size"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Debounce string `json:"debounce" toml:"debounce"`
}

const (
	DefaultOutput    = "./Generated"
	DefaultCacheSize = 4096
	DefaultDebounce  = "100ms"
)

// Default returns a config with every default filled in.
func Default(name string) *Config {
	cfg := &Config{Name: name}
	cfg.setDefaults()
	return cfg
}

// LoadConfig loads the configuration from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path. The
// format follows the file extension.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.setDefaults()
	if _, err := config.DebounceDuration(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) setDefaults() {
	if len(c.Sources) == 0 {
		c.Sources = []string{"**/*.cs"}
	}
	if len(c.Exclude) == 0 {
		c.Exclude = []string{"bin/", "obj/", ".git/", "*.g.cs"}
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = DefaultCacheSize
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce
	}
	if len(c.Generators) == 0 {
		c.Generators = nil
	}
}

// DebounceDuration parses the watch debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid watch debounce %q: must not be negative", c.Watch.Debounce)
	}
	return d, nil
}

// Validate rejects generator names that are not in known. An empty
// generator list selects every generator.
func (c *Config) Validate(known []string) error {
	var unknown []string
	for _, g := range c.Generators {
		if !slices.Contains(known, g) {
			unknown = append(unknown, g)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown generators %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(known, ", "))
	}
	return nil
}

// Marshal encodes the config for a file named path. The format follows the
// file extension.
func (c *Config) Marshal(path string) ([]byte, error) {
	if filepath.Ext(path) == ".toml" {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// loadConfigFromDir searches for a config file in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				config, err := LoadConfigFromPath(configPath)
				if err != nil {
					return nil, "", err
				}
				return config, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no %s found in %s or any parent directory", strings.Join(FileNames, " or "), startDir)
}
