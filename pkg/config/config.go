// Package config provides configuration loading and management for maxtree.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Connectivity selects the pixel neighborhood used to build the tree
	Connectivity string `yaml:"connectivity"`

	// Attributes lists which optional attribute groups to compute
	Attributes []string `yaml:"attributes"`

	// MSER parameters
	MSER struct {
		// Delta is the level gap used by the MSER stability criterion
		Delta int64 `yaml:"delta"`
	} `yaml:"mser"`

	// NeighborhoodRing parameters, feeding the Otsu-like discriminant
	NeighborhoodRing struct {
		// Radius is the Euclidean ball radius around a node's subtree
		Radius int `yaml:"radius"`
	} `yaml:"neighborhoodRing"`

	// Reconstruction selects the rule used to rebuild an image from the
	// filtered tree: min, max, or direct
	Reconstruction string `yaml:"reconstruction"`

	// Filter parameters
	Filter struct {
		// AreaMin and AreaMax bound area filtering; AreaMax of -1 means +Inf
		AreaMin int64 `yaml:"areaMin"`
		AreaMax int64 `yaml:"areaMax"`
	} `yaml:"filter"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Connectivity = "n8"

	cfg.Attributes = []string{
		"area",
		"contrast",
		"volume",
		"boundingBox",
		"subNodes",
	}

	cfg.MSER.Delta = 20
	cfg.NeighborhoodRing.Radius = 5

	cfg.Reconstruction = "direct"

	cfg.Filter.AreaMin = 0
	cfg.Filter.AreaMax = -1

	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// attributeNames maps the YAML attribute list onto the tree package's bit
// flags (spec.md §4.10).
var attributeNames = map[string]uint32{
	"area":                1 << 0,
	"areaDerivatives":     1 << 1,
	"contrast":            1 << 2,
	"volume":              1 << 3,
	"borderGradient":      1 << 4,
	"complexityCompacity": 1 << 5,
	"boundingBox":         1 << 6,
	"subNodes":            1 << 7,
	"otsu":                1 << 8,
}

// AttributeSetMask ORs together the bit flags for every name in the
// configured Attributes list, ignoring unrecognized names, so callers can
// pass it straight to tree.AttributeSet(mask).
func (c *Config) AttributeSetMask() uint32 {
	var mask uint32
	for _, name := range c.Attributes {
		mask |= attributeNames[name]
	}
	return mask
}
