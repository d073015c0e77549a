// Package config holds the decoder's user-level defaults.
package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/capdecode/capability"
	"github.com/sarchlab/capdecode/report"
)

// Config holds the defaults applied when the command line does not override
// them. Files may be YAML or JSON.
type Config struct {
	// SpecVersion is the capability encoding to decode with.
	// Default: morello-beta1-arran-822.
	SpecVersion string `yaml:"spec_version" json:"spec_version"`

	// Format is the report format: text, json or yaml. Default: text.
	Format string `yaml:"format" json:"format"`

	// Trace logs the intermediate bounds-correction values. Default: false.
	Trace bool `yaml:"trace" json:"trace"`
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() *Config {
	return &Config{
		SpecVersion: capability.DefaultSpecVersion.String(),
		Format:      string(report.FormatText),
	}
}

// LoadConfig loads a Config from a file. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":         path,
		"spec_version": config.SpecVersion,
		"format":       config.Format,
	}).Debug("loaded config")

	return config, nil
}

// SaveConfig writes the Config to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the version and format are known.
func (c *Config) Validate() error {
	if _, err := c.Version(); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}

// Version returns the parsed encoding version.
func (c *Config) Version() (capability.SpecVersion, error) {
	v, err := capability.ParseSpecVersion(c.SpecVersion)
	if err != nil {
		return 0, fmt.Errorf("spec_version: %w", err)
	}
	return v, nil
}
