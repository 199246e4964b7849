// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package codegen

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the dynproxy-gen configuration file:
//
//	package: github.com/example/service
//	output: service_proxy.go
//	types:
//	  - name: Store
//	  - name: Client
//	    unit: service.Client$Traced
//	    exclude:
//	      - hasPrefix(name, "Internal")
type Config struct {
	Package string       `yaml:"package"`
	Output  string       `yaml:"output"`
	Types   []TypeConfig `yaml:"types"`
}

// TypeConfig configures the unit of one parent type.
type TypeConfig struct {
	Name    string   `yaml:"name"`
	Unit    string   `yaml:"unit,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a configuration document.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that package, output and type names are set and that
// type names are unique.
func (c *Config) Validate() error {
	if c.Package == "" {
		return errors.New("config: package is required")
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if len(c.Types) == 0 {
		return errors.New("config: at least one type is required")
	}

	seen := make(map[string]bool, len(c.Types))
	for i, t := range c.Types {
		if t.Name == "" {
			return errors.Newf("config: type %d has no name", i)
		}
		if seen[t.Name] {
			return errors.Newf("config: type %s listed twice", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// TypeNames returns the configured type names in order.
func (c *Config) TypeNames() []string {
	names := make([]string, len(c.Types))
	for i, t := range c.Types {
		names[i] = t.Name
	}
	return names
}

// TypeOptions returns the per type options for the configured types.
func (t TypeConfig) TypeOptions() []TypeOption {
	opts := make([]TypeOption, 0, len(t.Exclude)+1)
	if t.Unit != "" {
		opts = append(opts, WithUnitName(t.Unit))
	}
	for _, expr := range t.Exclude {
		opts = append(opts, WithExclude(expr))
	}
	return opts
}
