// Package config parses and validates session and workload
// configuration for the hotpath CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a profiling run.
//
// Example YAML:
//
//	session:
//	  name: "checkout"
//	  mode: timing
//	  percentiles: [50, 95, 99]
//	  format: table
//	workload:
//	  - label: "fetch_cart"
//	    calls: 200
//	    duration: 1ms
type Config struct {
	Session  SessionConfig  `json:"session" yaml:"session"`
	Workload []WorkloadStep `json:"workload,omitempty" yaml:"workload,omitempty"`
}

// SessionConfig configures the measurement session.
type SessionConfig struct {
	// Name appears in the report header.
	Name string `json:"name" yaml:"name"`

	// Mode is the measurement kind: "timing" (default) or one of
	// "alloc-bytes-total", "alloc-bytes-max", "alloc-count-total",
	// "alloc-count-max".
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Percentiles are the requested percentile points, each in [0, 100].
	Percentiles []int `json:"percentiles,omitempty" yaml:"percentiles,omitempty"`

	// Format is "table" (default), "json" or "json-pretty".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Capacity is the event channel capacity (default 10000).
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`

	// Limit keeps only the top N report rows (0 keeps all).
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// WorkloadStep describes one synthetic instrumented call site.
type WorkloadStep struct {
	// Label is the aggregation key for this step.
	Label string `json:"label" yaml:"label"`

	// Calls is how many times the step runs.
	Calls int `json:"calls" yaml:"calls"`

	// Duration is the simulated work per call (timing mode).
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// AllocBytes is the simulated allocation size per call (allocation modes).
	AllocBytes int `json:"allocBytes,omitempty" yaml:"allocBytes,omitempty"`

	// AllocCount is how many simulated allocations happen per call.
	AllocCount int `json:"allocCount,omitempty" yaml:"allocCount,omitempty"`
}

// Duration wraps time.Duration to accept "30s"-style strings in YAML
// and JSON.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a configuration file. The format is determined
// by extension: .json is JSON, everything else is YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses configuration data, using path's extension to pick the
// format.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a parsed configuration.
func Validate(cfg *Config) error {
	if cfg.Session.Name == "" {
		cfg.Session.Name = "hotpath"
	}

	if err := validateSession(&cfg.Session); err != nil {
		return fmt.Errorf("invalid session configuration: %w", err)
	}

	for i, step := range cfg.Workload {
		if err := validateStep(&step); err != nil {
			return fmt.Errorf("invalid workload step %d: %w", i, err)
		}
	}
	return nil
}

func validateSession(s *SessionConfig) error {
	switch s.Mode {
	case "", "timing", "alloc-bytes-total", "alloc-bytes-max", "alloc-count-total", "alloc-count-max":
	default:
		return fmt.Errorf("unknown mode %q", s.Mode)
	}

	switch s.Format {
	case "", "table", "json", "json-pretty":
	default:
		return fmt.Errorf("unknown format %q", s.Format)
	}

	for _, p := range s.Percentiles {
		if p < 0 || p > 100 {
			return fmt.Errorf("percentile %d out of range [0, 100]", p)
		}
	}

	if s.Capacity < 0 {
		return fmt.Errorf("capacity cannot be negative")
	}
	if s.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	return nil
}

func validateStep(step *WorkloadStep) error {
	if step.Label == "" {
		return fmt.Errorf("label cannot be empty")
	}
	if step.Calls < 1 {
		return fmt.Errorf("calls must be at least 1")
	}
	if step.AllocBytes < 0 {
		return fmt.Errorf("allocBytes cannot be negative")
	}
	if step.AllocCount < 0 {
		return fmt.Errorf("allocCount cannot be negative")
	}
	return nil
}
