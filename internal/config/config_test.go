package config

import (
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
session:
  name: "checkout"
  mode: timing
  percentiles: [50, 95, 99]
  format: json
  capacity: 5000
  limit: 10
workload:
  - label: "fetch_cart"
    calls: 200
    duration: 1ms
  - label: "price_items"
    calls: 100
    duration: 500us
`

func TestParse_YAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "workload.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Session.Name != "checkout" {
		t.Errorf("Name = %q, want checkout", cfg.Session.Name)
	}
	if cfg.Session.Capacity != 5000 {
		t.Errorf("Capacity = %d, want 5000", cfg.Session.Capacity)
	}
	if len(cfg.Session.Percentiles) != 3 || cfg.Session.Percentiles[1] != 95 {
		t.Errorf("Percentiles = %v, want [50 95 99]", cfg.Session.Percentiles)
	}
	if len(cfg.Workload) != 2 {
		t.Fatalf("Workload steps = %d, want 2", len(cfg.Workload))
	}
	if got := cfg.Workload[0].Duration.Std(); got != time.Millisecond {
		t.Errorf("step duration = %v, want 1ms", got)
	}
}

func TestParse_JSON(t *testing.T) {
	doc := `{
		"session": {"name": "j", "mode": "alloc-bytes-total", "percentiles": [95]},
		"workload": [{"label": "alloc", "calls": 10, "allocBytes": 1024, "allocCount": 2}]
	}`

	cfg, err := Parse([]byte(doc), "workload.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Session.Mode != "alloc-bytes-total" {
		t.Errorf("Mode = %q, want alloc-bytes-total", cfg.Session.Mode)
	}
	if cfg.Workload[0].AllocBytes != 1024 {
		t.Errorf("AllocBytes = %d, want 1024", cfg.Workload[0].AllocBytes)
	}
}

func TestValidate_DefaultsSessionName(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Session.Name != "hotpath" {
		t.Errorf("Name = %q, want default hotpath", cfg.Session.Name)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "unknown mode",
			cfg:     Config{Session: SessionConfig{Mode: "alloc-everything"}},
			wantErr: "unknown mode",
		},
		{
			name:    "unknown format",
			cfg:     Config{Session: SessionConfig{Format: "xml"}},
			wantErr: "unknown format",
		},
		{
			name:    "percentile out of range",
			cfg:     Config{Session: SessionConfig{Percentiles: []int{50, 101}}},
			wantErr: "out of range",
		},
		{
			name:    "negative percentile",
			cfg:     Config{Session: SessionConfig{Percentiles: []int{-5}}},
			wantErr: "out of range",
		},
		{
			name:    "negative capacity",
			cfg:     Config{Session: SessionConfig{Capacity: -1}},
			wantErr: "capacity",
		},
		{
			name:    "empty step label",
			cfg:     Config{Workload: []WorkloadStep{{Calls: 5}}},
			wantErr: "label",
		},
		{
			name:    "zero calls",
			cfg:     Config{Workload: []WorkloadStep{{Label: "x"}}},
			wantErr: "calls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if err == nil {
				t.Fatal("Validate accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	doc := `
workload:
  - label: "x"
    calls: 1
    duration: "not-a-duration"
`
	if _, err := Parse([]byte(doc), "bad.yaml"); err == nil {
		t.Fatal("Parse accepted invalid duration")
	}
}
