package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidProfile is wrapped by every error LoadProfile returns.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is a saved set of pipeline options, read from YAML:
//
//	target_columns: [Lot, Wafer]
//	pad_column: Wafer
//	pad_fallback_index: 1
//	pad_name: Wafer_Padded
//	pad_width: 2
//	output_format: xlsx
//
// Omitted keys keep their defaults.
type Profile struct {
	TargetColumns    []string `yaml:"target_columns"`
	PadColumn        string   `yaml:"pad_column"`
	PadFallbackIndex int      `yaml:"pad_fallback_index"`
	PadName          string   `yaml:"pad_name"`
	PadWidth         int      `yaml:"pad_width"`
	OutputFormat     string   `yaml:"output_format"`
}

// DefaultProfile returns the profile used when no file is given.
func DefaultProfile() Profile {
	return Profile{
		PadColumn:        "Wafer",
		PadFallbackIndex: 1,
		PadName:          "Wafer_Padded",
		PadWidth:         2,
		OutputFormat:     "csv",
	}
}

// LoadProfile reads a YAML profile from path on top of DefaultProfile.
// An empty path returns the defaults.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return &p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %w", ErrInvalidProfile, path, err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parse %q: %w", ErrInvalidProfile, path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", path, err)
	}
	return &p, nil
}

// Validate checks that the profile is usable.
func (p *Profile) Validate() error {
	var errs []string

	if p.PadWidth <= 0 {
		errs = append(errs, fmt.Sprintf("pad_width (%d) must be positive", p.PadWidth))
	}
	if p.PadFallbackIndex < 0 {
		errs = append(errs, "pad_fallback_index must be non-negative")
	}
	if strings.TrimSpace(p.PadName) == "" {
		errs = append(errs, "pad_name must not be empty")
	}
	switch strings.ToLower(p.OutputFormat) {
	case "csv", "xlsx":
	default:
		errs = append(errs, fmt.Sprintf("output_format (%q) must be one of: csv, xlsx", p.OutputFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidProfile, strings.Join(errs, "\n  - "))
	}
	return nil
}
