// Package profile holds the expected value sets the L1 suite checks HAL
// output against. Defaults are compiled in; a YAML file can override them.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Feature names understood by the suite.
const (
	FeatureMACsec       = "macsec"
	FeatureTelnet       = "telnet"
	FeatureSNMP         = "snmp"
	FeatureDSCP         = "dscp"
	FeatureQoS          = "qos"
	FeaturePPP          = "ppp"
	FeatureFirmwareBank = "firmware_bank"
	FeatureFanOverride  = "fan_override"
	FeatureWebUI        = "web_ui"
)

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Range is an inclusive integer interval.
type Range struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// Contains reports whether v is within the range.
func (r Range) Contains(v int64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// LED describes acceptable LED parameters.
type LED struct {
	Colors    Range   `yaml:"colors"`
	States    []int64 `yaml:"states"`
	Intervals []int64 `yaml:"intervals"`
}

// Profile is the set of expectations for one device family.
type Profile struct {
	RouterRegions []string        `yaml:"router_regions"`
	SNMPModes     []string        `yaml:"snmp_modes"`
	DHCPv4Options []int64         `yaml:"dhcpv4_options"`
	DHCPv6Options []int64         `yaml:"dhcpv6_options"`
	LED           LED             `yaml:"led"`
	Temperature   Range           `yaml:"temperature"`
	FanRPM        Range           `yaml:"fan_rpm"`
	DSCP          Range           `yaml:"dscp"`
	WebUITimeout  Range           `yaml:"web_ui_timeout"`
	MACsecTimeout Range           `yaml:"macsec_timeout"`
	Features      map[string]bool `yaml:"features"`

	// Source is the overlay file, empty when only defaults are in use.
	Source string `yaml:"-"`
}

// Default returns the built-in profile.
func Default() *Profile {
	p, err := Parse(nil)
	if err != nil {
		// The embedded document is validated by tests.
		panic(err)
	}
	return p
}

// Parse overlays data on the built-in profile. Keys missing from data keep
// their default; lists are replaced rather than merged; features are merged
// per name.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(defaultYAML, &p); err != nil {
		return nil, fmt.Errorf("embedded profile: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads the overlay at path. An empty path returns Default().
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Source = path
	return p, nil
}

// Validate checks internal consistency.
func (p *Profile) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"led.colors", p.LED.Colors},
		{"temperature", p.Temperature},
		{"fan_rpm", p.FanRPM},
		{"dscp", p.DSCP},
		{"web_ui_timeout", p.WebUITimeout},
		{"macsec_timeout", p.MACsecTimeout},
	}
	for _, rr := range ranges {
		if rr.r.Min > rr.r.Max {
			return fmt.Errorf("%w: %s min %d exceeds max %d", ErrInvalidProfile, rr.name, rr.r.Min, rr.r.Max)
		}
	}
	if len(p.LED.States) == 0 {
		return fmt.Errorf("%w: led.states is empty", ErrInvalidProfile)
	}
	if len(p.LED.Intervals) == 0 {
		return fmt.Errorf("%w: led.intervals is empty", ErrInvalidProfile)
	}
	return nil
}

// Enabled reports whether the named feature is enabled. Unknown features
// are enabled.
func (p *Profile) Enabled(feature string) bool {
	on, ok := p.Features[feature]
	return !ok || on
}

// DisabledFeatures returns the names of disabled features, sorted.
func (p *Profile) DisabledFeatures() []string {
	var out []string
	for name, on := range p.Features {
		if !on {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
