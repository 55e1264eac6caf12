package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, Range{Min: 0, Max: 6}, p.LED.Colors)
	assert.Equal(t, []int64{0, 1}, p.LED.States)
	assert.Equal(t, []int64{0, 1, 3, 5}, p.LED.Intervals)
	assert.Equal(t, Range{Min: 0, Max: 100}, p.Temperature)
	assert.Equal(t, Range{Min: 0, Max: 65534}, p.DSCP)
	assert.Contains(t, p.RouterRegions, "REGN_GBR")
	assert.Contains(t, p.SNMPModes, "rgWan")
	assert.Empty(t, p.Source)
	assert.Empty(t, p.DisabledFeatures())
}

func TestParseOverlay(t *testing.T) {
	p, err := Parse([]byte(`
router_regions: [REGN_USA]
temperature:
  max: 85
features:
  telnet: false
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"REGN_USA"}, p.RouterRegions)
	assert.Equal(t, Range{Min: 0, Max: 85}, p.Temperature)
	// Untouched keys keep their defaults.
	assert.Equal(t, Range{Min: 0, Max: 6}, p.LED.Colors)
	assert.False(t, p.Enabled(FeatureTelnet))
	assert.True(t, p.Enabled(FeatureMACsec))
	assert.Equal(t, []string{FeatureTelnet}, p.DisabledFeatures())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "led: [unclosed"},
		{"inverted range", "dscp: {min: 10, max: 5}"},
		{"no led states", "led: {states: []}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.True(t, errors.Is(err, ErrInvalidProfile), "got %v", err)
		})
	}
}

func TestEnabledUnknownFeature(t *testing.T) {
	assert.True(t, Default().Enabled("something_new"))
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 0, Max: 6}
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(6))
	assert.False(t, r.Contains(7))
	assert.False(t, r.Contains(-1))
	assert.Equal(t, "[0, 6]", r.String())
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snmp_modes: [rgWan]\n"), 0o600))

	p, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rgWan"}, p.SNMPModes)
	assert.Equal(t, path, p.Source)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
