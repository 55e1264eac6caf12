package fixture_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

const fullFixture = `{
  "MaxEthPort": 4,
  "PartnerID": "comcast",
  "FactoryCmVariant": ["unknown", "pc20"],
  "Supported_CPUS": [0, 1],
  "Supported_PSM_STATE": [1, 2, 3],
  "FanIndex": [0, 1],
  "InterfaceNames": ["erouter0", "brlan0"]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "platform_config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeFixture(t, fullFixture)

	cfg, err := fixture.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxEthPort())
	assert.Equal(t, "comcast", cfg.PartnerID())
	assert.Equal(t, []string{"unknown", "pc20"}, cfg.FactoryCmVariants())
	assert.Equal(t, []hal.CPU{hal.CPUHost, hal.CPUPeer}, cfg.SupportedCPUs())
	assert.Equal(t, []hal.PowerState{hal.PowerStateAC, hal.PowerStateBattery, hal.PowerStateHot}, cfg.SupportedPowerStates())
	assert.Equal(t, []uint32{0, 1}, cfg.FanIndices())
	assert.Equal(t, []string{"erouter0", "brlan0"}, cfg.InterfaceNames())
	assert.Equal(t, 2, cfg.NumSupportedCPUs())
	assert.Equal(t, 3, cfg.NumSupportedPowerStates())
	assert.Equal(t, 2, cfg.NumFanIndices())
	assert.Equal(t, 2, cfg.NumFactoryCmVariants())
	assert.Equal(t, 2, cfg.NumInterfaceNames())
	assert.Equal(t, path, cfg.Source())
	assert.Empty(t, cfg.Diagnostics())
	assert.True(t, cfg.Has(fixture.KeyFanIndex))
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	cfg, err := fixture.Load(filepath.Join(t.TempDir(), "does-not-exist"))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fixture.ErrFixtureMissing))
	assert.True(t, fixture.IsFatal(err))

	var le *fixture.LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, le.File, "does-not-exist")
}

func TestLoadEmptyFileIsFatal(t *testing.T) {
	for name, content := range map[string]string{
		"zero bytes": "",
		"whitespace": " \n\t\n",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := fixture.Load(writeFixture(t, content))

			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, fixture.ErrFixtureEmpty))
			assert.True(t, fixture.IsFatal(err))
		})
	}
}

func TestLoadMalformedIsSoft(t *testing.T) {
	for name, content := range map[string]string{
		"truncated": `{"MaxEthPort": 4,`,
		"array":     `[1, 2, 3]`,
		"null":      `null`,
		"garbage":   `not json at all`,
	} {
		t.Run(name, func(t *testing.T) {
			path := writeFixture(t, content)
			cfg, err := fixture.Load(path)

			require.NotNil(t, cfg)
			assert.True(t, errors.Is(err, fixture.ErrFixtureMalformed))
			assert.False(t, fixture.IsFatal(err))
			assert.Equal(t, 0, cfg.MaxEthPort())
			assert.Equal(t, 0, cfg.NumFanIndices())
			assert.Equal(t, path, cfg.Source())
		})
	}
}

func TestParseMissingKeysAreZero(t *testing.T) {
	cfg, err := fixture.Parse([]byte(`{"MaxEthPort": 2}`))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MaxEthPort())
	assert.Equal(t, "", cfg.PartnerID())
	assert.Nil(t, cfg.FactoryCmVariants())
	assert.Equal(t, 0, cfg.NumSupportedCPUs())
	assert.False(t, cfg.Has(fixture.KeyPartnerID))
	assert.Empty(t, cfg.Diagnostics())
}

func TestParseWrongTypes(t *testing.T) {
	cfg, err := fixture.Parse([]byte(`{
		"MaxEthPort": "four",
		"PartnerID": 7,
		"FanIndex": {"a": 1},
		"InterfaceNames": null,
		"Supported_CPUS": [0, 1]
	}`))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.MaxEthPort())
	assert.Equal(t, "", cfg.PartnerID())
	assert.Equal(t, 0, cfg.NumFanIndices())
	assert.Equal(t, 0, cfg.NumInterfaceNames())
	assert.Equal(t, 2, cfg.NumSupportedCPUs())

	keys := make([]string, 0)
	for _, d := range cfg.Diagnostics() {
		keys = append(keys, d.Key)
	}
	assert.ElementsMatch(t, []string{
		fixture.KeyMaxEthPort,
		fixture.KeyPartnerID,
		fixture.KeyFanIndex,
		fixture.KeyInterfaceNames,
	}, keys)
}

func TestParseArrayMismatchAbortsOnlyThatField(t *testing.T) {
	cfg, err := fixture.Parse([]byte(`{
		"FanIndex": [0, "1", 2],
		"Supported_CPUS": [0, 1.5],
		"FactoryCmVariant": ["pc20", 3],
		"Supported_PSM_STATE": [1, 2],
		"InterfaceNames": ["erouter0"]
	}`))
	require.NoError(t, err)

	assert.Nil(t, cfg.FanIndices())
	assert.Nil(t, cfg.SupportedCPUs())
	assert.Nil(t, cfg.FactoryCmVariants())
	assert.Equal(t, []hal.PowerState{hal.PowerStateAC, hal.PowerStateBattery}, cfg.SupportedPowerStates())
	assert.Equal(t, []string{"erouter0"}, cfg.InterfaceNames())
	assert.Len(t, cfg.Diagnostics(), 3)
}

func TestParseNegativeFanIndexRejected(t *testing.T) {
	cfg, err := fixture.Parse([]byte(`{"FanIndex": [0, -1]}`))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.NumFanIndices())
	require.Len(t, cfg.Diagnostics(), 1)
	assert.Equal(t, fixture.KeyFanIndex, cfg.Diagnostics()[0].Key)
}

func TestParseIntegralFloatAccepted(t *testing.T) {
	cfg, err := fixture.Parse([]byte(`{"MaxEthPort": 4.0, "Supported_CPUS": [1e0]}`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxEthPort())
	assert.Equal(t, []hal.CPU{hal.CPUPeer}, cfg.SupportedCPUs())
}

func TestParseUnknownEnumValuesKept(t *testing.T) {
	cfg, err := fixture.Parse([]byte(`{"Supported_CPUS": [7], "Supported_PSM_STATE": [99]}`))
	require.NoError(t, err)

	assert.Equal(t, []hal.CPU{7}, cfg.SupportedCPUs())
	assert.Equal(t, []hal.PowerState{99}, cfg.SupportedPowerStates())
}

func TestAccessorsReturnCopies(t *testing.T) {
	cfg, err := fixture.Parse([]byte(fullFixture))
	require.NoError(t, err)

	fans := cfg.FanIndices()
	fans[0] = 42
	names := cfg.InterfaceNames()
	names[0] = "changed"

	assert.Equal(t, []uint32{0, 1}, cfg.FanIndices())
	assert.Equal(t, []string{"erouter0", "brlan0"}, cfg.InterfaceNames())
}

func TestLoadTwiceIsIdempotent(t *testing.T) {
	path := writeFixture(t, fullFixture)

	first, err := fixture.Load(path)
	require.NoError(t, err)
	second, err := fixture.Load(path)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}

func TestMaxEthPortBoundary(t *testing.T) {
	cfg, err := fixture.Parse([]byte(`{"MaxEthPort": 4}`))
	require.NoError(t, err)

	// Ports are zero based; the highest valid port is one below the count.
	assert.Equal(t, 3, cfg.MaxEthPort()-1)
}

func TestFanIndexProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fans := rapid.SliceOf(rapid.Uint32()).Draw(t, "fans")

		data, err := json.Marshal(map[string]any{fixture.KeyFanIndex: fans})
		require.NoError(t, err)

		cfg, err := fixture.Parse(data)
		require.NoError(t, err)

		assert.Equal(t, len(fans), cfg.NumFanIndices())
		if len(fans) > 0 {
			assert.Equal(t, fans, cfg.FanIndices())
		}
	})
}

func TestStringArrayProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfN(rapid.String(), 1, 8).Draw(t, "names")
		partner := rapid.String().Draw(t, "partner")

		data, err := json.Marshal(map[string]any{
			fixture.KeyInterfaceNames: names,
			fixture.KeyPartnerID:      partner,
		})
		require.NoError(t, err)

		cfg, err := fixture.Parse(data)
		require.NoError(t, err)

		assert.Equal(t, names, cfg.InterfaceNames())
		assert.Equal(t, partner, cfg.PartnerID())
	})
}

func TestParseNeverPanicsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")

		cfg, err := fixture.Parse(data)
		if fixture.IsFatal(err) {
			assert.Nil(t, cfg)
			return
		}
		assert.NotNil(t, cfg)
	})
}
