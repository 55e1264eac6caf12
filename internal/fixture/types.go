// Package fixture loads the platform fixture file that parameterises the L1
// suite for a particular device model.
package fixture

import (
	"errors"
	"slices"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// DefaultPath is where the fixture is expected, relative to the working
// directory of the test binary.
const DefaultPath = "./platform_config"

// JSON keys recognised in the fixture file.
const (
	KeyMaxEthPort       = "MaxEthPort"
	KeyPartnerID        = "PartnerID"
	KeyFactoryCmVariant = "FactoryCmVariant"
	KeySupportedCPUs    = "Supported_CPUS"
	KeySupportedPSM     = "Supported_PSM_STATE"
	KeyFanIndex         = "FanIndex"
	KeyInterfaceNames   = "InterfaceNames"
)

// Loader errors.
var (
	// ErrFixtureMissing means the fixture file could not be opened. Fatal.
	ErrFixtureMissing = errors.New("fixture file missing")

	// ErrFixtureEmpty means the fixture file has no content. Fatal.
	ErrFixtureEmpty = errors.New("fixture file empty")

	// ErrFixtureMalformed means the file is not a JSON object. The returned
	// Config is empty and the run continues.
	ErrFixtureMalformed = errors.New("fixture file is not valid JSON")
)

// IsFatal reports whether err must abort the run before any test executes.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFixtureMissing) || errors.Is(err, ErrFixtureEmpty)
}

// LoadError provides details about a fixture loading error.
type LoadError struct {
	// File is the path of the fixture file.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.File == "" {
		return e.Message
	}
	return e.File + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Diagnostic is a soft problem found while loading a key.
type Diagnostic struct {
	Key     string
	Message string
}

func (d Diagnostic) String() string {
	return d.Key + ": " + d.Message
}

// Config is the immutable fixture. The zero value is an empty fixture.
type Config struct {
	maxEthPort        int
	partnerID         string
	factoryCmVariants []string
	supportedCPUs     []hal.CPU
	powerStates       []hal.PowerState
	fanIndices        []uint32
	interfaceNames    []string

	source      string
	diagnostics []Diagnostic
}

// MaxEthPort returns the number of Ethernet ports, 0 when absent.
func (c *Config) MaxEthPort() int { return c.maxEthPort }

// PartnerID returns the expected partner ID, "" when absent.
func (c *Config) PartnerID() string { return c.partnerID }

// FactoryCmVariants returns the accepted factory CM variants.
func (c *Config) FactoryCmVariants() []string { return slices.Clone(c.factoryCmVariants) }

// SupportedCPUs returns the CPUs whose memory counters are queried.
func (c *Config) SupportedCPUs() []hal.CPU { return slices.Clone(c.supportedCPUs) }

// SupportedPowerStates returns the power-save states the device supports.
func (c *Config) SupportedPowerStates() []hal.PowerState { return slices.Clone(c.powerStates) }

// FanIndices returns the fan indices to exercise.
func (c *Config) FanIndices() []uint32 { return slices.Clone(c.fanIndices) }

// InterfaceNames returns the network interfaces to query.
func (c *Config) InterfaceNames() []string { return slices.Clone(c.interfaceNames) }

// NumSupportedCPUs returns len(SupportedCPUs()).
func (c *Config) NumSupportedCPUs() int { return len(c.supportedCPUs) }

// NumSupportedPowerStates returns len(SupportedPowerStates()).
func (c *Config) NumSupportedPowerStates() int { return len(c.powerStates) }

// NumFanIndices returns len(FanIndices()).
func (c *Config) NumFanIndices() int { return len(c.fanIndices) }

// NumFactoryCmVariants returns len(FactoryCmVariants()).
func (c *Config) NumFactoryCmVariants() int { return len(c.factoryCmVariants) }

// NumInterfaceNames returns len(InterfaceNames()).
func (c *Config) NumInterfaceNames() int { return len(c.interfaceNames) }

// Source returns the path the fixture was loaded from, if any.
func (c *Config) Source() string { return c.source }

// Diagnostics returns the soft problems found while loading.
func (c *Config) Diagnostics() []Diagnostic { return slices.Clone(c.diagnostics) }

// Has reports whether the fixture provides data for key.
func (c *Config) Has(key string) bool {
	switch key {
	case KeyMaxEthPort:
		return c.maxEthPort > 0
	case KeyPartnerID:
		return c.partnerID != ""
	case KeyFactoryCmVariant:
		return len(c.factoryCmVariants) > 0
	case KeySupportedCPUs:
		return len(c.supportedCPUs) > 0
	case KeySupportedPSM:
		return len(c.powerStates) > 0
	case KeyFanIndex:
		return len(c.fanIndices) > 0
	case KeyInterfaceNames:
		return len(c.interfaceNames) > 0
	default:
		return false
	}
}
