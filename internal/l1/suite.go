// Package l1 contains the Level 1 test cases: one case per HAL entry point
// per scenario (valid input, absent output, out of range, boundary).
package l1

import (
	"context"
	"slices"
	"strings"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/internal/testharness/validate"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// SuiteName is the name the suite reports under.
const SuiteName = "hal-l1"

// Test groups in registration order.
const (
	GroupIdentity    = "identity"
	GroupTelemetry   = "telemetry"
	GroupLED         = "led"
	GroupThermal     = "thermal"
	GroupSecurity    = "security"
	GroupNetwork     = "network"
	GroupDeviceState = "device_state"
)

// Env is what the test cases run against. The init hook fills it in before
// the first case runs; cases read it only from their Run functions.
type Env struct {
	Platform hal.Platform
	Fixture  *fixture.Config
	Profile  *profile.Profile
}

func (e *Env) validators() *validate.Validators {
	return validate.For(e.Profile)
}

func (e *Env) fixture() *fixture.Config {
	if e.Fixture == nil {
		return &fixture.Config{}
	}
	return e.Fixture
}

// Requirement prefixes understood by Gate.
const (
	requireFeature = "feature:"
	requireFixture = "fixture:"
)

// Feature returns the requirement for a profile feature.
func Feature(name string) string { return requireFeature + name }

// Fixture returns the requirement for a fixture key.
func Fixture(key string) string { return requireFixture + key }

// Gate decides whether a requirement holds for the loaded fixture and
// profile.
func (e *Env) Gate(req string) (bool, string) {
	switch {
	case strings.HasPrefix(req, requireFeature):
		name := strings.TrimPrefix(req, requireFeature)
		if e.Profile != nil && !e.Profile.Enabled(name) {
			return false, "feature " + name + " disabled by profile"
		}
		return true, ""
	case strings.HasPrefix(req, requireFixture):
		key := strings.TrimPrefix(req, requireFixture)
		if !e.fixture().Has(key) {
			return false, "fixture provides no " + key
		}
		return true, ""
	default:
		return false, "unknown requirement " + req
	}
}

// Register returns the suite in registration order. init runs once before
// the first case and is expected to populate env.
func Register(env *Env, init func(ctx context.Context) error) *engine.Suite {
	var cases []*engine.TestCase
	cases = append(cases, identityCases(env)...)
	cases = append(cases, telemetryCases(env)...)
	cases = append(cases, ledCases(env)...)
	cases = append(cases, thermalCases(env)...)
	cases = append(cases, securityCases(env)...)
	cases = append(cases, networkCases(env)...)
	cases = append(cases, deviceStateCases(env)...)
	return &engine.Suite{
		Name:  SuiteName,
		Init:  init,
		Gate:  env.Gate,
		Cases: cases,
	}
}

// newCase builds a case with an ID of the form "<EntryPoint>/<scenario>".
func newCase(group, entryPoint, scenario, desc string, run func(t *engine.T), requires ...string) *engine.TestCase {
	return &engine.TestCase{
		ID:          entryPoint + "/" + scenario,
		Name:        entryPoint + " " + strings.ReplaceAll(scenario, "_", " "),
		Group:       group,
		Description: desc,
		Requires:    requires,
		Run:         run,
	}
}

// requireOK calls the entry point and stops the test unless it returns OK.
func requireOK(t *engine.T, entryPoint string, fn func(ctx context.Context) error) {
	t.RequireOK(entryPoint, t.Call(entryPoint, fn))
}

// expectOK calls the entry point and records whether it returned OK.
func expectOK(t *engine.T, entryPoint string, fn func(ctx context.Context) error) bool {
	return t.ExpectOK(entryPoint, t.Call(entryPoint, fn))
}

// expectError calls the entry point and records whether it returned ERROR.
func expectError(t *engine.T, entryPoint string, fn func(ctx context.Context) error) {
	t.ExpectError(entryPoint, t.Call(entryPoint, fn))
}

// firstOutside returns the smallest non-negative value not in set.
func firstOutside(set []int64) int64 {
	v := int64(0)
	for slices.Contains(set, v) {
		v++
	}
	return v
}
