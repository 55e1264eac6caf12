package l1_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/l1"
	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/internal/testharness/runner"
	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/hal/sim"
)

const testFixture = "../../testdata/platform_config"

func loadFixture(t *testing.T) *fixture.Config {
	t.Helper()
	fx, err := fixture.Load(testFixture)
	require.NoError(t, err)
	return fx
}

// newEnv returns an environment backed by a simulator that matches the test
// fixture.
func newEnv(t *testing.T) (*l1.Env, *sim.Platform) {
	t.Helper()
	fx := loadFixture(t)
	p := sim.New(runner.SimOptions(fx))
	t.Cleanup(func() { _ = p.Close() })
	return &l1.Env{Platform: p, Fixture: fx, Profile: profile.Default()}, p
}

func runSuite(t *testing.T, suite *engine.Suite, timeout time.Duration) *engine.SuiteResult {
	t.Helper()
	e := engine.NewWithConfig(&engine.Config{DefaultTimeout: timeout})
	return e.RunSuite(context.Background(), suite)
}

func resultsByID(result *engine.SuiteResult) map[string]*engine.TestResult {
	out := make(map[string]*engine.TestResult, len(result.Results))
	for _, tr := range result.Results {
		out[tr.TestCase.ID] = tr
	}
	return out
}

func TestRegister(t *testing.T) {
	suite := l1.Register(&l1.Env{}, nil)

	assert.Equal(t, l1.SuiteName, suite.Name)
	assert.Equal(t, []string{
		l1.GroupIdentity,
		l1.GroupTelemetry,
		l1.GroupLED,
		l1.GroupThermal,
		l1.GroupSecurity,
		l1.GroupNetwork,
		l1.GroupDeviceState,
	}, suite.Groups())

	seen := make(map[string]bool)
	for _, tc := range suite.Cases {
		assert.False(t, seen[tc.ID], "duplicate id %s", tc.ID)
		seen[tc.ID] = true

		entryPoint, scenario, ok := strings.Cut(tc.ID, "/")
		require.True(t, ok, tc.ID)
		assert.NotEmpty(t, entryPoint)
		assert.NotEmpty(t, scenario)
		assert.True(t, strings.HasPrefix(tc.Name, entryPoint+" "), tc.Name)
		assert.NotEmpty(t, tc.Description, tc.ID)
		assert.NotNil(t, tc.Run, tc.ID)
	}

	for _, id := range []string{
		"GetFirmwareName/zero_buffer",
		"GetUsedMemorySize/invalid_cpu",
		"SetLED/invalid_interval",
		"InitThermal/unordered_thresholds",
		"StartMACsec/negative_timeout",
		"SetDscp/invalid_list",
		"ApplyQoSRules/absent_rules",
		"SetWebUITimeout/out_of_range",
	} {
		assert.True(t, seen[id], "missing %s", id)
	}
}

func TestGate(t *testing.T) {
	fx := loadFixture(t)
	prof, err := profile.Load("../../testdata/profile.yaml")
	require.NoError(t, err)
	env := &l1.Env{Fixture: fx, Profile: prof}

	tests := []struct {
		name   string
		req    string
		ok     bool
		reason string
	}{
		{"enabled feature", l1.Feature(profile.FeatureSNMP), true, ""},
		{"disabled feature", l1.Feature(profile.FeatureTelnet), false, "feature telnet disabled by profile"},
		{"present fixture key", l1.Fixture(fixture.KeyPartnerID), true, ""},
		{"unknown requirement", "hardware:wifi", false, "unknown requirement hardware:wifi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := env.Gate(tt.req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}

	t.Run("missing fixture key", func(t *testing.T) {
		env := &l1.Env{Fixture: &fixture.Config{}}
		ok, reason := env.Gate(l1.Fixture(fixture.KeyPartnerID))
		assert.False(t, ok)
		assert.Contains(t, reason, fixture.KeyPartnerID)
	})

	t.Run("nil fixture and profile", func(t *testing.T) {
		env := &l1.Env{}
		ok, _ := env.Gate(l1.Feature(profile.FeatureMACsec))
		assert.True(t, ok)
		ok, _ = env.Gate(l1.Fixture(fixture.KeyMaxEthPort))
		assert.False(t, ok)
	})
}

func TestSuitePassesAgainstSimulator(t *testing.T) {
	env, p := newEnv(t)
	suite := l1.Register(env, nil)

	result := runSuite(t, suite, 5*time.Second)

	for _, tr := range result.Results {
		assert.Equal(t, engine.StatePassed, tr.State, "%s: %v", tr.TestCase.ID, tr.Error)
	}
	assert.Equal(t, len(suite.Cases), result.PassCount)
	assert.Positive(t, p.Calls("GetFanSpeed"))
}

func TestSuiteInitPopulatesEnv(t *testing.T) {
	fx := loadFixture(t)
	env := &l1.Env{}
	suite := l1.Register(env, func(ctx context.Context) error {
		env.Fixture = fx
		env.Profile = profile.Default()
		env.Platform = sim.New(runner.SimOptions(fx))
		return nil
	})
	suite = suite.Filter(func(tc *engine.TestCase) bool {
		return tc.Group == l1.GroupDeviceState
	})

	result := runSuite(t, suite, 5*time.Second)
	assert.Zero(t, result.FailCount)
	assert.Zero(t, result.SkipCount)
}

func TestSuiteDetectsFaults(t *testing.T) {
	tests := []struct {
		entryPoint string
		fault      sim.Fault
		failing    []string
		passing    []string
	}{
		{"GetSerialNumber", sim.FaultFail, []string{"GetSerialNumber/valid"}, []string{"GetSerialNumber/absent_output"}},
		{"GetRouterRegion", sim.FaultIgnoreArgs, []string{"GetRouterRegion/absent_output"}, []string{"GetRouterRegion/valid"}},
		{"GetMemoryInfo", sim.FaultCorrupt, []string{"GetMemoryInfo/valid"}, []string{"GetMemoryInfo/invalid_cpu"}},
		{"GetInterfaceStats", sim.FaultCorrupt, []string{"GetInterfaceStats/valid"}, []string{"GetInterfaceStats/unknown_interface"}},
		{"GetDhcpv4Options", sim.FaultCorrupt, []string{"GetDhcpv4Options/valid"}, nil},
		{"GetDscpClientList", sim.FaultCorrupt, []string{"GetDscpClientList/valid"}, []string{"GetDscpClientList/absent_output"}},
		{"SetWebUITimeout", sim.FaultIgnoreArgs, []string{"SetWebUITimeout/out_of_range"}, []string{"SetWebUITimeout/boundary"}},
		{"GetLED", sim.FaultPanic, []string{"GetLED/valid", "GetLED/absent_output"}, nil},
		{"SetFanSpeed", sim.FaultIgnoreArgs, []string{"SetFanSpeed/absent_reason", "SetFanSpeed/invalid_speed", "SetFanSpeed/invalid_fan"}, []string{"SetFanSpeed/valid"}},
	}
	for _, tt := range tests {
		t.Run(tt.entryPoint+"_"+tt.fault.String(), func(t *testing.T) {
			env, p := newEnv(t)
			p.Inject(tt.entryPoint, tt.fault)
			suite := l1.Register(env, nil).Filter(func(tc *engine.TestCase) bool {
				return strings.HasPrefix(tc.ID, tt.entryPoint+"/")
			})
			require.NotEmpty(t, suite.Cases)

			results := resultsByID(runSuite(t, suite, 5*time.Second))
			for _, id := range tt.failing {
				require.Contains(t, results, id)
				assert.Equal(t, engine.StateFailed, results[id].State, id)
			}
			for _, id := range tt.passing {
				require.Contains(t, results, id)
				assert.Equal(t, engine.StatePassed, results[id].State, "%s: %v", id, results[id].Error)
			}
		})
	}
}

func TestSuiteAbandonsHungCall(t *testing.T) {
	env, p := newEnv(t)
	p.Inject("GetFanTemperature", sim.FaultHang)
	suite := l1.Register(env, nil).Filter(func(tc *engine.TestCase) bool {
		return tc.ID == "GetFanTemperature/valid" || tc.ID == "GetFanSpeed/valid"
	})

	results := resultsByID(runSuite(t, suite, 100*time.Millisecond))
	assert.Equal(t, engine.StateFailed, results["GetFanTemperature/valid"].State)
	assert.Equal(t, engine.StatePassed, results["GetFanSpeed/valid"].State)
}

func TestSuiteSkipsDisabledFeatures(t *testing.T) {
	env, _ := newEnv(t)
	prof, err := profile.Load("../../testdata/profile.yaml")
	require.NoError(t, err)
	env.Profile = prof

	suite := l1.Register(env, nil).Filter(func(tc *engine.TestCase) bool {
		return tc.Group == l1.GroupSecurity
	})
	result := runSuite(t, suite, 5*time.Second)

	assert.Zero(t, result.FailCount)
	for _, tr := range result.Results {
		if strings.Contains(tr.TestCase.ID, "Telnet") {
			assert.Equal(t, engine.StateSkipped, tr.State, tr.TestCase.ID)
		}
	}
}

func TestSuiteWithEmptyFixture(t *testing.T) {
	p := sim.New(sim.DefaultOptions())
	t.Cleanup(func() { _ = p.Close() })
	env := &l1.Env{Platform: p, Fixture: &fixture.Config{}, Profile: profile.Default()}

	results := resultsByID(runSuite(t, l1.Register(env, nil), 5*time.Second))

	for id, tr := range results {
		assert.NotEqual(t, engine.StateFailed, tr.State, "%s: %v", id, tr.Error)
	}
	assert.Equal(t, engine.StateSkipped, results["GetFactoryPartnerID/valid"].State)
	assert.Equal(t, engine.StateSkipped, results["GetMACsecEnable/invalid_port"].State)
	// Data driven cases iterate zero times and pass.
	assert.Equal(t, engine.StatePassed, results["GetFanSpeed/valid"].State)
	assert.Zero(t, results["GetFanSpeed/valid"].Calls)
}

func TestDataDrivenCasesFollowFixture(t *testing.T) {
	fx, err := fixture.Parse([]byte(`{"Supported_CPUS": [0, 1], "MaxEthPort": 4}`))
	require.NoError(t, err)
	p := sim.New(runner.SimOptions(fx))
	t.Cleanup(func() { _ = p.Close() })
	env := &l1.Env{Platform: p, Fixture: fx, Profile: profile.Default()}

	suite := l1.Register(env, nil).Filter(func(tc *engine.TestCase) bool {
		return tc.ID == "GetUsedMemorySize/valid" || tc.ID == "GetMACsecEnable/invalid_port"
	})
	results := resultsByID(runSuite(t, suite, 5*time.Second))

	require.Len(t, results, 2)
	for id, tr := range results {
		assert.Equal(t, engine.StatePassed, tr.State, "%s: %v", id, tr.Error)
	}
	// One call per supported CPU.
	assert.Equal(t, 2, p.Calls("GetUsedMemorySize"))
	// Ports -1 and MaxEthPort are exercised; MaxEthPort-1 is the last valid one.
	assert.Equal(t, 2, p.Calls("GetMACsecEnable"))

	out := hal.NewOut[bool]()
	assert.NoError(t, p.GetMACsecEnable(context.Background(), fx.MaxEthPort()-1, out))
	assert.Error(t, p.GetMACsecEnable(context.Background(), fx.MaxEthPort(), out))
}

func TestFailedCheckStopsDataDrivenLoop(t *testing.T) {
	fx, err := fixture.Parse([]byte(`{"Supported_CPUS": [0, 1], "MaxEthPort": 4}`))
	require.NoError(t, err)
	p := sim.New(runner.SimOptions(fx))
	t.Cleanup(func() { _ = p.Close() })
	p.Inject("GetUsedMemorySize", sim.FaultFail)
	p.Inject("SetMACsecEnable", sim.FaultIgnoreArgs)
	env := &l1.Env{Platform: p, Fixture: fx, Profile: profile.Default()}

	suite := l1.Register(env, nil).Filter(func(tc *engine.TestCase) bool {
		return tc.ID == "GetUsedMemorySize/valid" || tc.ID == "SetMACsecEnable/invalid_port"
	})
	results := resultsByID(runSuite(t, suite, 5*time.Second))

	require.Len(t, results, 2)
	for id, tr := range results {
		assert.Equal(t, engine.StateFailed, tr.State, id)
	}
	// The first CPU fails, the second is never asked.
	assert.Equal(t, 1, p.Calls("GetUsedMemorySize"))
	// Port -1 is accepted, MaxEthPort is never tried.
	assert.Equal(t, 1, p.Calls("SetMACsecEnable"))
}

func TestDscpClientWithoutCounters(t *testing.T) {
	opts := sim.DefaultOptions()
	opts.Clients = []hal.DSCPClient{{MAC: "11:22:33:44:55:66"}}
	p := sim.New(opts)
	t.Cleanup(func() { _ = p.Close() })
	env := &l1.Env{Platform: p, Fixture: &fixture.Config{}, Profile: profile.Default()}

	suite := l1.Register(env, nil).Filter(func(tc *engine.TestCase) bool {
		return tc.ID == "GetDscpClientList/valid"
	})
	results := resultsByID(runSuite(t, suite, 5*time.Second))

	tr := results["GetDscpClientList/valid"]
	require.NotNil(t, tr)
	assert.Equal(t, engine.StateFailed, tr.State)
	require.Error(t, tr.Error)
	assert.Contains(t, tr.Error.Error(), "dscp counters is empty")
}
