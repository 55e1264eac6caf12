package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func TestRegisteredDriver(t *testing.T) {
	p, err := hal.Open(context.Background(), DriverName)
	require.NoError(t, err)
	defer p.Close()

	name := hal.NewOut[string]()
	require.NoError(t, p.GetModelName(context.Background(), name))
	assert.Equal(t, DefaultOptions().ModelName, name.Value())
}

func TestAbsentOutputIsRejected(t *testing.T) {
	ctx := context.Background()
	p := New(DefaultOptions())

	assert.ErrorIs(t, p.GetSerialNumber(ctx, hal.Absent[string]()), hal.ErrInvalidArgument)
	assert.ErrorIs(t, p.GetTotalMemorySize(ctx, hal.Absent[uint64]()), hal.ErrInvalidArgument)
	assert.ErrorIs(t, p.GetLED(ctx, hal.Absent[hal.LEDParams]()), hal.ErrInvalidArgument)
	assert.ErrorIs(t, p.SetFanSpeed(ctx, 0, hal.FanSpeedSlow, hal.Absent[hal.FanError]()), hal.ErrInvalidArgument)
	assert.ErrorIs(t, p.GetDhcpv4Options(ctx, hal.NewOut[[]hal.DHCPOption](), nil), hal.ErrInvalidArgument)
}

func TestStringBufferSize(t *testing.T) {
	ctx := context.Background()
	p := New(DefaultOptions())
	fw := DefaultOptions().FirmwareName

	out := hal.NewOut[string]()
	assert.Error(t, p.GetFirmwareName(ctx, out, len(fw)))
	assert.False(t, out.Written())

	require.NoError(t, p.GetFirmwareName(ctx, out, len(fw)+1))
	assert.Equal(t, fw, out.Value())
	assert.Error(t, p.GetSoftwareVersion(ctx, hal.NewOut[string](), 0))
}

func TestLEDRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := New(DefaultOptions())

	want := hal.LEDParams{Color: hal.LEDRed, State: hal.LEDBlink, Interval: 3}
	require.NoError(t, p.SetLED(ctx, &want))

	got := hal.NewOut[hal.LEDParams]()
	require.NoError(t, p.GetLED(ctx, got))
	assert.Equal(t, want, got.Value())

	assert.ErrorIs(t, p.SetLED(ctx, &hal.LEDParams{Color: 7}), hal.ErrOutOfRange)
	assert.ErrorIs(t, p.SetLED(ctx, &hal.LEDParams{State: 2}), hal.ErrOutOfRange)
	assert.ErrorIs(t, p.SetLED(ctx, &hal.LEDParams{Interval: 2}), hal.ErrOutOfRange)
	assert.ErrorIs(t, p.SetLED(ctx, nil), hal.ErrInvalidArgument)
}

func TestFanOverride(t *testing.T) {
	ctx := context.Background()
	p := New(DefaultOptions())

	require.NoError(t, p.SetFanMaxOverride(ctx, true, 1))
	reason := hal.NewOut[hal.FanError]()
	err := p.SetFanSpeed(ctx, 1, hal.FanSpeedSlow, reason)
	assert.Error(t, err)
	assert.Equal(t, hal.FanErrMaxOverrideSet, reason.Value())

	require.NoError(t, p.SetFanMaxOverride(ctx, false, 1))
	require.NoError(t, p.SetFanSpeed(ctx, 1, hal.FanSpeedMedium, reason))
	assert.Equal(t, hal.FanErrNone, reason.Value())

	rpm := hal.NewOut[uint32]()
	require.NoError(t, p.GetFanSpeed(ctx, 1, rpm))
	assert.Equal(t, rpmFor(hal.FanSpeedMedium), rpm.Value())

	assert.ErrorIs(t, p.GetFanSpeed(ctx, 2, rpm), hal.ErrOutOfRange)
}

func TestMACsecLifecycle(t *testing.T) {
	ctx := context.Background()
	p := New(DefaultOptions())

	status := hal.NewOut[bool]()
	require.NoError(t, p.StartMACsec(ctx, 3, 10))
	require.NoError(t, p.GetMACsecOperationalStatus(ctx, 3, status))
	assert.True(t, status.Value())

	require.NoError(t, p.StopMACsec(ctx, 3))
	require.NoError(t, p.GetMACsecOperationalStatus(ctx, 3, status))
	assert.False(t, status.Value())

	assert.ErrorIs(t, p.StartMACsec(ctx, 4, 10), hal.ErrOutOfRange)
	assert.ErrorIs(t, p.StartMACsec(ctx, 0, -1), hal.ErrOutOfRange)
}

func TestSetDscp(t *testing.T) {
	ctx := context.Background()
	p := New(DefaultOptions())

	assert.NoError(t, p.SetDscp(ctx, hal.WANDocsis, hal.TrafficCountStart, "0,10,46"))
	assert.NoError(t, p.SetDscp(ctx, hal.WANDocsis, hal.TrafficCountStop, ""))
	assert.Error(t, p.SetDscp(ctx, hal.WANDocsis, hal.TrafficCountStart, ""))
	assert.Error(t, p.SetDscp(ctx, hal.WANDocsis, hal.TrafficCountStart, "65535"))
	assert.Error(t, p.SetDscp(ctx, 3, hal.TrafficCountStart, "0"))
	assert.Error(t, p.SetDscp(ctx, hal.WANEthernet, 9, "0"))
}

func TestFaults(t *testing.T) {
	ctx := context.Background()

	t.Run("ignore args", func(t *testing.T) {
		p := New(DefaultOptions())
		p.Inject("GetSerialNumber", FaultIgnoreArgs)
		assert.NoError(t, p.GetSerialNumber(ctx, nil))
		p.Inject("GetSerialNumber", FaultNone)
		assert.Error(t, p.GetSerialNumber(ctx, nil))
	})

	t.Run("corrupt", func(t *testing.T) {
		p := New(DefaultOptions())
		p.Inject("GetBaseMacAddress", FaultCorrupt)
		mac := hal.NewOut[string]()
		require.NoError(t, p.GetBaseMacAddress(ctx, mac))
		assert.Equal(t, "AA-BB-CC-00-11-22", mac.Value())
	})

	t.Run("fail", func(t *testing.T) {
		p := New(DefaultOptions())
		p.Inject("GetModelName", FaultFail)
		assert.ErrorIs(t, p.GetModelName(ctx, hal.NewOut[string]()), hal.ErrFailure)
		p.Reset()
		assert.NoError(t, p.GetModelName(ctx, hal.NewOut[string]()))
		assert.Equal(t, 2, p.Calls("GetModelName"))
	})

	t.Run("hang", func(t *testing.T) {
		p := New(DefaultOptions())
		p.Inject("GetCPUSpeed", FaultHang)
		hctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, p.GetCPUSpeed(hctx, hal.NewOut[string]()), context.DeadlineExceeded)
	})

	t.Run("panic", func(t *testing.T) {
		p := New(DefaultOptions())
		p.Inject("GetCPUSpeed", FaultPanic)
		assert.Panics(t, func() { _ = p.GetCPUSpeed(ctx, hal.NewOut[string]()) })
		// The lock must not be held after the panic.
		p.Reset()
		assert.NoError(t, p.GetCPUSpeed(ctx, hal.NewOut[string]()))
	})
}

func TestClosed(t *testing.T) {
	p := New(DefaultOptions())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.GetModelName(context.Background(), hal.NewOut[string]()), hal.ErrFailure)
}
