package hal

import "context"

// Identity covers device identification entry points.
type Identity interface {
	GetFirmwareName(ctx context.Context, out *Out[string], maxLen int) error
	GetSoftwareVersion(ctx context.Context, out *Out[string], maxLen int) error
	GetSerialNumber(ctx context.Context, out *Out[string]) error
	GetModelName(ctx context.Context, out *Out[string]) error
	GetHardwareVersion(ctx context.Context, out *Out[string]) error
	GetBootloaderVersion(ctx context.Context, out *Out[string], maxLen int) error
	GetRouterRegion(ctx context.Context, out *Out[string]) error
	GetBaseMacAddress(ctx context.Context, out *Out[string]) error
	GetCMTSMac(ctx context.Context, out *Out[string]) error
}

// Telemetry covers memory and CPU counters.
type Telemetry interface {
	GetUsedMemorySize(ctx context.Context, cpu CPU, out *Out[uint64]) error
	GetFreeMemorySize(ctx context.Context, cpu CPU, out *Out[uint64]) error
	GetTotalMemorySize(ctx context.Context, out *Out[uint64]) error
	GetMemoryInfo(ctx context.Context, cpu CPU, out *Out[MemInfo]) error
	GetCPUSpeed(ctx context.Context, out *Out[string]) error
	GetFlashSize(ctx context.Context, out *Out[uint64]) error
}

// LEDControl covers the front panel LED.
type LEDControl interface {
	SetLED(ctx context.Context, params *LEDParams) error
	GetLED(ctx context.Context, out *Out[LEDParams]) error
}

// Thermal covers the thermal manager and fans.
type Thermal interface {
	InitThermal(ctx context.Context, cfg *ThermalConfig) error
	GetFanSpeed(ctx context.Context, fan uint32, out *Out[uint32]) error
	SetFanSpeed(ctx context.Context, fan uint32, speed FanSpeed, reason *Out[FanError]) error
	GetRotorLock(ctx context.Context, fan uint32, out *Out[RotorLock]) error
	SetFanMaxOverride(ctx context.Context, enable bool, fan uint32) error
	GetFanTemperature(ctx context.Context, out *Out[int]) error
}

// Security covers MACsec and management access flags.
type Security interface {
	GetMACsecEnable(ctx context.Context, port int, out *Out[bool]) error
	SetMACsecEnable(ctx context.Context, port int, enable bool) error
	GetMACsecOperationalStatus(ctx context.Context, port int, out *Out[bool]) error
	StartMACsec(ctx context.Context, port int, timeoutSec int) error
	StopMACsec(ctx context.Context, port int) error
	GetSSHEnable(ctx context.Context, out *Out[bool]) error
	SetSSHEnable(ctx context.Context, enable bool) error
	GetTelnetEnable(ctx context.Context, out *Out[bool]) error
	SetTelnetEnable(ctx context.Context, enable bool) error
	GetSNMPEnable(ctx context.Context, out *Out[string]) error
	SetSNMPEnable(ctx context.Context, mode string) error
}

// Network covers DSCP accounting, DHCP option lists and interface counters.
type Network interface {
	SetDscp(ctx context.Context, iface WANInterface, cmd TrafficCommand, dscpList string) error
	GetDscpClientList(ctx context.Context, iface WANInterface, out *Out[[]DSCPClient]) error
	GetDhcpv4Options(ctx context.Context, req, send *Out[[]DHCPOption]) error
	GetDhcpv6Options(ctx context.Context, req, send *Out[[]DHCPOption]) error
	GetInterfaceStats(ctx context.Context, name string, out *Out[InterfaceStats]) error
	ApplyQoSRules(ctx context.Context, rules []QoSRule) error
}

// DeviceState covers miscellaneous persistent device state.
type DeviceState interface {
	GetFactoryResetCount(ctx context.Context, out *Out[uint32]) error
	ClearResetCount(ctx context.Context, enable bool) error
	GetFactoryPartnerID(ctx context.Context, out *Out[string]) error
	GetFactoryCmVariant(ctx context.Context, out *Out[string]) error
	SetFactoryCmVariant(ctx context.Context, variant string) error
	GetPPPCredentials(ctx context.Context, out *Out[PPPCredentials]) error
	GetLowPowerModeState(ctx context.Context, out *Out[PowerState]) error
	GetFirmwareBankInfo(ctx context.Context, bank FirmwareBank, out *Out[FirmwareBankInfo]) error
	GetWebUITimeout(ctx context.Context, out *Out[uint32]) error
	SetWebUITimeout(ctx context.Context, seconds uint32) error
	GetDeviceConfigStatus(ctx context.Context, out *Out[string]) error
}

// Platform is the complete HAL contract.
type Platform interface {
	Identity
	Telemetry
	LEDControl
	Thermal
	Security
	Network
	DeviceState

	// Close releases the platform. It is safe to call more than once.
	Close() error
}
