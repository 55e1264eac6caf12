package hal

import "fmt"

// CPU identifies a processor complex on the platform (RDK_CPUS).
type CPU int

const (
	// CPUHost is the application processor.
	CPUHost CPU = 0
	// CPUPeer is the peer (e.g. cable modem) processor.
	CPUPeer CPU = 1
)

// String returns the CPU name.
func (c CPU) String() string {
	switch c {
	case CPUHost:
		return "HOST_CPU"
	case CPUPeer:
		return "PEER_CPU"
	default:
		return fmt.Sprintf("CPU(%d)", int(c))
	}
}

// Valid reports whether c is a known CPU.
func (c CPU) Valid() bool {
	return c == CPUHost || c == CPUPeer
}

// PowerState is a power-save mode state (PSM_STATE).
type PowerState int

const (
	PowerStateNotSupported PowerState = 0
	PowerStateAC           PowerState = 1
	PowerStateBattery      PowerState = 2
	PowerStateHot          PowerState = 3
	PowerStateCooled       PowerState = 4
)

// String returns the power state name.
func (s PowerState) String() string {
	switch s {
	case PowerStateNotSupported:
		return "PSM_NOT_SUPPORTED"
	case PowerStateAC:
		return "PSM_AC"
	case PowerStateBattery:
		return "PSM_BATT"
	case PowerStateHot:
		return "PSM_HOT"
	case PowerStateCooled:
		return "PSM_COOLED"
	default:
		return fmt.Sprintf("PowerState(%d)", int(s))
	}
}

// Valid reports whether s is a known power state.
func (s PowerState) Valid() bool {
	return s >= PowerStateNotSupported && s <= PowerStateCooled
}

// LEDColor is an LED colour (LED_COLOR).
type LEDColor int

const (
	LEDWhite LEDColor = iota
	LEDYellow
	LEDGreen
	LEDRed
	LEDBlue
	LEDOrange
	LEDPurple

	// LEDColorMax is the highest valid colour.
	LEDColorMax = LEDPurple
)

// LEDState is the LED mode.
type LEDState int

const (
	LEDSolid LEDState = 0
	LEDBlink LEDState = 1
)

// LEDParams is the LED management parameter block.
type LEDParams struct {
	Color    LEDColor
	State    LEDState
	Interval int // blink interval in seconds, 0 when solid
}

// FanSpeed is a fan speed setting.
type FanSpeed int

const (
	FanSpeedOff FanSpeed = iota
	FanSpeedSlow
	FanSpeedMedium
	FanSpeedFast
	FanSpeedMax
)

// FanError is the reason reported by SetFanSpeed.
type FanError int

const (
	FanErrNone FanError = iota
	FanErrHardware
	FanErrMaxOverrideSet
)

// String returns the fan error name.
func (e FanError) String() string {
	switch e {
	case FanErrNone:
		return "FAN_ERR_NONE"
	case FanErrHardware:
		return "FAN_ERR_HW"
	case FanErrMaxOverrideSet:
		return "FAN_ERR_MAX_OVERRIDE_SET"
	default:
		return fmt.Sprintf("FanError(%d)", int(e))
	}
}

// RotorLock is the rotor lock status of a fan.
type RotorLock int

const (
	RotorNotApplicable RotorLock = -1
	RotorRunning       RotorLock = 0
	RotorLocked        RotorLock = 1
)

// ThermalConfig configures the thermal manager at InitThermal.
type ThermalConfig struct {
	FanCount          int
	SlowThreshold     int // degrees Celsius
	MediumThreshold   int
	FastThreshold     int
	MinRunningSeconds int
}

// MemInfo is the memory summary of one CPU, in kilobytes.
type MemInfo struct {
	TotalKB uint64
	UsedKB  uint64
	FreeKB  uint64
}

// WANInterface selects the WAN interface for DSCP operations.
type WANInterface int

const (
	WANDocsis   WANInterface = 1
	WANEthernet WANInterface = 2
)

// TrafficCommand starts or stops DSCP traffic counting.
type TrafficCommand int

const (
	TrafficCountStart TrafficCommand = 1
	TrafficCountStop  TrafficCommand = 2
)

// DSCPCount holds the counters of one DSCP value for a client.
type DSCPCount struct {
	DSCP    int
	RxBytes uint64
	TxBytes uint64
}

// DSCPClient is the traffic accounting of one client MAC.
type DSCPClient struct {
	MAC    string
	Counts []DSCPCount
}

// DHCPOption is one DHCP option tag with its value.
type DHCPOption struct {
	Tag   int
	Value string
}

// InterfaceStats are the counters of a network interface.
type InterfaceStats struct {
	RxBytes   uint64
	TxBytes   uint64
	RxPackets uint64
	TxPackets uint64
	RxErrors  uint64
	TxErrors  uint64
}

// PPPCredentials are the PPPoE login credentials.
type PPPCredentials struct {
	Username string
	Password string
}

// FirmwareBank selects a firmware bank.
type FirmwareBank int

const (
	BankActive   FirmwareBank = 0
	BankInactive FirmwareBank = 1
)

// FirmwareBankInfo describes the image in a firmware bank.
type FirmwareBankInfo struct {
	ImageName string
	State     string // "Active" or "Inactive"
}

// QoSRule is a traffic classification rule.
type QoSRule struct {
	Name      string
	Interface string
	DSCP      int // 0-63
	Priority  int // 0-7
}
