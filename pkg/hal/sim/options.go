package sim

import "github.com/platform-hal/hal-l1test/pkg/hal"

// Options describes the simulated device.
type Options struct {
	FirmwareName      string
	SoftwareVersion   string
	SerialNumber      string
	ModelName         string
	HardwareVersion   string
	BootloaderVersion string
	RouterRegion      string
	BaseMAC           string
	CMTSMAC           string
	CPUSpeed          string
	DeviceConfig      string

	PartnerID         string
	CmVariant         string
	FactoryCmVariants []string

	CPUs        []hal.CPU
	MemTotalKB  uint64
	MemUsedKB   uint64
	FlashSizeMB uint64

	FanCount int
	EthPorts int

	PowerState hal.PowerState
	Interfaces []string
	SNMPMode   string
	SNMPModes  []string

	PPP           hal.PPPCredentials
	DHCPv4Options []hal.DHCPOption
	DHCPv6Options []hal.DHCPOption
	Clients       []hal.DSCPClient
	Banks         [2]hal.FirmwareBankInfo

	ResetCount   uint32
	WebUITimeout uint32
}

// Limits used for argument checks.
const (
	MinWebUITimeout = 30
	MaxWebUITimeout = 86400
	MaxDSCP         = 65534
	MaxQoSDSCP      = 63
	MaxQoSPriority  = 7
	MaxTemperature  = 100
)

// DefaultOptions returns a plausible dual-CPU gateway with two fans and four
// Ethernet ports.
func DefaultOptions() Options {
	return Options{
		FirmwareName:      "SIMGW_4.6p1s1_PROD_sey",
		SoftwareVersion:   "4.6p1s1",
		SerialNumber:      "SIM0123456789",
		ModelName:         "SIMGW-4",
		HardwareVersion:   "1.2",
		BootloaderVersion: "S1.1.9",
		RouterRegion:      "REGN_GBR",
		BaseMAC:           "AA:BB:CC:00:11:22",
		CMTSMAC:           "00:1a:2b:3c:4d:5e",
		CPUSpeed:          "1500",
		DeviceConfig:      "Complete",

		PartnerID:         "sim-partner",
		CmVariant:         "unknown",
		FactoryCmVariants: []string{"unknown", "pc20", "pc15sip", "pc15mgcp"},

		CPUs:        []hal.CPU{hal.CPUHost, hal.CPUPeer},
		MemTotalKB:  1048576,
		MemUsedKB:   412000,
		FlashSizeMB: 512,

		FanCount: 2,
		EthPorts: 4,

		PowerState: hal.PowerStateAC,
		Interfaces: []string{"erouter0", "brlan0", "wan0"},
		SNMPMode:   "rgWan",
		SNMPModes:  []string{"rgWan", "rgDualIp", "rgLanIp"},

		PPP: hal.PPPCredentials{Username: "user@isp", Password: "secret"},
		DHCPv4Options: []hal.DHCPOption{
			{Tag: 1, Value: "255.255.255.0"},
			{Tag: 3, Value: "192.168.0.1"},
			{Tag: 6, Value: "192.168.0.1"},
			{Tag: 43, Value: "vendor"},
		},
		DHCPv6Options: []hal.DHCPOption{
			{Tag: 23, Value: "2001:db8::1"},
			{Tag: 24, Value: "example.net"},
		},
		Clients: []hal.DSCPClient{
			{MAC: "11:22:33:44:55:66", Counts: []hal.DSCPCount{{DSCP: 0, RxBytes: 1000, TxBytes: 200}, {DSCP: 46, RxBytes: 50, TxBytes: 50}}},
		},
		Banks: [2]hal.FirmwareBankInfo{
			{ImageName: "SIMGW_4.6p1s1_PROD_sey", State: "Active"},
			{ImageName: "SIMGW_4.5p2s3_PROD_sey", State: "Inactive"},
		},

		ResetCount:   3,
		WebUITimeout: 600,
	}
}
