// Package validate checks the shape of values returned by a HAL: MAC
// address strings, bounded integers and members of known value sets.
//
// Every function returns an *assertions.Result so callers can record the
// outcome directly.
package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
)

// MACLength is the length of a colon separated MAC address string.
const MACLength = 17

// Integer is the set of types the bounded validators accept.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// MACAddress checks s is six colon separated pairs of hex digits, for
// example "00:1a:2b:3c:4d:5e". Case is not significant.
func MACAddress(s string) *assertions.Result {
	if len(s) != MACLength {
		return assertions.Fail(fmt.Sprintf("MAC %q has length %d", s, len(s)), MACLength, len(s))
	}
	for i := 0; i < MACLength; i++ {
		c := s[i]
		if i%3 == 2 {
			if c != ':' {
				return assertions.Fail(fmt.Sprintf("MAC %q: expected ':' at offset %d", s, i), ":", string(c))
			}
			continue
		}
		if !isHex(c) {
			return assertions.Fail(fmt.Sprintf("MAC %q: non-hex character at offset %d", s, i), "hex digit", string(c))
		}
	}
	return assertions.Pass(fmt.Sprintf("MAC %q is well formed", s))
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// IntRange checks lo <= v <= hi.
func IntRange[T Integer](name string, v T, lo, hi int64) *assertions.Result {
	if inRange(v, lo, hi) {
		return assertions.Pass(fmt.Sprintf("%s %d is in range [%d, %d]", name, v, lo, hi))
	}
	return assertions.Fail(fmt.Sprintf("%s %d is not in range [%d, %d]", name, v, lo, hi),
		fmt.Sprintf("[%d, %d]", lo, hi), v)
}

func inRange[T Integer](v T, lo, hi int64) bool {
	// Compare unsigned values without converting through int64 first, so
	// huge values are not wrapped into range.
	if v < 0 {
		return int64(v) >= lo && int64(v) <= hi
	}
	if hi < 0 {
		return false
	}
	u := uint64(v)
	return (lo <= 0 || u >= uint64(lo)) && u <= uint64(hi)
}

// OneOf checks v is one of set.
func OneOf[T Integer](name string, v T, set []int64) *assertions.Result {
	for _, s := range set {
		if inRange(v, s, s) {
			return assertions.Pass(fmt.Sprintf("%s %d is allowed", name, v))
		}
	}
	return assertions.Fail(fmt.Sprintf("%s %d is not one of %v", name, v, set), set, v)
}

// StringOneOf checks s is one of set.
func StringOneOf(name, s string, set []string) *assertions.Result {
	if slices.Contains(set, s) {
		return assertions.Pass(fmt.Sprintf("%s %q is allowed", name, s))
	}
	return assertions.Fail(fmt.Sprintf("%s %q is not one of %v", name, s, set), set, s)
}

// NonEmpty checks s is not empty.
func NonEmpty(name, s string) *assertions.Result {
	if s == "" {
		return assertions.Fail(name+" is empty", "non-empty", s)
	}
	return assertions.Pass(fmt.Sprintf("%s is %q", name, s))
}

// Version checks s is a non-empty string of printable characters without
// surrounding whitespace.
func Version(name, s string) *assertions.Result {
	if s == "" {
		return assertions.Fail(name+" is empty", "version string", s)
	}
	if strings.TrimSpace(s) != s {
		return assertions.Fail(fmt.Sprintf("%s %q has surrounding whitespace", name, s), "trimmed", s)
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return assertions.Fail(fmt.Sprintf("%s %q contains a non-printable character", name, s), "printable", s)
		}
	}
	return assertions.Pass(fmt.Sprintf("%s is %q", name, s))
}

// Boolean01 checks v is 0 or 1.
func Boolean01[T Integer](name string, v T) *assertions.Result {
	return OneOf(name, v, []int64{0, 1})
}

// Validators binds the field validators to a profile.
type Validators struct {
	p *profile.Profile
}

// For returns validators for p. A nil profile uses profile.Default().
func For(p *profile.Profile) *Validators {
	if p == nil {
		p = profile.Default()
	}
	return &Validators{p: p}
}

// Profile returns the bound profile.
func (v *Validators) Profile() *profile.Profile { return v.p }

// LEDColor checks an LED colour.
func (v *Validators) LEDColor(c int64) *assertions.Result {
	return IntRange("LED colour", c, v.p.LED.Colors.Min, v.p.LED.Colors.Max)
}

// LEDState checks an LED state.
func (v *Validators) LEDState(s int64) *assertions.Result {
	return OneOf("LED state", s, v.p.LED.States)
}

// BlinkInterval checks an LED blink interval in seconds.
func (v *Validators) BlinkInterval(i int64) *assertions.Result {
	return OneOf("blink interval", i, v.p.LED.Intervals)
}

// Temperature checks a temperature in degrees Celsius.
func (v *Validators) Temperature(t int64) *assertions.Result {
	return IntRange("temperature", t, v.p.Temperature.Min, v.p.Temperature.Max)
}

// FanRPM checks a fan speed reading.
func (v *Validators) FanRPM(rpm int64) *assertions.Result {
	return IntRange("fan speed", rpm, v.p.FanRPM.Min, v.p.FanRPM.Max)
}

// DSCP checks a DSCP mark as reported in client accounting.
func (v *Validators) DSCP(d int64) *assertions.Result {
	return IntRange("DSCP", d, v.p.DSCP.Min, v.p.DSCP.Max)
}

// RouterRegion checks a router region code.
func (v *Validators) RouterRegion(r string) *assertions.Result {
	return StringOneOf("router region", r, v.p.RouterRegions)
}

// SNMPMode checks an SNMP enable mode.
func (v *Validators) SNMPMode(m string) *assertions.Result {
	return StringOneOf("SNMP mode", m, v.p.SNMPModes)
}

// DHCPOption checks a DHCP option tag. v6 selects the DHCPv6 table.
func (v *Validators) DHCPOption(tag int64, v6 bool) *assertions.Result {
	if v6 {
		return OneOf("DHCPv6 option", tag, v.p.DHCPv6Options)
	}
	return OneOf("DHCPv4 option", tag, v.p.DHCPv4Options)
}

// WebUITimeout checks a web UI session timeout in seconds.
func (v *Validators) WebUITimeout(sec int64) *assertions.Result {
	return IntRange("web UI timeout", sec, v.p.WebUITimeout.Min, v.p.WebUITimeout.Max)
}

// MACsecTimeout checks a MACsec start timeout in seconds.
func (v *Validators) MACsecTimeout(sec int64) *assertions.Result {
	return IntRange("MACsec timeout", sec, v.p.MACsecTimeout.Min, v.p.MACsecTimeout.Max)
}
