package pins

import (
	"fmt"
	"strings"
)

// Capability is the set of functions a board exposes on a pin.
type Capability uint8

const (
	CapRead Capability = 1 << iota
	CapWrite
	CapAnalogIn
	CapPWM
)

// Common combinations used by the board tables.
const (
	CapNone      Capability = 0
	CapReadWrite            = CapRead | CapWrite
	CapWritePWM             = CapWrite | CapPWM
	CapRWPWM                = CapRead | CapWrite | CapPWM
	CapAinRW                = CapAnalogIn | CapRead | CapWrite
)

var capabilityNames = map[string]Capability{
	"none":  CapNone,
	"read":  CapRead,
	"write": CapWrite,
	"rw":    CapReadWrite,
	"wpwm":  CapWritePWM,
	"rwpwm": CapRWPWM,
	"ainrw": CapAinRW,
}

// Has reports whether every bit in other is set in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// String returns the table shorthand for well-known combinations
// ("rwpwm", "ainrw", ...) and a "+"-joined list otherwise.
func (c Capability) String() string {
	switch c {
	case CapNone:
		return "none"
	case CapRead:
		return "read"
	case CapWrite:
		return "write"
	case CapReadWrite:
		return "rw"
	case CapWritePWM:
		return "wpwm"
	case CapRWPWM:
		return "rwpwm"
	case CapAinRW:
		return "ainrw"
	}
	var parts []string
	if c.Has(CapRead) {
		parts = append(parts, "read")
	}
	if c.Has(CapWrite) {
		parts = append(parts, "write")
	}
	if c.Has(CapAnalogIn) {
		parts = append(parts, "ain")
	}
	if c.Has(CapPWM) {
		parts = append(parts, "pwm")
	}
	return strings.Join(parts, "+")
}

// ParseCapability parses the shorthand names used in board files.
func ParseCapability(s string) (Capability, error) {
	if c, ok := capabilityNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return CapNone, fmt.Errorf("unknown pin capability %q", s)
}
