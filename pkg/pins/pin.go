// Package pins maps human-readable pin names to canonical LPC pin identifiers.
//
// A canonical pin packs a GPIO port and the pin within that port into a single
// byte: (port << 5) | pin. Names are resolved first against a per-board alias
// table and then, if no alias matches, parsed as a numeric literal such as
// "1.23", "1_23" or "P1.23".
package pins

import "fmt"

// Pin is a canonical LPC pin identifier.
type Pin uint8

const (
	// NoPin marks an unassigned or unresolved pin.
	NoPin Pin = 0xFF

	// MaxPort is the highest GPIO port number on the LPC17xx.
	MaxPort = 4

	// PinsPerPort is the number of pins addressable within one port.
	PinsPerPort = 32

	portShift = 5
	pinMask   = PinsPerPort - 1
)

// New builds a canonical pin from a port and a pin number.
// It returns NoPin when either value is out of range.
func New(port, pin uint8) Pin {
	if port > MaxPort || pin >= PinsPerPort {
		return NoPin
	}
	return Pin(port<<portShift | pin)
}

// Port returns the GPIO port of the pin.
func (p Pin) Port() uint8 {
	return uint8(p) >> portShift
}

// Number returns the pin number within its port.
func (p Pin) Number() uint8 {
	return uint8(p) & pinMask
}

// Valid reports whether p is an assigned pin.
func (p Pin) Valid() bool {
	return p != NoPin
}

// String renders the pin as "port.pin", or "NoPin".
func (p Pin) String() string {
	if p == NoPin {
		return "NoPin"
	}
	return fmt.Sprintf("%d.%d", p.Port(), p.Number())
}

// MarshalText implements encoding.TextMarshaler so pins render as "1.23" in
// JSON and YAML output.
func (p Pin) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the same literal forms as ParseLiteral plus "NoPin".
func (p *Pin) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" || s == "NoPin" || s == "nopin" {
		*p = NoPin
		return nil
	}
	v, ok := ParseLiteral(s)
	if !ok {
		return fmt.Errorf("invalid pin literal %q", s)
	}
	*p = v
	return nil
}
