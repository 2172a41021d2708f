package pins

import "strings"

// Resolver maps a configuration token to a canonical pin.
type Resolver interface {
	Resolve(token string) (Pin, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(token string) (Pin, bool)

// Resolve calls f(token).
func (f ResolverFunc) Resolve(token string) (Pin, bool) {
	return f(token)
}

// Resolve lowercases token, scans the alias table and falls back to the
// numeric literal form. A nil table resolves literals only.
func (t *AliasTable) Resolve(token string) (Pin, bool) {
	token = strings.ToLower(token)
	if e, ok := t.Lookup(token); ok {
		return e.Pin, true
	}
	return ParseLiteral(token)
}

// Literals resolves numeric pin literals only.
var Literals Resolver = ResolverFunc(ParseLiteral)

// ParseLiteral parses "[p]PORT{.|_}PIN", for example "1.23", "P1_23" or
// "p0.4". The port must be a single digit no greater than MaxPort and the pin
// one or two digits below PinsPerPort.
func ParseLiteral(s string) (Pin, bool) {
	if len(s) > 0 && (s[0] == 'p' || s[0] == 'P') {
		s = s[1:]
	}
	if len(s) != 3 && len(s) != 4 {
		return NoPin, false
	}
	if s[1] != '.' && s[1] != '_' {
		return NoPin, false
	}
	if !isDigit(s[0]) {
		return NoPin, false
	}
	port := s[0] - '0'

	var pin uint8
	for i := 2; i < len(s); i++ {
		if !isDigit(s[i]) {
			return NoPin, false
		}
		pin = pin*10 + (s[i] - '0')
	}
	if port > MaxPort || pin >= PinsPerPort {
		return NoPin, false
	}
	return New(port, pin), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
