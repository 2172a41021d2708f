package boardconfig

import (
	"math"
	"strconv"
	"strings"
)

// ParseBool reports whether tok is "1" or, ignoring case, "true". Every other
// token, including the empty one, is false.
func ParseBool(tok string) bool {
	return tok == "1" || strings.EqualFold(tok, "true")
}

// ParseUint parses an unsigned decimal token, clamping to max. The token is an
// optional '+' followed by digits only.
func ParseUint(tok string, max uint64) (uint64, error) {
	if tok == "" {
		return 0, ErrEmptyValue
	}
	digits := strings.TrimPrefix(tok, "+")
	if digits == "" {
		return 0, ErrInvalidNumber
	}

	var v uint64
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, ErrInvalidNumber
		}
		if v > max {
			continue
		}
		v = v*10 + uint64(c-'0')
	}
	if v > max {
		v = max
	}
	return v, nil
}

// ParseUint8 decodes tok, clamping to 255.
func ParseUint8(tok string) (uint8, error) {
	v, err := ParseUint(tok, math.MaxUint8)
	return uint8(v), err
}

// ParseUint16 decodes tok, clamping to 65535.
func ParseUint16(tok string) (uint16, error) {
	v, err := ParseUint(tok, math.MaxUint16)
	return uint16(v), err
}

// ParseUint32 decodes tok, saturating at 2^32-1.
func ParseUint32(tok string) (uint32, error) {
	v, err := ParseUint(tok, math.MaxUint32)
	return uint32(v), err
}

// ParseFloat decodes a decimal float independent of locale. Infinities and
// NaN are rejected.
func ParseFloat(tok string) (float32, error) {
	if tok == "" {
		return 0, ErrEmptyValue
	}
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, ErrInvalidFloat
	}
	return float32(f), nil
}

// FormatFloat renders f with two decimals, the way diagnostics print floats.
func FormatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 2, 32)
}

// FormatBool renders b as true or false.
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}
