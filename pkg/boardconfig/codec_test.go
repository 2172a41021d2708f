package boardconfig

import (
	"errors"
	"testing"
)

func TestParseBool(t *testing.T) {
	tests := map[string]bool{
		"1":     true,
		"true":  true,
		"True":  true,
		"TRUE":  true,
		"0":     false,
		"false": false,
		"yes":   false,
		"":      false,
		"2":     false,
		"truee": false,
	}

	for tok, want := range tests {
		if got := ParseBool(tok); got != want {
			t.Errorf("ParseBool(%q): expected %v, got %v", tok, want, got)
		}
	}
}

func TestParseUint(t *testing.T) {
	tests := []struct {
		name    string
		tok     string
		max     uint64
		want    uint64
		wantErr error
	}{
		{"plain", "10", 255, 10, nil},
		{"clamped", "999", 255, 255, nil},
		{"plus sign", "+42", 255, 42, nil},
		{"leading zeros", "007", 255, 7, nil},
		{"uint16 clamp", "70000", 65535, 65535, nil},
		{"uint32 max", "4294967295", 1<<32 - 1, 1<<32 - 1, nil},
		{"uint32 saturates", "99999999999999999999999", 1<<32 - 1, 1<<32 - 1, nil},
		{"empty", "", 255, 0, ErrEmptyValue},
		{"sign only", "+", 255, 0, ErrInvalidNumber},
		{"negative", "-1", 255, 0, ErrInvalidNumber},
		{"hex", "0x10", 255, 0, ErrInvalidNumber},
		{"trailing garbage", "12ab", 255, 0, ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUint(tt.tok, tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseUint8Clamps(t *testing.T) {
	if v, _ := ParseUint8("999"); v != 255 {
		t.Errorf("expected 255, got %d", v)
	}
	if v, _ := ParseUint8("10"); v != 10 {
		t.Errorf("expected 10, got %d", v)
	}
	if v, _ := ParseUint16("65536"); v != 65535 {
		t.Errorf("expected 65535, got %d", v)
	}
	if v, _ := ParseUint32("4294967296"); v != 4294967295 {
		t.Errorf("expected 4294967295, got %d", v)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		tok     string
		want    float32
		wantErr error
	}{
		{"113.33", 113.33, nil},
		{"0", 0, nil},
		{"-1.5", -1.5, nil},
		{"1e2", 100, nil},
		{"", 0, ErrEmptyValue},
		{"abc", 0, ErrInvalidFloat},
		{"1,5", 0, ErrInvalidFloat},
		{"inf", 0, ErrInvalidFloat},
		{"NaN", 0, ErrInvalidFloat},
		{"1e400", 0, ErrInvalidFloat},
	}

	for _, tt := range tests {
		got, err := ParseFloat(tt.tok)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseFloat(%q): expected error %v, got %v", tt.tok, tt.wantErr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFloat(%q): expected %v, got %v", tt.tok, tt.want, got)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float32]string{
		113.33: "113.33",
		106:    "106.00",
		0:      "0.00",
		0.125:  "0.12",
	}

	for f, want := range tests {
		if got := FormatFloat(f); got != want {
			t.Errorf("FormatFloat(%v): expected %q, got %q", f, want, got)
		}
	}
}
