package pins

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testTable() *AliasTable {
	return NewAliasTable(
		NewAlias(New(0, 23), CapAinRW, "bedtemp,t0"),
		NewAlias(New(1, 24), CapReadWrite, "X_Stop,x-min"),
		NewAlias(New(2, 5), CapWritePWM, "bed"),
		NewAlias(New(2, 7), CapWritePWM, "bed,e0heat"),
	)
}

func TestNew(t *testing.T) {
	tests := []struct {
		port, pin uint8
		want      Pin
	}{
		{0, 23, 0x17},
		{1, 23, 0x37},
		{4, 31, 0x9F},
		{5, 0, NoPin},
		{0, 32, NoPin},
	}

	for _, tt := range tests {
		if got := New(tt.port, tt.pin); got != tt.want {
			t.Errorf("New(%d, %d): expected %#x, got %#x", tt.port, tt.pin, tt.want, got)
		}
	}
}

func TestPinAccessors(t *testing.T) {
	p := New(3, 26)
	if p.Port() != 3 {
		t.Errorf("expected port 3, got %d", p.Port())
	}
	if p.Number() != 26 {
		t.Errorf("expected pin 26, got %d", p.Number())
	}
	if p.String() != "3.26" {
		t.Errorf("expected '3.26', got '%s'", p.String())
	}
	if NoPin.String() != "NoPin" {
		t.Errorf("expected 'NoPin', got '%s'", NoPin.String())
	}
	if NoPin.Valid() {
		t.Error("expected NoPin to be invalid")
	}
}

func TestPinTextRoundTrip(t *testing.T) {
	var p Pin
	if err := p.UnmarshalText([]byte("P1_23")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != New(1, 23) {
		t.Errorf("expected 1.23, got %s", p)
	}

	text, _ := p.MarshalText()
	if string(text) != "1.23" {
		t.Errorf("expected '1.23', got '%s'", text)
	}

	if err := p.UnmarshalText([]byte("NoPin")); err != nil || p != NoPin {
		t.Errorf("expected NoPin without error, got %s (%v)", p, err)
	}

	if err := p.UnmarshalText([]byte("9.99")); err == nil {
		t.Error("expected error for out of range literal")
	}
}

func TestNormalizeAlias(t *testing.T) {
	tests := map[string]string{
		"BedTemp":  "bedtemp",
		"x_stop":   "xstop",
		"e0-heat":  "e0heat",
		" P0.23 ":  "p0.23",
		"":         "",
		"_-_":      "",
		"LED1":     "led1",
		"servo_0":  "servo0",
		"ssel1":    "ssel1",
		"Z-Stop_2": "zstop2",
	}

	for in, want := range tests {
		if got := NormalizeAlias(in); got != want {
			t.Errorf("NormalizeAlias(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestNewAlias(t *testing.T) {
	e := NewAlias(New(0, 23), CapAinRW, "BedTemp, t0,,P0_23")
	want := []string{"bedtemp", "t0", "p023"}
	if diff := cmp.Diff(want, e.Names); diff != "" {
		t.Errorf("alias names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in     string
		want   Pin
		wantOK bool
	}{
		{"0.23", 0x17, true},
		{"1.23", New(1, 23), true},
		{"1_23", New(1, 23), true},
		{"P1_23", New(1, 23), true},
		{"p4.28", New(4, 28), true},
		{"2.5", New(2, 5), true},
		{"4.31", New(4, 31), true},
		{"9.99", NoPin, false},
		{"5.1", NoPin, false},
		{"1.32", NoPin, false},
		{"1-23", NoPin, false},
		{"12.3", NoPin, false},
		{"1.234", NoPin, false},
		{"1.", NoPin, false},
		{"p", NoPin, false},
		{"", NoPin, false},
		{"a.12", NoPin, false},
		{"1.x2", NoPin, false},
		{"pp1.2", NoPin, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLiteral(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAliasTableResolve(t *testing.T) {
	table := testTable()

	tests := []struct {
		name   string
		token  string
		want   Pin
		wantOK bool
	}{
		{"alias", "bedtemp", 0x17, true},
		{"alias mixed case", "BEDTEMP", 0x17, true},
		{"second alias", "T0", 0x17, true},
		{"literal same pin", "0.23", 0x17, true},
		{"normalized alias", "xstop", New(1, 24), true},
		{"separator in token is not stripped", "x_stop", NoPin, false},
		{"hyphen alias", "xmin", New(1, 24), true},
		{"first match wins", "bed", New(2, 5), true},
		{"literal fallback", "P3_25", New(3, 25), true},
		{"port out of range", "9.99", NoPin, false},
		{"unknown", "bogus", NoPin, false},
		{"empty", "", NoPin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Resolve(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNilTableResolvesLiterals(t *testing.T) {
	var table *AliasTable

	if p, ok := table.Resolve("P0.4"); !ok || p != New(0, 4) {
		t.Errorf("expected 0.4, got %s (ok=%v)", p, ok)
	}
	if _, ok := table.Resolve("bedtemp"); ok {
		t.Error("expected alias lookup to fail on nil table")
	}
	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d entries", table.Len())
	}
	if p, ok := Literals.Resolve("1.20"); !ok || p != New(1, 20) {
		t.Errorf("expected 1.20, got %s", p)
	}
}

func TestCapability(t *testing.T) {
	tests := []struct {
		in   string
		want Capability
	}{
		{"none", CapNone},
		{"read", CapRead},
		{"RW", CapReadWrite},
		{"wpwm", CapWritePWM},
		{"rwpwm", CapRWPWM},
		{"ainrw", CapAinRW},
	}

	for _, tt := range tests {
		got, err := ParseCapability(tt.in)
		if err != nil {
			t.Fatalf("ParseCapability(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCapability(%q): expected %v, got %v", tt.in, tt.want, got)
		}
		if got.String() != normalizeCapName(tt.in) {
			t.Errorf("expected String() %q, got %q", normalizeCapName(tt.in), got.String())
		}
	}

	if _, err := ParseCapability("laser"); err == nil {
		t.Error("expected error for unknown capability")
	}
	if s := (CapAnalogIn | CapPWM).String(); s != "ain+pwm" {
		t.Errorf("expected 'ain+pwm', got %q", s)
	}
	if !CapRWPWM.Has(CapPWM) || CapReadWrite.Has(CapPWM) {
		t.Error("unexpected Has result")
	}
}

func normalizeCapName(s string) string {
	if s == "RW" {
		return "rw"
	}
	return s
}
