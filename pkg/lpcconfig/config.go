// Package lpcconfig is the board.txt key set for LPC17xx controllers and the
// two-phase bootstrap that loads it: first the board name, then every other
// key resolved against that board's pin aliases.
package lpcconfig

import (
	"fmt"
	"strings"

	"github.com/openfroyo/boardcfg/pkg/boards"
	"github.com/openfroyo/boardcfg/pkg/pins"
)

// SPI channel numbers accepted by the *.spiChannel keys.
const (
	SSP0    uint8 = 0
	SSP1    uint8 = 1
	SWSPI0  uint8 = 2
	SSPNone uint8 = 0xFF
)

// Array sizes of the multi-pin keys.
const (
	NumThermistorInputs = 3
	MaxSpiTempSensors   = 2
	NumSoftwareSPIPins  = 3
	NumSerialPins       = 2
)

// BoardNameCapacity is the size of the lpc.board buffer, terminator
// included.
const BoardNameCapacity = 20

// Config is every value board.txt can set.
type Config struct {
	// Board is the lpc.board value, rewritten to "generic" when unknown.
	Board string

	DiagnosticLED pins.Pin

	Stepper  StepperConfig
	Heat     HeatConfig
	ATX      ATXConfig
	SDCard   SDCardConfig
	LCD      LCDConfig
	WiFi     WiFiConfig
	SBC      SBCConfig
	Software SoftwareSPIConfig
	Serial   SerialConfig

	ADCPreFilter bool
}

// StepperConfig holds the stepper driver pins.
type StepperConfig struct {
	EnablePins    [boards.MaxDrivers]pins.Pin
	StepPins      [boards.MaxDrivers]pins.Pin
	DirectionPins [boards.MaxDrivers]pins.Pin
	DigipotFactor float32
}

// HeatConfig holds temperature sensor inputs.
type HeatConfig struct {
	TempSensePins        [NumThermistorInputs]pins.Pin
	SpiTempSensorCSPins  [MaxSpiTempSensors]pins.Pin
	SpiTempSensorChannel uint8
}

// ATXConfig holds the PSU control pin.
type ATXConfig struct {
	PowerPin         pins.Pin
	PowerPinInverted bool
}

// SDCardConfig holds the internal and external SD card settings.
type SDCardConfig struct {
	InternalFrequencyHz   uint32
	ExternalCSPin         pins.Pin
	ExternalCardDetectPin pins.Pin
	ExternalFrequencyHz   uint32
	ExternalChannel       uint8
}

// LCDConfig holds the 12864 display and encoder pins.
type LCDConfig struct {
	CSPin          pins.Pin
	BeepPin        pins.Pin
	EncoderPinA    pins.Pin
	EncoderPinB    pins.Pin
	EncoderPinSw   pins.Pin
	DCPin          pins.Pin
	PanelButtonPin pins.Pin
	SPIChannel     uint8
}

// WiFiConfig holds the ESP8266 module pins.
type WiFiConfig struct {
	EspDataReadyPin pins.Pin
	LpcTfrReadyPin  pins.Pin
	EspResetPin     pins.Pin
	SerialRxTxPins  [NumSerialPins]pins.Pin
}

// SBCConfig holds the single-board-computer interface pins.
type SBCConfig struct {
	LpcTfrReadyPin pins.Pin
}

// SoftwareSPIConfig holds the SCK, MISO and MOSI pins of the bit-banged SPI
// channel.
type SoftwareSPIConfig struct {
	Pins [NumSoftwareSPIPins]pins.Pin
}

// SerialConfig holds the AUX UART pins.
type SerialConfig struct {
	AuxRxTxPins  [NumSerialPins]pins.Pin
	Aux2RxTxPins [NumSerialPins]pins.Pin
}

// Defaults returns the configuration before any board or file is applied.
func Defaults() *Config {
	c := &Config{
		Board: boards.GenericName,
		Heat: HeatConfig{
			SpiTempSensorChannel: SSP0,
		},
		SDCard: SDCardConfig{
			InternalFrequencyHz: 25000000,
			ExternalFrequencyHz: 4000000,
			ExternalChannel:     SSPNone,
		},
		LCD: LCDConfig{
			SPIChannel: SSP0,
		},
		ADCPreFilter: true,
	}

	for _, p := range []*pins.Pin{
		&c.DiagnosticLED,
		&c.ATX.PowerPin,
		&c.SDCard.ExternalCSPin, &c.SDCard.ExternalCardDetectPin,
		&c.LCD.CSPin, &c.LCD.BeepPin, &c.LCD.EncoderPinA, &c.LCD.EncoderPinB,
		&c.LCD.EncoderPinSw, &c.LCD.DCPin, &c.LCD.PanelButtonPin,
		&c.WiFi.EspDataReadyPin, &c.WiFi.LpcTfrReadyPin, &c.WiFi.EspResetPin,
		&c.SBC.LpcTfrReadyPin,
	} {
		*p = pins.NoPin
	}
	for _, arr := range [][]pins.Pin{
		c.Heat.TempSensePins[:],
		c.Heat.SpiTempSensorCSPins[:],
		c.Software.Pins[:],
		c.WiFi.SerialRxTxPins[:],
		c.Serial.AuxRxTxPins[:],
		c.Serial.Aux2RxTxPins[:],
	} {
		fill(arr, pins.NoPin)
	}

	c.ApplyBoardDefaults(boards.NoPinDefaults())
	return c
}

// ApplyBoardDefaults copies a board's stepper defaults into c.
func (c *Config) ApplyBoardDefaults(d boards.Defaults) {
	c.Stepper.EnablePins = d.EnablePins
	c.Stepper.StepPins = d.StepPins
	c.Stepper.DirectionPins = d.DirectionPins
	c.Stepper.DigipotFactor = d.DigipotFactor
}

func fill(dst []pins.Pin, p pins.Pin) {
	for i := range dst {
		dst[i] = p
	}
}

// Features selects the optional key groups, matching the firmware build
// variants.
type Features struct {
	LCD        bool `yaml:"lcd" json:"lcd"`
	WiFi       bool `yaml:"wifi" json:"wifi"`
	SBC        bool `yaml:"sbc" json:"sbc"`
	AuxSerial  bool `yaml:"auxSerial" json:"auxSerial"`
	Aux2Serial bool `yaml:"aux2Serial" json:"aux2Serial"`
}

// DefaultFeatures is the standard build: LCD support and one AUX port.
func DefaultFeatures() Features {
	return Features{LCD: true, AuxSerial: true}
}

// AllFeatures enables every optional group.
func AllFeatures() Features {
	return Features{LCD: true, WiFi: true, SBC: true, AuxSerial: true, Aux2Serial: true}
}

// ParseFeatures builds a feature set from names: lcd, wifi, sbc, aux, aux2,
// or all.
func ParseFeatures(names []string) (Features, error) {
	var f Features
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "lcd":
			f.LCD = true
		case "wifi":
			f.WiFi = true
		case "sbc":
			f.SBC = true
		case "aux":
			f.AuxSerial = true
		case "aux2":
			f.Aux2Serial = true
		case "all":
			f = AllFeatures()
		case "":
		default:
			return Features{}, fmt.Errorf("unknown feature %q", name)
		}
	}
	return f, nil
}

// Names returns the enabled groups in the form ParseFeatures accepts.
func (f Features) Names() []string {
	var names []string
	for _, g := range []struct {
		on   bool
		name string
	}{
		{f.LCD, "lcd"},
		{f.WiFi, "wifi"},
		{f.SBC, "sbc"},
		{f.AuxSerial, "aux"},
		{f.Aux2Serial, "aux2"},
	} {
		if g.on {
			names = append(names, g.name)
		}
	}
	return names
}
