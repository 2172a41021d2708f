// Package boards holds the per-board pin alias tables and stepper defaults for
// the supported LPC17xx controller boards, and a registry to select one by
// name.
package boards

import (
	"fmt"
	"strings"

	"github.com/openfroyo/boardcfg/pkg/pins"
)

// MaxDrivers is the number of stepper driver slots on LPC boards.
const MaxDrivers = 5

// GenericName is the fallback board used when none is configured.
const GenericName = "generic"

// Defaults are the compiled-in values a board starts with before board.txt is
// applied.
type Defaults struct {
	// EnablePins are the stepper driver enable pins.
	EnablePins [MaxDrivers]pins.Pin `yaml:"enablePins" json:"enablePins"`

	// StepPins are the stepper driver step pins.
	StepPins [MaxDrivers]pins.Pin `yaml:"stepPins" json:"stepPins"`

	// DirectionPins are the stepper driver direction pins.
	DirectionPins [MaxDrivers]pins.Pin `yaml:"directionPins" json:"directionPins"`

	// DigipotFactor scales motor current on boards with a digital
	// potentiometer. Zero means no current control.
	DigipotFactor float32 `yaml:"digipotFactor" json:"digipotFactor"`
}

// Board describes one supported controller.
type Board struct {
	// Name is the value users put in lpc.board.
	Name string `validate:"required,max=19"`

	// Description is a human-readable label.
	Description string

	// Pins is the alias table used to resolve pin names for this board.
	Pins *pins.AliasTable

	// Defaults are applied before the full configuration is parsed.
	Defaults Defaults
}

// Resolve resolves a pin token against the board's alias table.
func (b *Board) Resolve(token string) (pins.Pin, bool) {
	if b == nil {
		return pins.Literals.Resolve(token)
	}
	return b.Pins.Resolve(token)
}

// String returns the board name.
func (b *Board) String() string {
	return b.Name
}

// NoPinDefaults returns defaults with every driver pin unassigned.
func NoPinDefaults() Defaults {
	var d Defaults
	for i := 0; i < MaxDrivers; i++ {
		d.EnablePins[i] = pins.NoPin
		d.StepPins[i] = pins.NoPin
		d.DirectionPins[i] = pins.NoPin
	}
	return d
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (b *Board) validateDefaults() error {
	if b.Defaults.DigipotFactor < 0 {
		return fmt.Errorf("board %s: digipot factor must not be negative", b.Name)
	}
	return nil
}
