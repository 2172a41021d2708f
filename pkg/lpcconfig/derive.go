package lpcconfig

import (
	"fmt"
	"io"

	"github.com/openfroyo/boardcfg/pkg/boardconfig"
)

// Derived are values computed once the configuration is loaded.
type Derived struct {
	// StepDriverMask has bit n set for each step pin on port 2, pin n. The
	// step generator writes these in parallel.
	StepDriverMask uint32 `yaml:"stepDriverMask" json:"stepDriverMask"`

	// StepPinsOnDifferentPorts is set when any step pin is off port 2.
	StepPinsOnDifferentPorts bool `yaml:"stepPinsOnDifferentPorts" json:"stepPinsOnDifferentPorts"`

	// DriverCurrentControl is set when the board has digipot current
	// control.
	DriverCurrentControl bool `yaml:"driverCurrentControl" json:"driverCurrentControl"`

	// ExternalSDCardEnabled is set when an external card CS pin is given.
	ExternalSDCardEnabled bool `yaml:"externalSDCardEnabled" json:"externalSDCardEnabled"`

	// ExternalSDCardSSP is set when the external card uses a hardware SSP
	// channel; otherwise the slot keeps its default channel.
	ExternalSDCardSSP bool `yaml:"externalSDCardSSP" json:"externalSDCardSSP"`
}

// Derive computes the derived values of c.
func Derive(c *Config) Derived {
	var d Derived
	for _, p := range c.Stepper.StepPins {
		if !p.Valid() {
			continue
		}
		if p.Port() == 2 {
			d.StepDriverMask |= 1 << p.Number()
		} else {
			d.StepPinsOnDifferentPorts = true
		}
	}

	d.DriverCurrentControl = c.Stepper.DigipotFactor > 1
	d.ExternalSDCardEnabled = c.SDCard.ExternalCSPin.Valid()
	if d.ExternalSDCardEnabled {
		ch := c.SDCard.ExternalChannel
		d.ExternalSDCardSSP = ch == SSP0 || ch == SSP1
	}
	return d
}

// Render writes the derived values in the diagnostics format.
func (d Derived) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"stepper.driverMask = 0x%08x\n"+
			"stepper.pinsOnDifferentPorts = %s\n"+
			"stepper.currentControl = %s\n"+
			"sdCard.external.enabled = %s\n"+
			"sdCard.external.sspChannel = %s\n",
		d.StepDriverMask,
		boardconfig.FormatBool(d.StepPinsOnDifferentPorts),
		boardconfig.FormatBool(d.DriverCurrentControl),
		boardconfig.FormatBool(d.ExternalSDCardEnabled),
		boardconfig.FormatBool(d.ExternalSDCardSSP),
	)
	return err
}
