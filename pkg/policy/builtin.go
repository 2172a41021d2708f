package policy

// GetBuiltinPolicies returns all built-in policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		pinConflictPolicy(),
		driverPinsPolicy(),
		spiChannelPolicy(),
		boardFallbackPolicy(),
		diagnosticLEDPolicy(),
	}
}

// pinConflictPolicy reports pins assigned to more than one key or slot.
func pinConflictPolicy() Policy {
	return Policy{
		Name:        "pin-conflicts",
		Description: "A pin may only be assigned to one key or array slot",
		Severity:    SeverityError,
		Enabled:     true,
		Builtin:     true,
		Rego: `package boardcfg.lint.pins

import rego.v1

uses contains [s.value, s.key] if {
	some s in input.settings
	s.kind == "pin"
	is_string(s.value)
	s.value != "NoPin"
}

uses contains [pin, slot] if {
	some s in input.settings
	s.kind == "pin"
	is_array(s.value)
	some i, pin in s.value
	pin != "NoPin"
	slot := sprintf("%s[%d]", [s.key, i])
}

deny contains violation if {
	some use in uses
	pin := use[0]
	keys := sort([u[1] | some u in uses; u[0] == pin])
	count(keys) > 1
	violation := {
		"message": sprintf("pin %s is used by %s", [pin, concat(", ", keys)]),
		"key": keys[0],
	}
}
`,
	}
}

// driverPinsPolicy checks that every stepper driver with a step pin can
// also set its direction.
func driverPinsPolicy() Policy {
	return Policy{
		Name:        "driver-pins",
		Description: "Stepper drivers need a direction pin for every step pin",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Rego: `package boardcfg.lint.drivers

import rego.v1

setting(key) := s.value if {
	some s in input.settings
	s.key == key
}

deny contains violation if {
	steps := setting("stepper.stepPins")
	dirs := setting("stepper.directionPins")
	some i, step in steps
	step != "NoPin"
	dirs[i] == "NoPin"
	violation := {
		"message": sprintf("driver %d has step pin %s but no direction pin", [i, step]),
		"key": "stepper.directionPins",
	}
}

deny contains violation if {
	steps := setting("stepper.stepPins")
	enables := setting("stepper.enablePins")
	some i, step in steps
	step == "NoPin"
	enables[i] != "NoPin"
	violation := {
		"message": sprintf("driver %d has enable pin %s but no step pin", [i, enables[i]]),
		"key": "stepper.stepPins",
		"severity": "info",
	}
}
`,
	}
}

// spiChannelPolicy checks SPI channel numbers. Channel 2 is the software
// SPI bus, which needs all three softwareSPI.pins.
func spiChannelPolicy() Policy {
	return Policy{
		Name:        "spi-channels",
		Description: "SPI channels must be 0, 1, 2 or 255, and channel 2 needs software SPI pins",
		Severity:    SeverityError,
		Enabled:     true,
		Builtin:     true,
		Rego: `package boardcfg.lint.spi

import rego.v1

channel_keys := {"heat.spiTempSensorChannel", "lcd.spiChannel", "sdCard.external.spiChannel"}

valid_channels := {"0", "1", "2", "255"}

deny contains violation if {
	some s in input.settings
	s.key in channel_keys
	not s.value in valid_channels
	violation := {
		"message": sprintf("unknown SPI channel %s", [s.value]),
		"key": s.key,
	}
}

deny contains violation if {
	some s in input.settings
	s.key in channel_keys
	s.value == "2"
	some sw in input.settings
	sw.key == "softwareSPI.pins"
	"NoPin" in sw.value
	violation := {
		"message": "software SPI channel selected but softwareSPI.pins is incomplete",
		"key": s.key,
	}
}
`,
	}
}

// boardFallbackPolicy flags a board name that did not match any board.
func boardFallbackPolicy() Policy {
	return Policy{
		Name:        "board-fallback",
		Description: "lpc.board should name a known board",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Rego: `package boardcfg.lint.board

import rego.v1

deny contains violation if {
	input.fallback
	violation := {
		"message": "lpc.board is not a known board, only port.pin names resolve",
		"key": "lpc.board",
	}
}
`,
	}
}

// diagnosticLEDPolicy notes a missing heartbeat LED.
func diagnosticLEDPolicy() Policy {
	return Policy{
		Name:        "diagnostic-led",
		Description: "A diagnostic LED shows the firmware is running",
		Severity:    SeverityInfo,
		Enabled:     true,
		Builtin:     true,
		Rego: `package boardcfg.lint.leds

import rego.v1

deny contains violation if {
	some s in input.settings
	s.key == "leds.diagnostic"
	s.value == "NoPin"
	violation := {
		"message": "no diagnostic LED configured",
		"key": "leds.diagnostic",
	}
}
`,
	}
}
