// Package policy lints loaded board configurations with Rego policies.
//
// The parser accepts any line it can decode, so a file can load cleanly and
// still describe a board that will not work: two keys driving the same pin,
// a stepper driver with a step pin but no direction pin, an SPI channel
// number the firmware does not know. Those checks are written as Open
// Policy Agent policies that run over the structured load summary.
//
// # Input
//
// Policies see the JSON form of lpcconfig.Summary as input:
//
//	{
//	  "board": "rearm",
//	  "fallback": false,
//	  "status": "ok",
//	  "settings": [{"key": "leds.diagnostic", "kind": "pin", "value": "4.28"}, ...],
//	  "derived": {"stepDriverMask": 263, ...}
//	}
//
// Scalar values are strings. Pin arrays are lists of strings, with "NoPin"
// for unassigned slots.
//
// # Writing policies
//
// A policy is a Rego v1 module whose deny set holds violations, either as
// plain strings or as objects with message, key and optional severity:
//
//	# Beeper must be wired.
//	# severity: error
//	package boardcfg.custom.beeper
//
//	import rego.v1
//
//	deny contains {"message": "no beeper", "key": "lcd.lcdBeepPin"} if {
//		some s in input.settings
//		s.key == "lcd.lcdBeepPin"
//		s.value == "NoPin"
//	}
//
// Leading comment lines become the description; a "severity:" comment sets
// the default severity. JSON files holding a Policy object are accepted too.
package policy
