// Package boardconfig parses board.txt files into typed destinations.
//
// A Table declares the recognised keys. Each Entry binds a key to a
// caller-owned variable through a typed constructor:
//
//	var diag pins.Pin = pins.NoPin
//	var temps [3]pins.Pin
//	table := boardconfig.MustTable(
//		boardconfig.Pin("leds.diagnostic", &diag),
//		boardconfig.PinArray("heat.tempSensePins", temps[:]),
//	)
//
// A Parser reads lines from a LineSource and applies each one whose key
// matches. Bad input never aborts a pass. An unterminated or overlong array
// leaves its destination untouched. A bad scalar token leaves its
// destination unchanged, while an unknown pin inside an array becomes NoPin.
// Unknown keys are ignored. Everything rejected
// is collected in the Report, and only a failing source is returned as an
// error.
package boardconfig
