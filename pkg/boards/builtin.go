package boards

import "github.com/openfroyo/boardcfg/pkg/pins"

// P is shorthand for pins.New in pin tables.
func P(port, pin uint8) pins.Pin {
	return pins.New(port, pin)
}

func alias(pin pins.Pin, c pins.Capability, names string) pins.AliasEntry {
	return pins.NewAlias(pin, c, names)
}

func drivers(p0, p1, p2, p3, p4 pins.Pin) [MaxDrivers]pins.Pin {
	return [MaxDrivers]pins.Pin{p0, p1, p2, p3, p4}
}

func builtinBoards() []*Board {
	return []*Board{
		genericBoard(),
		smoothieboard(),
		rearm(),
		mbed(),
		azsmzMini(),
		azteegX5Mini11(),
		biquSKR11(),
		biquSKR13(),
		biquSKR14(),
	}
}

func genericBoard() *Board {
	return &Board{
		Name:        GenericName,
		Description: "Generic LPC1768/LPC1769 board, numeric pin names only",
		Pins:        pins.NewAliasTable(),
		Defaults:    NoPinDefaults(),
	}
}

func smoothieboard() *Board {
	const rwpwm = pins.CapRWPWM
	return &Board{
		Name:        "smoothieboard",
		Description: "Smoothieboard 5X",
		Pins: pins.NewAliasTable(
			alias(P(0, 23), pins.CapAinRW, "t1"),
			alias(P(0, 24), pins.CapAinRW, "t2"),
			alias(P(0, 25), pins.CapAinRW, "t3"),
			alias(P(0, 26), pins.CapAinRW, "t4"),

			alias(P(1, 24), rwpwm, "xmin"),
			alias(P(1, 25), rwpwm, "xmax"),
			alias(P(1, 26), rwpwm, "ymin"),
			alias(P(1, 27), rwpwm, "ymax"),
			alias(P(1, 28), rwpwm, "zmin"),
			alias(P(1, 29), rwpwm, "zmax"),

			// big mosfets q5-q7, small q4, q8, q9
			alias(P(1, 23), rwpwm, "q5"),
			alias(P(2, 5), rwpwm, "q6"),
			alias(P(2, 7), rwpwm, "q7"),
			alias(P(1, 22), rwpwm, "q4"),
			alias(P(2, 4), rwpwm, "q8"),
			alias(P(2, 6), rwpwm, "q9"),

			alias(P(1, 21), rwpwm, "led1"),
			alias(P(1, 20), rwpwm, "led2"),
			alias(P(1, 19), rwpwm, "led3"),
			alias(P(1, 18), rwpwm, "led4"),

			alias(P(1, 22), rwpwm, "p1.22"),
			alias(P(1, 23), rwpwm, "p1.23"),
			alias(P(1, 31), rwpwm, "p1.31"),
			alias(P(1, 30), rwpwm, "p1.30"),
			alias(P(3, 25), rwpwm, "p3.25"),
			alias(P(3, 26), rwpwm, "p3.26"),
			alias(P(2, 11), rwpwm, "p2.11"),
		),
		Defaults: Defaults{
			EnablePins:    drivers(P(0, 4), P(0, 10), P(0, 19), P(0, 21), P(4, 29)),
			StepPins:      drivers(P(2, 0), P(2, 1), P(2, 2), P(2, 3), P(2, 8)),
			DirectionPins: drivers(P(0, 5), P(0, 11), P(0, 20), P(0, 22), P(2, 13)),
			DigipotFactor: 113.33,
		},
	}
}

func rearm() *Board {
	const rwpwm = pins.CapRWPWM
	return &Board{
		Name:        "rearm",
		Description: "Panucatt Re-ARM for RAMPS",
		Pins: pins.NewAliasTable(
			alias(P(0, 23), pins.CapAinRW, "t0,a13"),
			alias(P(0, 24), pins.CapAinRW, "t1,a14"),
			alias(P(0, 25), pins.CapAinRW, "t2,a15"),

			alias(P(1, 24), rwpwm, "xmin,d3"),
			alias(P(1, 25), rwpwm, "xmax,d2"),
			alias(P(1, 26), rwpwm, "ymin,d14"),
			alias(P(1, 27), rwpwm, "ymax,d15"),
			alias(P(1, 29), rwpwm, "zmin,d18"),
			alias(P(1, 28), rwpwm, "zmax,d19"),

			alias(P(2, 7), rwpwm, "d8"),
			alias(P(2, 4), rwpwm, "d9"),
			alias(P(2, 5), rwpwm, "d10"),

			alias(P(1, 20), rwpwm, "servo0,d11"),
			alias(P(1, 21), rwpwm, "servo1,d6"),
			alias(P(1, 19), rwpwm, "servo2,d5"),
			alias(P(1, 18), rwpwm, "servo3,d4"),

			alias(P(0, 27), rwpwm, "d57"),
			alias(P(0, 28), rwpwm, "d58"),
			alias(P(0, 26), pins.CapAinRW, "a9,d63"),
			alias(P(2, 6), rwpwm, "d59"),

			alias(P(1, 23), rwpwm, "d53"),
			alias(P(1, 31), rwpwm, "d49"),
			alias(P(1, 22), rwpwm, "d41"),
			alias(P(1, 30), rwpwm, "d37"),
			alias(P(2, 11), rwpwm, "d35"),
			alias(P(3, 25), rwpwm, "d33"),
			alias(P(3, 26), rwpwm, "d31"),
			alias(P(0, 16), rwpwm, "d16"),

			alias(P(0, 0), rwpwm, "sca,d20,20"),
			alias(P(0, 1), rwpwm, "scl,d21,21"),

			alias(P(2, 12), rwpwm, "pson"),
			alias(P(4, 28), rwpwm, "play"),
		),
		Defaults: Defaults{
			EnablePins:    drivers(P(0, 10), P(0, 19), P(0, 21), P(0, 4), P(4, 29)),
			StepPins:      drivers(P(2, 1), P(2, 2), P(2, 3), P(2, 0), P(2, 8)),
			DirectionPins: drivers(P(0, 11), P(0, 20), P(0, 22), P(0, 5), P(2, 13)),
		},
	}
}

func mbed() *Board {
	const rwpwm = pins.CapRWPWM
	return &Board{
		Name:        "mbed",
		Description: "mbed LPC1768 with Smoothieware-style wiring",
		Pins: pins.NewAliasTable(
			alias(P(0, 23), pins.CapAinRW, "t1"),
			alias(P(0, 24), pins.CapAinRW, "t2"),
			alias(P(0, 25), pins.CapAinRW, "t3"),

			alias(P(1, 24), rwpwm, "xmin"),
			alias(P(1, 25), rwpwm, "xmax"),
			alias(P(1, 26), rwpwm, "ymin"),
			alias(P(1, 27), rwpwm, "ymax"),
			alias(P(1, 28), rwpwm, "zmin"),
			alias(P(1, 29), rwpwm, "zmax"),

			alias(P(1, 23), rwpwm, "q5"),
			alias(P(2, 5), rwpwm, "q6"),
			alias(P(2, 7), rwpwm, "q7"),
			alias(P(1, 22), rwpwm, "q4"),
			alias(P(2, 4), rwpwm, "q8"),
			alias(P(2, 6), rwpwm, "q9"),

			alias(P(1, 18), rwpwm, "led1"),
			alias(P(1, 20), rwpwm, "led2"),
			alias(P(1, 21), rwpwm, "led3"),
			// shares P1.23 with heater q5
			alias(P(1, 23), rwpwm, "led4"),

			alias(P(0, 4), rwpwm, "p0.4"),
			alias(P(0, 5), rwpwm, "p0.5"),
			alias(P(0, 10), rwpwm, "p0.10"),
			alias(P(2, 0), rwpwm, "p2.0"),
			alias(P(2, 1), rwpwm, "p2.1"),
			alias(P(0, 26), rwpwm, "p0.26"),
			alias(P(1, 30), rwpwm, "p1.30"),
			alias(P(1, 31), rwpwm, "p1.31"),
		),
		Defaults: Defaults{
			EnablePins:    drivers(P(3, 25), P(0, 10), P(0, 19), P(0, 21), P(4, 29)),
			StepPins:      drivers(P(2, 11), P(2, 12), P(2, 10), P(2, 3), P(2, 8)),
			DirectionPins: drivers(P(3, 26), P(4, 28), P(0, 20), P(0, 22), P(2, 13)),
		},
	}
}

func azsmzMini() *Board {
	const rw, rwpwm = pins.CapReadWrite, pins.CapRWPWM
	return &Board{
		Name:        "azsmzmini",
		Description: "AZSMZ Mini",
		Pins: pins.NewAliasTable(
			alias(P(0, 23), pins.CapAinRW, "bedtemp,t0,P0.23"),
			alias(P(0, 24), pins.CapAinRW, "e0temp,t1,P0.24"),
			alias(P(0, 25), pins.CapAinRW, "e1temp,t2,P0.25"),

			alias(P(1, 24), rw, "xstop,x,P1.24"),
			alias(P(1, 26), rw, "ystop,y,P1.26"),
			alias(P(1, 28), rw, "zstop,z,P1.28"),
			alias(P(1, 29), rw, "probe,a,P1.29"),

			alias(P(2, 5), rwpwm, "bed,d8,P2.5"),
			alias(P(2, 7), rwpwm, "e0heat,d9,P2.7"),
			alias(P(2, 4), rwpwm, "e1heat,d10,P2.4"),
			alias(P(0, 26), rwpwm, "fan0,P0.26"),

			alias(P(1, 23), rwpwm, "servo0,P1.23"),

			alias(P(1, 27), rw, "P1.27"),
			alias(P(1, 25), rw, "P1.25"),
			alias(P(4, 28), rw, "P4.28"),
			alias(P(1, 30), rw, "P1.30"),
			alias(P(0, 26), rw, "P0.26"),
			alias(P(2, 6), rw, "P2.6"),
			alias(P(1, 22), rw, "P1.22"),
			alias(P(3, 26), rw, "P3.26"),

			alias(P(0, 27), rw, "sda,P0.27"),
			alias(P(0, 28), rw, "scl,P0.28"),
			alias(P(0, 16), rw, "ssel1,P0.16"),

			alias(P(1, 31), rw, "P1.31"),
			alias(P(3, 25), rw, "P3.25"),
		),
		Defaults: Defaults{
			EnablePins:    drivers(P(0, 4), P(0, 10), P(0, 19), P(0, 21), P(4, 29)),
			StepPins:      drivers(P(2, 0), P(2, 1), P(2, 2), P(2, 3), P(2, 8)),
			DirectionPins: drivers(P(0, 5), P(0, 11), P(0, 20), P(0, 22), P(2, 13)),
		},
	}
}

func azteegX5Mini11() *Board {
	const wpwm, rwpwm = pins.CapWritePWM, pins.CapRWPWM
	return &Board{
		Name:        "azteegx5mini1.1",
		Description: "Panucatt Azteeg X5 Mini v1.1",
		Pins: pins.NewAliasTable(
			alias(P(1, 18), wpwm, "led1,P1.18"),
			alias(P(1, 19), wpwm, "led2,P1.19"),
			alias(P(1, 20), wpwm, "led3,P1.20"),
			alias(P(1, 21), wpwm, "led4,P1.21"),
			alias(P(4, 28), wpwm, "play,P4.28"),

			alias(P(0, 23), pins.CapAinRW, "bedtemp,th0,P0.23"),
			alias(P(0, 24), pins.CapAinRW, "e0temp,th1,P0.24"),

			alias(P(1, 24), pins.CapRead, "xstop,P1.24"),
			alias(P(1, 26), pins.CapRead, "ystop,P1.26"),
			alias(P(1, 28), pins.CapRead, "zstop,P1.28"),
			alias(P(1, 29), pins.CapRead, "e0stop,P1.29"),

			alias(P(2, 5), wpwm, "e0heat,hend,P2.5"),
			alias(P(2, 7), wpwm, "bed,hbed,P2.7"),
			alias(P(2, 4), wpwm, "fan0,P2.4"),

			alias(P(1, 30), rwpwm, "P1.30"),
			alias(P(1, 22), rwpwm, "P1.22"),
			alias(P(0, 26), rwpwm, "P0.26"),
			alias(P(0, 25), rwpwm, "P0.25"),
			alias(P(0, 27), rwpwm, "sda,P0.27"),
			alias(P(4, 29), rwpwm, "P4.29"),
			alias(P(0, 28), rwpwm, "scl,P0.28"),
			alias(P(2, 8), rwpwm, "P2.8"),

			alias(P(1, 31), rwpwm, "P1.31"),
			alias(P(3, 26), rwpwm, "P3.26"),
			alias(P(2, 11), rwpwm, "P2.11"),
			alias(P(3, 25), rwpwm, "P3.25"),
			alias(P(1, 23), rwpwm, "P1.23"),
			alias(P(0, 17), rwpwm, "P0.17"),
			alias(P(0, 16), rwpwm, "P0.16"),
			alias(P(2, 6), rwpwm, "P2.6"),
			alias(P(0, 15), rwpwm, "P0.15"),
			alias(P(0, 18), rwpwm, "P0.18"),
		),
		Defaults: Defaults{
			EnablePins:    drivers(P(0, 10), P(0, 19), P(0, 21), P(0, 4), pins.NoPin),
			StepPins:      drivers(P(2, 1), P(2, 2), P(2, 3), P(2, 0), pins.NoPin),
			DirectionPins: drivers(P(0, 11), P(0, 20), P(0, 22), P(0, 5), pins.NoPin),
			DigipotFactor: 106.0,
		},
	}
}

func biquSKR11() *Board {
	const rw, wpwm, rwpwm = pins.CapReadWrite, pins.CapWritePWM, pins.CapRWPWM
	return &Board{
		Name:        "biquskr_1.1",
		Description: "BIGTREETECH SKR v1.1",
		Pins: pins.NewAliasTable(
			alias(P(0, 23), pins.CapAinRW, "bedtemp,tb,P0.23"),
			alias(P(0, 24), pins.CapAinRW, "e0heat,th0,P0.24"),
			alias(P(0, 25), pins.CapAinRW, "e1heat,th1,P0.25"),

			alias(P(1, 29), rw, "xstop,xmin,P1.29"),
			alias(P(1, 28), rw, "xstopmax,xmax,P1.28"),
			alias(P(1, 27), rw, "ystop,ymin,P1.27"),
			alias(P(1, 26), rw, "ystopmax,ymax,P1.26"),
			alias(P(1, 25), rw, "zstop,zmin,P1.25"),
			alias(P(1, 24), rw, "zstopmax,zmax,P1.24"),

			alias(P(2, 5), wpwm, "bed,hbed,P2.5"),
			alias(P(2, 7), wpwm, "e0heat,he0,P2.7"),
			alias(P(2, 4), wpwm, "e0heat,he1,P2.4"),
			alias(P(2, 3), wpwm, "fan0,P2.3"),

			alias(P(0, 16), rwpwm, "P0.16"),
			alias(P(2, 11), rwpwm, "P2.11"),
			alias(P(1, 30), rwpwm, "P1.30"),
			alias(P(1, 31), rwpwm, "P1.31"),
			alias(P(3, 25), rwpwm, "P3.25"),
			alias(P(1, 23), rwpwm, "P1.23"),
			alias(P(3, 26), rwpwm, "P3.26"),
			alias(P(2, 6), rwpwm, "P2.6"),
		),
		Defaults: Defaults{
			EnablePins:    drivers(P(4, 28), P(2, 0), P(0, 19), P(2, 12), P(0, 10)),
			StepPins:      drivers(P(0, 4), P(2, 1), P(0, 20), P(0, 11), P(0, 1)),
			DirectionPins: drivers(P(0, 5), P(2, 2), P(0, 21), P(2, 13), P(0, 0)),
		},
	}
}

// skrExpansion are the EXP1/EXP2 header pins shared by SKR 1.3 and 1.4.
func skrExpansion() []pins.AliasEntry {
	const rwpwm = pins.CapRWPWM
	return []pins.AliasEntry{
		alias(P(1, 23), rwpwm, "P1.23"),
		alias(P(1, 22), rwpwm, "P1.22"),
		alias(P(1, 21), rwpwm, "P1.21"),
		alias(P(1, 20), rwpwm, "P1.20"),
		alias(P(1, 19), rwpwm, "P1.19"),
		alias(P(1, 18), rwpwm, "P1.18"),
		alias(P(0, 28), rwpwm, "P0.28"),
		alias(P(1, 30), rwpwm, "P1.30"),

		alias(P(1, 31), rwpwm, "P1.31"),
		alias(P(3, 25), rwpwm, "P3.25"),
		alias(P(0, 16), rwpwm, "P0.16"),
		alias(P(3, 26), rwpwm, "P3.26"),
	}
}

func biquSKR13() *Board {
	const wpwm, rwpwm = pins.CapWritePWM, pins.CapRWPWM

	entries := []pins.AliasEntry{
		alias(P(0, 23), pins.CapAinRW, "bedtemp,tb,P0.23"),
		alias(P(0, 24), pins.CapAinRW, "e0temp,th0,P0.24"),
		alias(P(0, 25), pins.CapAinRW, "e1temp,th1,P0.25"),

		alias(P(1, 29), rwpwm, "xstop,xmin,P1.29"),
		alias(P(1, 28), rwpwm, "xstopmax,xmax,P1.28"),
		alias(P(1, 27), rwpwm, "ystop,ymin,P1.27"),
		alias(P(1, 26), rwpwm, "ystopmax,ymax,P1.26"),
		alias(P(1, 25), rwpwm, "zstop,zmin,P1.25"),
		alias(P(1, 24), rwpwm, "zstopmax,zmax,P1.24"),

		alias(P(2, 5), wpwm, "bed,hbed,P2.5"),
		alias(P(2, 7), wpwm, "e0heat,he0,P2.7"),
		alias(P(2, 4), wpwm, "e1heat,he1,P2.4"),
		alias(P(2, 3), wpwm, "fan0,P2.3"),

		alias(P(2, 0), rwpwm, "servo0,P2.0"),
	}
	entries = append(entries, skrExpansion()...)
	entries = append(entries, alias(P(0, 27), rwpwm, "data2,P0.27"))

	return &Board{
		Name:        "biquskr_1.3",
		Description: "BIGTREETECH SKR v1.3",
		Pins:        pins.NewAliasTable(entries...),
		Defaults: Defaults{
			EnablePins:    drivers(P(2, 1), P(2, 8), P(0, 21), P(2, 12), P(0, 10)),
			StepPins:      drivers(P(2, 2), P(0, 19), P(0, 22), P(2, 13), P(0, 1)),
			DirectionPins: drivers(P(2, 6), P(0, 20), P(2, 11), P(0, 11), P(0, 0)),
		},
	}
}

func biquSKR14() *Board {
	const wpwm, rwpwm = pins.CapWritePWM, pins.CapRWPWM

	entries := []pins.AliasEntry{
		alias(P(0, 23), pins.CapAinRW, "e1temp,th1,P0.23"),
		alias(P(0, 24), pins.CapAinRW, "e0temp,th0,P0.24"),
		alias(P(0, 25), pins.CapAinRW, "bedtemp,tb,P0.25"),

		alias(P(1, 29), rwpwm, "xstop,P1.29"),
		alias(P(1, 28), rwpwm, "ystop,P1.28"),
		alias(P(1, 27), rwpwm, "zstop,P1.27"),
		alias(P(1, 26), rwpwm, "e0stop,e0det,P1.26"),
		alias(P(1, 25), rwpwm, "e1stop,e1det,P1.25"),
		alias(P(1, 0), rwpwm, "pwrstop,pwrdet,P1.0"),
		alias(P(0, 10), rwpwm, "probe,P0.10"),

		alias(P(2, 5), wpwm, "bed,P2.5"),
		alias(P(2, 7), wpwm, "e0heat,h0,P2.7"),
		alias(P(2, 4), wpwm, "e1heat,h1,P2.4"),
		alias(P(2, 3), wpwm, "fan0,P2.3"),

		alias(P(2, 0), rwpwm, "servo0,P2.0"),
	}
	entries = append(entries, skrExpansion()...)
	entries = append(entries,
		alias(P(1, 24), rwpwm, "neopixel,P1.24"),
		alias(P(4, 28), rwpwm, "P4.28"),
		alias(P(4, 29), rwpwm, "P4.29"),
		alias(P(0, 27), rwpwm, "data2,P0.27"),
	)

	return &Board{
		Name:        "biquskr_1.4",
		Description: "BIGTREETECH SKR v1.4 / v1.4 Turbo",
		Pins:        pins.NewAliasTable(entries...),
		Defaults: Defaults{
			EnablePins:    drivers(P(2, 1), P(2, 8), P(0, 21), P(2, 12), P(1, 16)),
			StepPins:      drivers(P(2, 2), P(0, 19), P(0, 22), P(2, 13), P(1, 15)),
			DirectionPins: drivers(P(2, 6), P(0, 20), P(2, 11), P(0, 11), P(1, 14)),
		},
	}
}
