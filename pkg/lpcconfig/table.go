package lpcconfig

import (
	bc "github.com/openfroyo/boardcfg/pkg/boardconfig"
)

// BoardTable is the phase-one table: only lpc.board.
func BoardTable(c *Config) *bc.Table {
	return bc.MustTable(
		bc.String("lpc.board", &c.Board, BoardNameCapacity),
	)
}

// Table is the phase-two table, bound to c. Optional groups are included
// according to f.
func Table(c *Config, f Features) *bc.Table {
	entries := []bc.Entry{
		bc.Pin("leds.diagnostic", &c.DiagnosticLED),

		bc.PinArray("stepper.enablePins", c.Stepper.EnablePins[:]),
		bc.PinArray("stepper.stepPins", c.Stepper.StepPins[:]),
		bc.PinArray("stepper.directionPins", c.Stepper.DirectionPins[:]),
		bc.Float("stepper.digipotFactor", &c.Stepper.DigipotFactor),

		bc.PinArray("heat.tempSensePins", c.Heat.TempSensePins[:]),
		bc.PinArray("heat.spiTempSensorCSPins", c.Heat.SpiTempSensorCSPins[:]),
		bc.Uint8("heat.spiTempSensorChannel", &c.Heat.SpiTempSensorChannel),

		bc.Pin("atx.powerPin", &c.ATX.PowerPin),
		bc.Bool("atx.powerPinInverted", &c.ATX.PowerPinInverted),

		bc.Uint32("sdCard.internal.spiFrequencyHz", &c.SDCard.InternalFrequencyHz),
		bc.Pin("sdCard.external.csPin", &c.SDCard.ExternalCSPin),
		bc.Pin("sdCard.external.cardDetectPin", &c.SDCard.ExternalCardDetectPin),
		bc.Uint32("sdCard.external.spiFrequencyHz", &c.SDCard.ExternalFrequencyHz),
		bc.Uint8("sdCard.external.spiChannel", &c.SDCard.ExternalChannel),
	}

	if f.LCD {
		entries = append(entries,
			bc.Pin("lcd.lcdCSPin", &c.LCD.CSPin),
			bc.Pin("lcd.lcdBeepPin", &c.LCD.BeepPin),
			bc.Pin("lcd.encoderPinA", &c.LCD.EncoderPinA),
			bc.Pin("lcd.encoderPinB", &c.LCD.EncoderPinB),
			bc.Pin("lcd.encoderPinSw", &c.LCD.EncoderPinSw),
			bc.Pin("lcd.lcdDCPin", &c.LCD.DCPin),
			bc.Pin("lcd.panelButtonPin", &c.LCD.PanelButtonPin),
			bc.Uint8("lcd.spiChannel", &c.LCD.SPIChannel),
		)
	}

	entries = append(entries, bc.PinArray("softwareSPI.pins", c.Software.Pins[:]))

	if f.WiFi {
		entries = append(entries,
			bc.Pin("8266wifi.espDataReadyPin", &c.WiFi.EspDataReadyPin),
			bc.Pin("8266wifi.lpcTfrReadyPin", &c.WiFi.LpcTfrReadyPin),
			bc.Pin("8266wifi.espResetPin", &c.WiFi.EspResetPin),
			bc.PinArray("8266wifi.serialRxTxPins", c.WiFi.SerialRxTxPins[:]),
		)
	}
	if f.SBC {
		entries = append(entries, bc.Pin("sbc.lpcTfrReadyPin", &c.SBC.LpcTfrReadyPin))
	}
	if f.AuxSerial {
		entries = append(entries, bc.PinArray("serial.aux.rxTxPins", c.Serial.AuxRxTxPins[:]))
	}
	if f.Aux2Serial {
		entries = append(entries, bc.PinArray("serial.aux2.rxTxPins", c.Serial.Aux2RxTxPins[:]))
	}

	entries = append(entries, bc.Bool("adc.prefilter.enable", &c.ADCPreFilter))

	return bc.MustTable(entries...)
}
