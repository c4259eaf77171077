/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package board connects the meter to its hardware.

On the RP2040 a PWM slice in rising-edge mode with TOP=255 is the 8-bit
edge counter and its wrap interrupt drives the extender. Timer alarm 1
fires every window and drives the sampler. Alarm 0 is left alone since
the TinyGo runtime sleeps on it.

Everywhere else the same roles are played by a simulation: a counter fed
by a synthetic signal, a ticker for the window and a mutex standing in
for the interrupt controller.
*/
package board

import (
	"errors"
	"log/slog"
	"time"

	"freqmeter/src/format"
	"freqmeter/src/meter"
	"freqmeter/src/mode"
)

// WindowPeriod is the sampling window the x4 and x64 display scales are
// worked out for.
const WindowPeriod = 250 * time.Millisecond

// Pin is a GPIO number.
type Pin uint8

// Pins is the wiring of one board.
type Pins struct {
	Pulse     Pin // counter input, must be a PWM B channel (odd GPIO)
	Prescaler Pin // low enables the external /16 divider
	Indicator Pin
	Button    Pin // active low, internal pull-up
	Battery   Pin // ADC input
	SDA, SCL  Pin // I²C0, shared by LCD backpack and Si5351
	CalOut    Pin // PIO calibration square wave
	LogTX     Pin
	LogRX     Pin

	// Parallel LCD wiring, used when LCD is LCDParallel.
	D4, D5, D6, D7, E, RS Pin
}

// LCDKind selects how the character display is attached.
type LCDKind uint8

const (
	LCDI2C LCDKind = iota
	LCDParallel
)

type Config struct {
	Pins Pins

	// Window is the sampling period. The mode scales are only right for
	// WindowPeriod, so nothing else validates.
	Window      time.Duration
	Initial     mode.Mode
	Policy      format.Policy
	Calibration format.Calibration
	// ADCBits is the resolution the battery sample is reduced to before
	// calibration.
	ADCBits uint8
	// BannerHold is how long mode banners stay up.
	BannerHold time.Duration

	LCD           LCDKind
	LCDAddr       uint8 // 0 probes the usual backpack addresses
	Width, Height uint8

	XtalHz      float64 // Si5351 crystal
	ReferenceHz float64 // Si5351 CLK0 output, 0 leaves it off
	CalOutHz    uint32  // PIO square wave, 0 leaves it off

	LogLevel slog.Level
	LogBaud  uint32
}

var (
	ErrWindow      = errors.New("board: window must be 250ms")
	ErrPulsePin    = errors.New("board: pulse input must be a PWM B pin")
	ErrADCBits     = errors.New("board: ADC resolution must be 1..12 bits")
	ErrCalibration = errors.New("board: calibration denominator is zero")
	ErrGeometry    = errors.New("board: display geometry not set")
)

// DefaultConfig is the Pico wiring.
func DefaultConfig() Config {
	return Config{
		Pins: Pins{
			Pulse:     3,
			Prescaler: 6,
			Indicator: 25,
			Button:    7,
			Battery:   26,
			SDA:       4,
			SCL:       5,
			CalOut:    15,
			LogTX:     8,
			LogRX:     9,
			D4:        10,
			D5:        11,
			D6:        12,
			D7:        13,
			E:         14,
			RS:        16,
		},
		Window:      250 * time.Millisecond,
		Initial:     mode.BaseFrequency,
		Policy:      format.Adaptive,
		Calibration: format.Calibration{Num: 59, Den: 512},
		ADCBits:     10,
		BannerHold:  time.Second,
		LCD:         LCDI2C,
		Width:       16,
		Height:      2,
		XtalHz:      25e6,
		ReferenceHz: 1e6,
		CalOutHz:    10_000,
		LogLevel:    slog.LevelInfo,
		LogBaud:     115200,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Window != WindowPeriod:
		return ErrWindow
	case c.Pins.Pulse%2 != 1 || c.Pins.Pulse > 29:
		return ErrPulsePin
	case c.ADCBits == 0 || c.ADCBits > 12:
		return ErrADCBits
	case c.Calibration.Den == 0:
		return ErrCalibration
	case c.Width == 0 || c.Height == 0:
		return ErrGeometry
	}
	return nil
}

// Meter is the part of the configuration the main loop cares about.
func (c Config) Meter() meter.Config {
	return meter.Config{
		Policy:      c.Policy,
		Calibration: c.Calibration,
		Width:       int(c.Width),
		Initial:     c.Initial,
	}
}

// scaleADC reduces a 16-bit left aligned sample to bits of resolution.
func scaleADC(raw uint16, bits uint8) uint16 {
	if bits >= 16 {
		return raw
	}
	return raw >> (16 - bits)
}
