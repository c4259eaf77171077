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
Package meter is the main control loop of the instrument.

Each step polls the mode button, waits for it to be released, then shows
either the frequency of the last completed window or the battery voltage.
The loop never blocks on anything except the button release and the ADC
conversion, both of which are busy-waits.
*/
package meter

import (
	"context"
	"log/slog"
	"runtime"

	"freqmeter/src/counter"
	"freqmeter/src/display"
	"freqmeter/src/format"
	"freqmeter/src/mode"
)

// Button is the mode button. Pressed hides the active-low wiring.
type Button interface {
	Pressed() bool
}

// ADC starts a conversion, waits for it and returns the raw value.
type ADC interface {
	Read() uint16
}

type Config struct {
	Policy      format.Policy
	Calibration format.Calibration
	// Width is the display line length; every render is padded to it.
	Width   int
	Initial mode.Mode
}

func DefaultConfig() Config {
	return Config{
		Policy:      format.Adaptive,
		Calibration: format.Calibration{Num: 59, Den: 512},
		Width:       16,
		Initial:     mode.BaseFrequency,
	}
}

type Instrument struct {
	cfg     Config
	modes   *mode.Controller
	counter *counter.Counter
	lcd     display.Service
	button  Button
	adc     ADC
	log     *slog.Logger

	buf []byte
}

func New(cfg Config, modes *mode.Controller, c *counter.Counter, lcd display.Service, button Button, adc ADC, log *slog.Logger) *Instrument {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Width <= 0 {
		cfg.Width = 16
	}
	return &Instrument{
		cfg:     cfg,
		modes:   modes,
		counter: c,
		lcd:     lcd,
		button:  button,
		adc:     adc,
		log:     log,
		buf:     make([]byte, 0, 40),
	}
}

// Start enters the configured initial mode.
func (in *Instrument) Start() {
	in.modes.Enter(in.cfg.Initial)
}

// Run steps until ctx is done. Firmware passes a context that never ends.
func (in *Instrument) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		in.Step()
	}
}

// Step is one pass of the main loop.
func (in *Instrument) Step() {
	if in.button.Pressed() {
		for in.button.Pressed() {
			runtime.Gosched()
		}
		in.modes.Advance()
	}

	in.lcd.GoHome()
	m := in.modes.Mode()
	buf := in.buf[:0]
	switch {
	case m.IsFrequency():
		if in.counter.TakeOverflow() {
			in.log.Warn("meter:overflow", slog.String("mode", m.String()))
			buf = append(buf, format.Overflow...)
			break
		}
		count := in.counter.ReadLastFull()
		hz := format.Frequency(count, m.Scale())
		buf = format.AppendFrequency(buf, hz, in.cfg.Policy)
		in.log.Debug("meter:frequency", slog.Uint64("count", uint64(count)), slog.Uint64("hz", uint64(hz)))
	default:
		in.counter.PublishBattery(in.adc.Read())
		raw := in.counter.ReadBattery()
		tenths := in.cfg.Calibration.Tenths(raw)
		buf = format.AppendBattery(buf, tenths)
		in.log.Debug("meter:battery", slog.Uint64("raw", uint64(raw)), slog.Uint64("tenths", uint64(tenths)))
	}
	buf = format.Pad(buf, in.cfg.Width)
	in.lcd.Print(buf)
	in.buf = buf
}

// Mode is the current measurement mode.
func (in *Instrument) Mode() mode.Mode {
	return in.modes.Mode()
}
