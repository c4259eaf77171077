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

package mode

import (
	"log/slog"
	"time"

	"freqmeter/src/display"
	"freqmeter/src/format"
)

// Hardware is the set of outputs a mode transition drives. None of these
// report errors; they are plain register writes.
type Hardware interface {
	// SetPrescaler routes the pulse input through the external /16 divider.
	SetPrescaler(enabled bool)
	SetIndicator(on bool)
	// StartCounting enables both measurement interrupts.
	StartCounting()
	// StopCounting disables both measurement interrupts. When it returns no
	// handler is running or will run.
	StopCounting()
	EnableADC()
}

// Restarter zeroes the extended count. It is called with counting stopped.
type Restarter interface {
	Restart()
}

const (
	baseBanner  = "Freq  /1"
	extraBanner = "Freq /16"
)

// Controller is the mode state machine. It is only driven from the main
// loop.
type Controller struct {
	mode    Mode
	hw      Hardware
	counter Restarter
	lcd     display.Service
	log     *slog.Logger

	// Hold is how long a banner stays up before measurements overwrite it.
	Hold  time.Duration
	Sleep func(time.Duration)
	// Width is the display line length banners are padded to.
	Width int

	buf []byte
}

func NewController(hw Hardware, counter Restarter, lcd display.Service, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		hw:      hw,
		counter: counter,
		lcd:     lcd,
		log:     log,
		Hold:    time.Second,
		Sleep:   time.Sleep,
		Width:   16,
		buf:     make([]byte, 0, 40),
	}
}

func (c *Controller) Mode() Mode { return c.mode }

// Enter runs the entry transition for m and makes it current.
func (c *Controller) Enter(m Mode) {
	switch m {
	case BaseFrequency:
		c.enterBase()
	case ExtraFrequency:
		c.enterExtra()
	case BatteryVoltage:
		c.enterBattery()
	default:
		c.log.Error("mode:enter", slog.String("mode", m.String()))
		return
	}
	c.mode = m
	c.log.Info("mode:enter", slog.String("mode", m.String()), slog.Uint64("scale", uint64(m.Scale())))
}

// Advance moves to the next mode in the cycle.
func (c *Controller) Advance() {
	c.Enter(c.mode.Next())
}

func (c *Controller) enterBase() {
	c.banner(baseBanner)
	c.hw.StopCounting()
	c.hw.SetPrescaler(false)
	c.hw.SetIndicator(false)
	c.counter.Restart()
	c.hw.StartCounting()
}

func (c *Controller) enterExtra() {
	c.banner(extraBanner)
	c.hw.StopCounting()
	c.hw.SetPrescaler(true)
	c.hw.SetIndicator(true)
	c.counter.Restart()
	c.hw.StartCounting()
}

func (c *Controller) enterBattery() {
	c.lcd.GoHome()
	c.hw.SetIndicator(false)
	c.hw.StopCounting()
	c.hw.EnableADC()
}

func (c *Controller) banner(text string) {
	c.lcd.GoHome()
	c.buf = format.Pad(append(c.buf[:0], text...), c.Width)
	c.lcd.Print(c.buf)
	if c.Hold > 0 && c.Sleep != nil {
		c.Sleep(c.Hold)
	}
}
