//go:build rp2040

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

package main

import (
	"log/slog"
	"machine"
	"time"

	"freqmeter/src/board"
	"freqmeter/src/counter"
	"freqmeter/src/display"
	"freqmeter/src/meter"
	"freqmeter/src/mode"
	"freqmeter/src/reference"
)

func main() {
	cfg := board.DefaultConfig()
	// USB serial until the log UART is up
	logger := board.NewLogger(machine.Serial, cfg.LogLevel)

	pico, err := board.Setup(cfg)
	if err != nil {
		printErrForever(logger, "board setup", slog.Any("reason", err))
	}
	if l, err := pico.Logger(); err != nil {
		logger.Warn("log UART unavailable", slog.Any("reason", err))
	} else {
		logger = l
	}

	bus, err := pico.ConfigureI2C()
	if err != nil {
		printErrForever(logger, "configure I2C", slog.Any("reason", err))
	}
	lcd, err := openDisplay(cfg, bus)
	if err != nil {
		printErrForever(logger, "display", slog.Any("reason", err))
	}

	plan, err := reference.NewPlan(cfg.XtalHz, cfg.ReferenceHz, cfg.CalOutHz)
	if err != nil {
		printErrForever(logger, "reference plan", slog.Any("reason", err))
	}
	refs, err := reference.Start(plan, bus, machine.Pin(cfg.Pins.CalOut), logger)
	if err != nil {
		// the meter is still useful without its references
		logger.Error("reference outputs", slog.Any("reason", err))
	}
	if plan.ClockOn {
		logger.Info("reference:expect",
			slog.Uint64("base", uint64(reference.Expected(plan.Clock.Actual, cfg.Window, 1, mode.BaseFrequency.Scale()))),
			slog.Uint64("extra", uint64(reference.Expected(plan.Clock.Actual, cfg.Window, 16, mode.ExtraFrequency.Scale()))))
	}

	c := counter.New(pico)
	if err = pico.Bind(c); err != nil {
		printErrForever(logger, "bind handlers", slog.Any("reason", err))
	}
	modes := mode.NewController(pico, c, lcd, logger)
	modes.Hold = cfg.BannerHold
	inst := meter.New(cfg.Meter(), modes, c, lcd, pico, pico, logger)

	inst.Start()
	logger.Info("meter:ready",
		slog.Duration("boot", pico.Uptime()),
		slog.String("mode", inst.Mode().String()),
		slog.Uint64("irq", uint64(pico.Status())))
	for {
		inst.Step()
		refs.Service()
	}
}

func openDisplay(cfg board.Config, bus *machine.I2C) (display.Service, error) {
	var lcd display.Service
	switch cfg.LCD {
	case board.LCDParallel:
		p := cfg.Pins
		lcd = display.NewParallel(display.ParallelPins{
			D4: machine.Pin(p.D4), D5: machine.Pin(p.D5),
			D6: machine.Pin(p.D6), D7: machine.Pin(p.D7),
			E: machine.Pin(p.E), RS: machine.Pin(p.RS),
		}, cfg.Width, cfg.Height)
	default:
		addr := cfg.LCDAddr
		if addr == 0 {
			var err error
			if addr, err = display.Probe(bus); err != nil {
				return nil, err
			}
		}
		lcd = display.NewLCD(bus, addr, cfg.Width, cfg.Height)
	}
	if err := lcd.Init(); err != nil {
		return nil, err
	}
	return lcd, nil
}

func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
