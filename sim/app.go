//go:build !rp2040

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
	"context"
	"fmt"
	"log/slog"

	"freqmeter/src/board"
	"freqmeter/src/counter"
	"freqmeter/src/display"
	"freqmeter/src/meter"
	"freqmeter/src/mode"
	"freqmeter/src/reference"
)

const (
	panelAddr = 0x27
	// fastest input the edge generator keeps up with on a typical host
	maxSignalHz = 200e6
)

// app is the meter firmware wired to a simulated board and panel.
type app struct {
	cfg     Config
	board   board.Config
	sim     *board.Sim
	panel   *display.Panel
	counter *counter.Counter
	meter   *meter.Instrument
	log     *slog.Logger
}

func newApp(cfg Config, bc board.Config, log *slog.Logger) (*app, error) {
	sim, err := board.NewSim(bc)
	if err != nil {
		return nil, err
	}
	panel := display.NewPanel(panelAddr, bc.Width, bc.Height)
	lcd := display.NewLCD(panel, panelAddr, bc.Width, bc.Height)
	if err := lcd.Init(); err != nil {
		return nil, err
	}

	c := counter.New(&sim.Counter)
	sim.Bind(c)
	modes := mode.NewController(sim, c, lcd, log)
	modes.Hold = bc.BannerHold

	a := &app{
		cfg:     cfg,
		board:   bc,
		sim:     sim,
		panel:   panel,
		counter: c,
		meter:   meter.New(bc.Meter(), modes, c, lcd, &sim.Button, sim, log),
		log:     log,
	}
	if err := a.tune(); err != nil {
		return nil, err
	}
	sim.SetBattery(cfg.BatteryRaw)
	return a, nil
}

// tune sets the input signal, either directly or from what the Si5351
// would actually produce for the configured reference.
func (a *app) tune() error {
	if !a.cfg.UseReference {
		a.sim.Signal.SetHz(a.cfg.SignalHz)
		return nil
	}
	plan, err := reference.NewPlan(a.board.XtalHz, a.board.ReferenceHz, 0)
	if err != nil {
		return fmt.Errorf("freqsim: reference: %w", err)
	}
	a.sim.Signal.SetHz(plan.Clock.Actual)
	a.log.Info("sim:reference",
		slog.Float64("target", plan.Clock.Target),
		slog.Float64("actual", plan.Clock.Actual),
		slog.Uint64("expect", uint64(reference.Expected(plan.Clock.Actual, a.board.Window, 1, mode.BaseFrequency.Scale()))))
	return nil
}

// run starts the board and the main loop and blocks until ctx ends.
func (a *app) run(ctx context.Context) error {
	go a.sim.Run(ctx)
	a.meter.Start()
	a.log.Info("sim:ready",
		slog.Float64("signal", a.sim.Signal.Hz()),
		slog.String("mode", a.meter.Mode().String()))
	return a.meter.Run(ctx)
}

// status is a one line summary of the simulated board.
func (a *app) status() string {
	c := a.sim.Carries()
	return fmt.Sprintf("up %.1fs signal %.0fHz carries %d/%d/%d",
		a.sim.Uptime().Seconds(), a.sim.Signal.Hz(), c[0], c[1], c[2])
}

// scaleSignal multiplies the input frequency, staying within what the
// extended counter can hold for one window.
func (a *app) scaleSignal(f float64) {
	hz := a.sim.Signal.Hz() * f
	switch {
	case hz < 1:
		hz = 1
	case hz > maxSignalHz:
		hz = maxSignalHz
	}
	a.sim.Signal.SetHz(hz)
	a.log.Info("sim:signal", slog.Float64("hz", hz))
}

// nudgeBattery moves the battery sample by d counts, clamped to the ADC
// range.
func (a *app) nudgeBattery(d int) {
	raw := int(a.sim.Battery()) + d
	top := 1<<a.board.ADCBits - 1
	switch {
	case raw < 0:
		raw = 0
	case raw > top:
		raw = top
	}
	a.sim.SetBattery(uint16(raw))
	a.log.Info("sim:battery", slog.Int("raw", raw))
}
