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

package meter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"freqmeter/src/counter"
	"freqmeter/src/format"
	"freqmeter/src/mode"
)

type fakeHW struct{ count uint8 }

func (h *fakeHW) Count() uint8 { return h.count }
func (h *fakeHW) Reset()       { h.count = 0 }

type fakeBoard struct {
	prescaler, indicator, counting, adc bool
}

func (b *fakeBoard) SetPrescaler(on bool) { b.prescaler = on }
func (b *fakeBoard) SetIndicator(on bool) { b.indicator = on }
func (b *fakeBoard) StartCounting()       { b.counting = true }
func (b *fakeBoard) StopCounting()        { b.counting = false }
func (b *fakeBoard) EnableADC()           { b.adc = true }

type fakeLCD struct {
	homes int
	last  string
}

func (l *fakeLCD) Init() error               { return nil }
func (l *fakeLCD) Print(text []byte)         { l.last = string(text) }
func (l *fakeLCD) PrintN(text []byte, n int) { l.Print(text[:n]) }
func (l *fakeLCD) SetCursor(uint8)           {}
func (l *fakeLCD) GoHome()                   { l.homes++ }

// scriptButton reads as pressed for the given number of polls.
type scriptButton struct{ held int }

func (b *scriptButton) Pressed() bool {
	if b.held > 0 {
		b.held--
		return true
	}
	return false
}

type fixedADC uint16

func (a fixedADC) Read() uint16 { return uint16(a) }

type rig struct {
	in     *Instrument
	hw     *fakeHW
	c      *counter.Counter
	board  *fakeBoard
	lcd    *fakeLCD
	button *scriptButton
}

func newRig(cfg Config) *rig {
	r := &rig{
		hw:     &fakeHW{},
		board:  &fakeBoard{},
		lcd:    &fakeLCD{},
		button: &scriptButton{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r.c = counter.New(r.hw)
	modes := mode.NewController(r.board, r.c, r.lcd, log)
	modes.Hold = 0
	r.in = New(cfg, modes, r.c, r.lcd, r.button, fixedADC(717), log)
	r.in.Start()
	return r
}

// window simulates one full sampling window of n pulses.
func (r *rig) window(n uint32) {
	for i := uint32(0); i < n>>8; i++ {
		r.c.OnCounterOverflow()
	}
	r.hw.count = uint8(n)
	r.c.OnWindowElapsed()
}

func Test_startsInBase(t *testing.T) {
	r := newRig(DefaultConfig())
	if r.in.Mode() != mode.BaseFrequency {
		t.Errorf("initial mode = %v", r.in.Mode())
	}
	if !r.board.counting || r.board.prescaler || r.board.indicator {
		t.Errorf("board after start = %+v", *r.board)
	}
}

func Test_frequency(t *testing.T) {
	tests := []struct {
		name   string
		policy format.Policy
		pulses uint32
		want   string
	}{
		{"fixed", format.Fixed, 1000, "  4000Hz        "},
		{"adaptive hertz", format.Adaptive, 125, "   500Hz        "},
		{"adaptive kilohertz", format.Adaptive, 37_500, "150.000kHz      "},
		{"adaptive megahertz", format.Adaptive, 375_000, "1.5000MHz       "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Policy = tt.policy
			r := newRig(cfg)
			r.window(tt.pulses)
			r.in.Step()
			if r.lcd.last != tt.want {
				t.Errorf("display = %q, want %q", r.lcd.last, tt.want)
			}
		})
	}
}

func Test_extraScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Initial = mode.ExtraFrequency
	r := newRig(cfg)
	if !r.board.prescaler || !r.board.indicator {
		t.Fatalf("extra mode board = %+v", *r.board)
	}
	r.window(2000)
	r.in.Step()
	if r.lcd.last != "128.000kHz      " {
		t.Errorf("display = %q", r.lcd.last)
	}
}

func Test_overflowShownOnce(t *testing.T) {
	r := newRig(DefaultConfig())
	r.window(250)
	r.c.Flags().SetOverflow(true)

	r.in.Step()
	if r.lcd.last != "overflow        " {
		t.Errorf("first step = %q, want overflow", r.lcd.last)
	}
	r.in.Step()
	if r.lcd.last != "  1000Hz        " {
		t.Errorf("second step = %q, want the numeric path", r.lcd.last)
	}
}

func Test_buttonCyclesModes(t *testing.T) {
	r := newRig(DefaultConfig())

	r.button.held = 5
	r.in.Step()
	if r.in.Mode() != mode.ExtraFrequency {
		t.Fatalf("mode after one press = %v", r.in.Mode())
	}
	if r.button.held != 0 {
		t.Errorf("release wait left %d polls", r.button.held)
	}

	r.button.held = 1
	r.in.Step()
	if r.in.Mode() != mode.BatteryVoltage {
		t.Fatalf("mode after two presses = %v", r.in.Mode())
	}
	if r.board.counting || !r.board.adc {
		t.Errorf("battery board = %+v", *r.board)
	}
	if r.lcd.last != "BAT 8.2V        " {
		t.Errorf("battery display = %q", r.lcd.last)
	}

	r.button.held = 1
	r.in.Step()
	if r.in.Mode() != mode.BaseFrequency {
		t.Errorf("mode after three presses = %v", r.in.Mode())
	}
}

func Test_homeEveryStep(t *testing.T) {
	r := newRig(DefaultConfig())
	before := r.lcd.homes
	for i := 0; i < 3; i++ {
		r.in.Step()
	}
	if got := r.lcd.homes - before; got != 3 {
		t.Errorf("GoHome called %d times in 3 steps", got)
	}
}

func Test_runStops(t *testing.T) {
	r := newRig(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.in.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want %v", err, context.Canceled)
	}
}
