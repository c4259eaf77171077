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
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"
)

type recorder struct {
	ops []string
}

func (r *recorder) add(op string) { r.ops = append(r.ops, op) }

func (r *recorder) SetPrescaler(on bool) { r.add("prescaler " + strconv.FormatBool(on)) }
func (r *recorder) SetIndicator(on bool) { r.add("indicator " + strconv.FormatBool(on)) }
func (r *recorder) StartCounting()       { r.add("start") }
func (r *recorder) StopCounting()        { r.add("stop") }
func (r *recorder) EnableADC()           { r.add("adc") }
func (r *recorder) Restart()             { r.add("restart") }

func (r *recorder) Init() error               { return nil }
func (r *recorder) Print(text []byte)         { r.add("print " + strings.TrimRight(string(text), " ")) }
func (r *recorder) PrintN(text []byte, n int) { r.Print(text[:n]) }
func (r *recorder) SetCursor(offset uint8)    { r.add("cursor " + strconv.Itoa(int(offset))) }
func (r *recorder) GoHome()                   { r.add("home") }

func newTestController() (*Controller, *recorder, *[]time.Duration) {
	r := &recorder{}
	var slept []time.Duration
	c := NewController(r, r, r, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, r, &slept
}

func Test_cycle(t *testing.T) {
	tests := []struct {
		from, want Mode
	}{
		{BaseFrequency, ExtraFrequency},
		{ExtraFrequency, BatteryVoltage},
		{BatteryVoltage, BaseFrequency},
	}
	for _, tt := range tests {
		if got := tt.from.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func Test_threeAdvancesReturn(t *testing.T) {
	c, _, _ := newTestController()
	c.Enter(BaseFrequency)
	for i := 0; i < Count; i++ {
		c.Advance()
	}
	if c.Mode() != BaseFrequency {
		t.Errorf("mode after %d advances = %v, want %v", Count, c.Mode(), BaseFrequency)
	}
}

func Test_scale(t *testing.T) {
	for m, want := range map[Mode]uint32{BaseFrequency: 4, ExtraFrequency: 64, BatteryVoltage: 0} {
		if got := m.Scale(); got != want {
			t.Errorf("%v.Scale() = %d, want %d", m, got, want)
		}
		if m.IsFrequency() != (want != 0) {
			t.Errorf("%v.IsFrequency() = %v", m, m.IsFrequency())
		}
	}
}

func Test_transitions(t *testing.T) {
	tests := []struct {
		mode  Mode
		ops   []string
		holds int
	}{
		{
			mode:  BaseFrequency,
			ops:   []string{"home", "print Freq  /1", "stop", "prescaler false", "indicator false", "restart", "start"},
			holds: 1,
		},
		{
			mode:  ExtraFrequency,
			ops:   []string{"home", "print Freq /16", "stop", "prescaler true", "indicator true", "restart", "start"},
			holds: 1,
		},
		{
			mode: BatteryVoltage,
			ops:  []string{"home", "indicator false", "stop", "adc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			c, r, slept := newTestController()
			c.Enter(tt.mode)
			if !reflect.DeepEqual(r.ops, tt.ops) {
				t.Errorf("ops = %q, want %q", r.ops, tt.ops)
			}
			if len(*slept) != tt.holds {
				t.Errorf("banner holds = %v, want %d", *slept, tt.holds)
			}
			for _, d := range *slept {
				if d != time.Second {
					t.Errorf("hold = %v, want 1s", d)
				}
			}
			if c.Mode() != tt.mode {
				t.Errorf("Mode() = %v, want %v", c.Mode(), tt.mode)
			}
		})
	}
}

func Test_bannerPadded(t *testing.T) {
	r := &recorder{}
	var printed []byte
	c := NewController(r, r, printSpy{r, &printed}, nil)
	c.Hold = 0
	c.Enter(ExtraFrequency)
	if string(printed) != "Freq /16        " {
		t.Errorf("banner = %q, want padded to 16", printed)
	}
}

type printSpy struct {
	*recorder
	last *[]byte
}

func (p printSpy) Print(text []byte) { *p.last = append((*p.last)[:0], text...) }

func Test_parse(t *testing.T) {
	for m := Mode(0); m < Count; m++ {
		got, err := Parse(m.String())
		if err != nil || got != m {
			t.Errorf("Parse(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := Parse("volts"); err != ErrUnknownMode {
		t.Errorf("Parse(volts) error = %v, want %v", err, ErrUnknownMode)
	}
	if got := Mode(7).String(); got != "Mode(7)" {
		t.Errorf("Mode(7).String() = %q", got)
	}
}
