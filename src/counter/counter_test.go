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

package counter

import "testing"

type fakeHW struct {
	count  uint8
	resets int
}

func (h *fakeHW) Count() uint8 { return h.count }
func (h *fakeHW) Reset()       { h.count = 0; h.resets++ }

func Test_rippleCarry(t *testing.T) {
	c := New(&fakeHW{})
	var inc2, inc3, overflows int
	prev := c.Carries()
	for i := 0; i < 1<<24; i++ {
		c.OnCounterOverflow()
		cur := c.Carries()
		if cur[1] != prev[1] {
			inc2++
		}
		if cur[2] != prev[2] {
			inc3++
		}
		if c.TakeOverflow() {
			overflows++
		}
		prev = cur
	}
	if inc2 != 1<<16 {
		t.Errorf("carry2 changed %d times, want %d", inc2, 1<<16)
	}
	if inc3 != 1<<8 {
		t.Errorf("carry3 changed %d times, want %d", inc3, 1<<8)
	}
	if overflows != 1 {
		t.Errorf("overflow set %d times, want 1", overflows)
	}
	if c.Carries() != [3]uint8{} {
		t.Errorf("carries after full wrap = %v, want zero", c.Carries())
	}
}

func Test_overflowOnlyAtTop(t *testing.T) {
	c := New(&fakeHW{})
	for i := 0; i < 1<<24-1; i++ {
		c.OnCounterOverflow()
	}
	if c.Overflowed() {
		t.Fatalf("overflow set after %d calls", 1<<24-1)
	}
	c.OnCounterOverflow()
	if !c.Overflowed() {
		t.Fatalf("overflow not set after %d calls", 1<<24)
	}
}

func Test_snapshot(t *testing.T) {
	tests := []struct {
		name     string
		hw       uint8
		extends  int
		guarded  bool
		previous uint32
		want     uint32
	}{
		{name: "empty window", want: 0},
		{name: "hardware only", hw: 0x2a, want: 0x2a},
		{name: "one carry", hw: 7, extends: 1, want: 0x107},
		{name: "all bytes", hw: 0x44, extends: 0x112233, want: 0x11223344},
		{name: "guarded keeps old value", hw: 9, extends: 3, guarded: true, previous: 1234, want: 1234},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := &fakeHW{}
			c := New(hw)
			c.last.Store(tt.previous)
			for i := 0; i < tt.extends; i++ {
				c.OnCounterOverflow()
			}
			hw.count = tt.hw
			c.Flags().SetReading(tt.guarded)
			c.OnWindowElapsed()
			c.Flags().SetReading(false)

			if got := c.ReadLastFull(); got != tt.want {
				t.Errorf("last full = %#x, want %#x", got, tt.want)
			}
			if hw.count != 0 || hw.resets != 1 {
				t.Errorf("hardware count = %d after %d resets, want 0 after 1", hw.count, hw.resets)
			}
			if c.Carries() != [3]uint8{} {
				t.Errorf("carries = %v, want zero", c.Carries())
			}
		})
	}
}

func Test_takeOverflowOnce(t *testing.T) {
	c := New(&fakeHW{})
	c.Flags().SetOverflow(true)
	if !c.TakeOverflow() {
		t.Fatal("first take = false, want true")
	}
	for i := 0; i < 3; i++ {
		if c.TakeOverflow() {
			t.Fatalf("take %d = true after clear", i+2)
		}
	}
	c.Flags().SetOverflow(true)
	if !c.TakeOverflow() {
		t.Error("take after new overflow = false, want true")
	}
}

func Test_flagsIndependent(t *testing.T) {
	var f Flags
	f.SetOverflow(true)
	f.SetReading(true)
	f.SetReading(false)
	if !f.Overflow() {
		t.Error("clearing reading cleared overflow")
	}
	f.SetReading(true)
	f.SetOverflow(false)
	if !f.Reading() {
		t.Error("clearing overflow cleared reading")
	}
}

func Test_readLeavesGuardClear(t *testing.T) {
	c := New(&fakeHW{})
	c.PublishBattery(717)
	if got := c.ReadBattery(); got != 717 {
		t.Errorf("ReadBattery() = %d, want 717", got)
	}
	c.ReadLastFull()
	if c.Flags().Reading() {
		t.Error("reading guard still set after reads")
	}
}

func Test_restart(t *testing.T) {
	hw := &fakeHW{count: 200}
	c := New(hw)
	c.OnCounterOverflow()
	c.OnWindowElapsed()
	c.OnCounterOverflow()
	hw.count = 5
	c.Flags().SetOverflow(true)

	c.Restart()
	if got := c.ReadLastFull(); got != 0 {
		t.Errorf("last full after restart = %d, want 0", got)
	}
	if hw.count != 0 || c.Carries() != [3]uint8{} {
		t.Errorf("counter not zeroed: hw=%d carries=%v", hw.count, c.Carries())
	}
	if !c.Overflowed() {
		t.Error("restart cleared pending overflow")
	}
}

func Test_registerBytes(t *testing.T) {
	var r Register
	r.StoreBytes(0x78, 0x56, 0x34, 0x12)
	if got := r.Load(); got != 0x12345678 {
		t.Errorf("Load() = %#x, want %#x", got, 0x12345678)
	}
	r.Store(0xdeadbeef)
	if got := r.Load(); got != 0xdeadbeef {
		t.Errorf("Load() = %#x, want %#x", got, uint32(0xdeadbeef))
	}
}
