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
Package counter widens an 8-bit hardware pulse counter into a 32-bit count
and hands completed windows to the main loop.

Two interrupt handlers do the work. OnCounterOverflow runs every time the
hardware counter wraps from 255 to 0 and ripples a carry through three
extension bytes. OnWindowElapsed runs on a fixed timer period, copies the
hardware byte and the carries into the Last Full Count register and then
zeroes everything for the next window.

The handlers must never run concurrently with each other. On the RP2040
both interrupts share a priority so the NVIC delivers them one at a time;
on the host the board package funnels every delivery through one mutex.

The main loop only ever sees Last Full Count, and only through
ReadLastFull, which raises the Reading flag for the duration of the copy.
The flag is weak on purpose: it stops the sampler from overwriting the
register but the sampler still resets the counter, the extender keeps
running, and a snapshot that lands between two byte reads produces a
torn value.
*/
package counter

// Hardware is the narrow edge counter. Count is called from interrupt
// context and must not block.
type Hardware interface {
	Count() uint8
	Reset()
}

type Counter struct {
	hw    Hardware
	carry [3]uint8 // touched only by the handlers or with counting stopped
	flags Flags
	last  Register

	battery uint16
}

func New(hw Hardware) *Counter {
	return &Counter{hw: hw}
}

// OnCounterOverflow is the extender. It must stay short and must not block.
func (c *Counter) OnCounterOverflow() {
	c.carry[0]++
	if c.carry[0] != 0 {
		return
	}
	c.carry[1]++
	if c.carry[1] != 0 {
		return
	}
	c.carry[2]++
	if c.carry[2] == 0 {
		c.flags.SetOverflow(true)
	}
}

// OnWindowElapsed is the snapshot sampler.
func (c *Counter) OnWindowElapsed() {
	if !c.flags.Reading() {
		c.last.StoreBytes(c.hw.Count(), c.carry[0], c.carry[1], c.carry[2])
	}
	c.hw.Reset()
	c.carry = [3]uint8{}
}

// ReadLastFull copies the count of the most recently completed window
// under the Reading guard.
func (c *Counter) ReadLastFull() uint32 {
	c.flags.SetReading(true)
	v := c.last.Load()
	c.flags.SetReading(false)
	return v
}

// TakeOverflow reports whether the overflow flag was set and clears it, so
// one overflow is reported exactly once.
func (c *Counter) TakeOverflow() bool {
	return c.flags.update(flagOverflow, false)
}

// Overflowed peeks at the overflow flag without clearing it.
func (c *Counter) Overflowed() bool {
	return c.flags.Overflow()
}

// PublishBattery stores the latest raw ADC sample.
func (c *Counter) PublishBattery(raw uint16) {
	c.battery = raw
}

// ReadBattery copies the latest battery sample under the Reading guard.
func (c *Counter) ReadBattery() uint16 {
	c.flags.SetReading(true)
	v := c.battery
	c.flags.SetReading(false)
	return v
}

// Restart zeroes the hardware counter, the carries and Last Full Count.
// Counting interrupts must be disabled while it runs. The overflow flag is
// left alone so a pending overflow is still reported.
func (c *Counter) Restart() {
	c.hw.Reset()
	c.carry = [3]uint8{}
	c.last.Store(0)
}

// Carries returns the three extension bytes, low first.
func (c *Counter) Carries() [3]uint8 {
	return c.carry
}

// Flags exposes the shared flag bits.
func (c *Counter) Flags() *Flags {
	return &c.flags
}
