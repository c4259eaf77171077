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

package board

import (
	"device/rp"
	"errors"
	"fmt"
	"machine"
	"runtime/interrupt"

	"freqmeter/src/counter"
)

/*
The two measurement handlers are bound once, at Bind, to a single
package level counter. Both interrupts sit at the default priority, so
the NVIC never lets one preempt the other.

The PWM slice that owns the pulse pin runs in rising-edge mode with TOP
at 255. Its counter is the hardware byte and its wrap flag fires the
extender. Timer alarm 1 is re-armed from inside its own handler by adding
the window to the previous target, which keeps windows back to back with
no drift from handler latency.
*/
var (
	active     *counter.Counter
	pulseSlice uint8
	windowUS   uint32
	nextAlarm  uint32
)

var ErrBound = errors.New("board: measurement handlers already bound")

// Board is the Pico hardware. It is the counter's Hardware, the mode
// controller's Hardware, the main loop's Button and its ADC.
type Board struct {
	cfg       Config
	slice     *pwmSliceHW
	prescaler machine.Pin
	indicator machine.Pin
	button    machine.Pin
	adc       machine.ADC
	adcOn     bool
}

// Setup configures the pins and the counting slice. Interrupts stay off
// until Bind and StartCounting.
func Setup(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		cfg:       cfg,
		prescaler: machine.Pin(cfg.Pins.Prescaler),
		indicator: machine.Pin(cfg.Pins.Indicator),
		button:    machine.Pin(cfg.Pins.Button),
	}

	b.prescaler.Configure(machine.PinConfig{Mode: machine.PinOutput})
	b.prescaler.High()
	b.indicator.Configure(machine.PinConfig{Mode: machine.PinOutput})
	b.indicator.Low()
	b.button.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	pulseSlice = pwmSliceOf(cfg.Pins.Pulse)
	windowUS = uint32(cfg.Window.Microseconds())
	b.slice = pwmSlice(pulseSlice)
	setupEdgeCounter(b.slice, machine.Pin(cfg.Pins.Pulse))
	return b, nil
}

func setupEdgeCounter(s *pwmSliceHW, pin machine.Pin) {
	s.CSR.Set(0)
	pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	s.DIV.Set(1 << pwmDIV_INT_Pos)
	s.TOP.Set(255)
	s.CTR.Set(0)
	s.CSR.Set(pwmCSR_DIVMODE_RISE | pwmCSR_EN)
}

// Bind statically attaches c to the wrap and alarm interrupts.
func (b *Board) Bind(c *counter.Counter) error {
	if active != nil {
		return ErrBound
	}
	active = c
	interrupt.New(rp.IRQ_PWM_IRQ_WRAP, onPulseWrap).Enable()
	interrupt.New(rp.IRQ_TIMER_IRQ_1, onWindowAlarm).Enable()
	return nil
}

func onPulseWrap(interrupt.Interrupt) {
	rp.PWM.INTR.Set(1 << pulseSlice)
	active.OnCounterOverflow()
}

func onWindowAlarm(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(1 << alarmIndex)
	nextAlarm += windowUS
	// a missed target would otherwise wait for the low word to come round
	if int32(nextAlarm-rp.TIMER.TIMERAWL.Get()) <= 0 {
		nextAlarm = rp.TIMER.TIMERAWL.Get() + windowUS
	}
	rp.TIMER.ALARM1.Set(nextAlarm)
	active.OnWindowElapsed()
}

// Count is the hardware byte of the extended count.
func (b *Board) Count() uint8 { return uint8(b.slice.CTR.Get()) }

func (b *Board) Reset() { b.slice.CTR.Set(0) }

// SetPrescaler drives the active-low divider enable.
func (b *Board) SetPrescaler(enabled bool) { b.prescaler.Set(!enabled) }

func (b *Board) SetIndicator(on bool) { b.indicator.Set(on) }

func (b *Board) StartCounting() {
	rp.PWM.INTR.Set(1 << pulseSlice)
	rp.TIMER.INTR.Set(1 << alarmIndex)
	nextAlarm = rp.TIMER.TIMERAWL.Get() + windowUS
	rp.TIMER.ALARM1.Set(nextAlarm)
	rp.PWM.INTE.SetBits(1 << pulseSlice)
	rp.TIMER.INTE.SetBits(1 << alarmIndex)
}

func (b *Board) StopCounting() {
	rp.PWM.INTE.ClearBits(1 << pulseSlice)
	rp.TIMER.INTE.ClearBits(1 << alarmIndex)
	rp.TIMER.ARMED.Set(1 << alarmIndex)
	rp.PWM.INTR.Set(1 << pulseSlice)
	rp.TIMER.INTR.Set(1 << alarmIndex)
}

func (b *Board) EnableADC() {
	if b.adcOn {
		return
	}
	machine.InitADC()
	b.adc = machine.ADC{Pin: machine.Pin(b.cfg.Pins.Battery)}
	b.adc.Configure(machine.ADCConfig{})
	b.adcOn = true
}

// Read starts a conversion and waits for it. The result is reduced to
// the configured resolution.
func (b *Board) Read() uint16 {
	if !b.adcOn {
		return 0
	}
	return scaleADC(b.adc.Get(), b.cfg.ADCBits)
}

func (b *Board) Pressed() bool { return !b.button.Get() }

// ConfigureI2C brings up I²C0 for the LCD backpack and the Si5351.
func (b *Board) ConfigureI2C() (*machine.I2C, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.Pin(b.cfg.Pins.SDA),
		SCL:       machine.Pin(b.cfg.Pins.SCL),
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return nil, fmt.Errorf("board: configure I2C0: %w", err)
	}
	return machine.I2C0, nil
}

// Status is a one word summary of the counting interrupts for logging.
func (b *Board) Status() uint32 {
	return boolToBit(rp.PWM.INTE.Get()&(1<<pulseSlice) != 0) |
		boolToBit(rp.TIMER.INTE.Get()&(1<<alarmIndex) != 0)<<1
}
