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

package board

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"freqmeter/src/counter"
)

// IRQ stands in for the interrupt controller. Every handler runs with mu
// held, so two handlers never overlap, and enabling or disabling a source
// waits for a running handler to finish.
type IRQ struct {
	mu sync.Mutex
}

// SimCounter is an 8-bit edge counter with an optional /16 prescaler in
// front of it.
type SimCounter struct {
	irq      *IRQ
	count    atomic.Uint32
	prescale atomic.Bool
	residue  uint64 // edges waiting in the prescaler, under irq.mu
	enabled  bool   // wrap interrupt enabled, under irq.mu
	onWrap   func()
}

func (s *SimCounter) Count() uint8 { return uint8(s.count.Load()) }
func (s *SimCounter) Reset()       { s.count.Store(0) }

// AddPulses feeds n input edges through the prescaler into the counter,
// delivering the wrap interrupt each time it passes 255.
func (s *SimCounter) AddPulses(n uint64) {
	s.irq.mu.Lock()
	defer s.irq.mu.Unlock()
	if s.prescale.Load() {
		n += s.residue
		s.residue = n % 16
		n /= 16
	}
	for n > 0 {
		c := uint64(s.count.Load())
		room := 256 - c
		if n < room {
			s.count.Store(uint32(c + n))
			return
		}
		n -= room
		s.count.Store(0)
		if s.enabled && s.onWrap != nil {
			s.onWrap()
		}
	}
}

// SimTimer fires the window interrupt at a fixed period. Like the alarm
// on the board, it restarts its period whenever counting starts.
type SimTimer struct {
	irq     *IRQ
	period  time.Duration
	enabled bool // under irq.mu
	onTick  func()
	rearm   chan struct{}
}

func (t *SimTimer) restart() {
	select {
	case t.rearm <- struct{}{}:
	default:
	}
}

// Fire delivers one window interrupt if it is enabled.
func (t *SimTimer) Fire() {
	t.irq.mu.Lock()
	defer t.irq.mu.Unlock()
	if t.enabled && t.onTick != nil {
		t.onTick()
	}
}

func (t *SimTimer) Run(ctx context.Context) {
	tick := time.NewTicker(t.period)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.rearm:
			t.reset(tick)
		case <-tick.C:
			select {
			case <-t.rearm:
				t.reset(tick)
				continue
			default:
			}
			t.Fire()
		}
	}
}

// reset starts a fresh period and drops any tick from the old one.
func (t *SimTimer) reset(tick *time.Ticker) {
	tick.Reset(t.period)
	select {
	case <-tick.C:
	default:
	}
}

// SimSignal generates edges at a settable rate.
type SimSignal struct {
	hz   atomic.Uint64 // float64 bits
	into *SimCounter
}

func (g *SimSignal) SetHz(hz float64) { g.hz.Store(math.Float64bits(hz)) }
func (g *SimSignal) Hz() float64      { return math.Float64frombits(g.hz.Load()) }

// Run adds edges every step, carrying fractional edges forward so the
// long run rate is exact.
func (g *SimSignal) Run(ctx context.Context, step time.Duration) {
	tick := time.NewTicker(step)
	defer tick.Stop()
	last := time.Now()
	var frac float64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			edges := g.Hz()*now.Sub(last).Seconds() + frac
			last = now
			whole := math.Floor(edges)
			frac = edges - whole
			if whole > 0 {
				g.into.AddPulses(uint64(whole))
			}
		}
	}
}

// SimPin is a GPIO level. Pins with a pull-up start high.
type SimPin struct {
	level atomic.Bool
}

func (p *SimPin) Set(high bool) { p.level.Store(high) }
func (p *SimPin) Get() bool     { return p.level.Load() }

// SimButton is an active-low button on a pulled-up pin.
type SimButton struct {
	SimPin
}

func (b *SimButton) Press()        { b.Set(false) }
func (b *SimButton) Release()      { b.Set(true) }
func (b *SimButton) Pressed() bool { return !b.Get() }

// Sim is a whole simulated board.
type Sim struct {
	cfg   Config
	start time.Time

	IRQ       IRQ
	Counter   SimCounter
	Timer     SimTimer
	Signal    SimSignal
	Button    SimButton
	Prescaler SimPin // low enables the divider
	Indicator SimPin

	battery atomic.Uint32 // 16-bit left aligned sample
	adcOn   atomic.Bool
	bound   *counter.Counter // under IRQ.mu
}

func NewSim(cfg Config) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sim{cfg: cfg, start: time.Now()}
	s.Counter.irq = &s.IRQ
	s.Timer.irq = &s.IRQ
	s.Timer.period = cfg.Window
	s.Timer.rearm = make(chan struct{}, 1)
	s.Signal.into = &s.Counter
	s.Button.Release()
	s.Prescaler.Set(true)
	return s, nil
}

// Bind attaches the two measurement handlers. It must be called once,
// before counting starts.
func (s *Sim) Bind(c *counter.Counter) {
	s.IRQ.mu.Lock()
	defer s.IRQ.mu.Unlock()
	s.Counter.onWrap = c.OnCounterOverflow
	s.Timer.onTick = c.OnWindowElapsed
	s.bound = c
}

// Carries reads the bound counter's extension bytes with interrupts held
// off, the way a debugger would see them.
func (s *Sim) Carries() [3]uint8 {
	s.IRQ.mu.Lock()
	defer s.IRQ.mu.Unlock()
	if s.bound == nil {
		return [3]uint8{}
	}
	return s.bound.Carries()
}

// Run drives the window timer and the signal generator until ctx ends.
func (s *Sim) Run(ctx context.Context) {
	go s.Signal.Run(ctx, time.Millisecond)
	s.Timer.Run(ctx)
}

func (s *Sim) SetPrescaler(enabled bool) {
	s.Prescaler.Set(!enabled)
	s.Counter.prescale.Store(enabled)
}

func (s *Sim) SetIndicator(on bool) { s.Indicator.Set(on) }

func (s *Sim) StartCounting() {
	s.IRQ.mu.Lock()
	defer s.IRQ.mu.Unlock()
	s.Counter.enabled = true
	s.Timer.enabled = true
	s.Timer.restart()
}

func (s *Sim) StopCounting() {
	s.IRQ.mu.Lock()
	defer s.IRQ.mu.Unlock()
	s.Counter.enabled = false
	s.Timer.enabled = false
}

// Counting reports whether both measurement interrupts are enabled.
func (s *Sim) Counting() bool {
	s.IRQ.mu.Lock()
	defer s.IRQ.mu.Unlock()
	return s.Counter.enabled && s.Timer.enabled
}

func (s *Sim) EnableADC() { s.adcOn.Store(true) }

// SetBattery sets the raw sample at the configured ADC resolution.
func (s *Sim) SetBattery(raw uint16) {
	s.battery.Store(uint32(raw) << (16 - s.cfg.ADCBits))
}

// Battery is the raw sample at the configured ADC resolution.
func (s *Sim) Battery() uint16 {
	return scaleADC(uint16(s.battery.Load()), s.cfg.ADCBits)
}

// Read converts the battery input. A disabled ADC reads zero.
func (s *Sim) Read() uint16 {
	if !s.adcOn.Load() {
		return 0
	}
	return s.Battery()
}

// Uptime is the time since NewSim, shown on the simulator status line.
func (s *Sim) Uptime() time.Duration {
	return time.Since(s.start)
}
