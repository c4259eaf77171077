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
Package reference drives the two known signals the meter can be pointed
at: an Si5351 clock output and a PIO square wave. Both are worked out
ahead of time as a Plan so that the arithmetic can be checked off the
board.
*/
package reference

import (
	"errors"
	"time"

	"freqmeter/src/support"
)

// The PIO clock divider limits the square wave to roughly 2kHz..1MHz at
// the default system clock.
const (
	MinCalHz = 2_000
	MaxCalHz = 1_000_000
)

var (
	ErrRDivider = errors.New("reference: output needs an R divider")
	ErrCalRate  = errors.New("reference: calibration rate out of range")
)

// Plan is the programming of both outputs. A zero frequency leaves the
// corresponding output off.
type Plan struct {
	Clock   support.Si5351Config
	ClockOn bool

	CalHz  uint32
	Period time.Duration
	// Chunk is the number of pulses handed to the PIO per queue slot,
	// one second of output.
	Chunk uint32
}

// NewPlan works out the dividers for refHz from a crystal of xtalHz and
// the square wave period for calHz.
func NewPlan(xtalHz, refHz float64, calHz uint32) (Plan, error) {
	var p Plan
	if refHz > 0 {
		c, err := support.New(xtalHz, 0, refHz)
		if err != nil {
			return Plan{}, err
		}
		if c.R != 1 {
			return Plan{}, ErrRDivider
		}
		p.Clock = c
		p.ClockOn = true
	}
	if calHz > 0 {
		if calHz < MinCalHz || calHz > MaxCalHz {
			return Plan{}, ErrCalRate
		}
		p.CalHz = calHz
		p.Period = time.Second / time.Duration(calHz)
		p.Chunk = calHz
	}
	return p, nil
}

// Expected is the count a window of w should show for an input at hz,
// after the display scale is applied. It is what the meter ought to
// read with the reference jumpered to its input.
func Expected(hz float64, w time.Duration, prescale, scale uint32) uint32 {
	edges := hz * w.Seconds()
	if prescale > 1 {
		edges /= float64(prescale)
	}
	return uint32(edges) * scale
}
