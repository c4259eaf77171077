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

package support

import (
	"errors"
	"math"
)

var (
	ErrCrystal    = errors.New("si5351: crystal frequency out of range")
	ErrOutputHigh = errors.New("si5351: output frequency above 200MHz")
	ErrOutputLow  = errors.New("si5351: output frequency below divider range")
	ErrPLL        = errors.New("si5351: PLL frequency out of range")
	ErrFeedback   = errors.New("si5351: feedback ratio out of range")
	ErrMultisynth = errors.New("si5351: multisynth ratio too small")
)

// Divider is the fractional ratio A + B/C used by both Si5351 divider
// stages.
type Divider struct {
	A, B, C uint32
}

func (d Divider) Ratio() float64 {
	return float64(d.A) + float64(d.B)/float64(d.C)
}

// Si5351Config is a plan for one Si5351 output: crystal, PLL feedback
// divider, output multisynth and final power-of-two R divider.
type Si5351Config struct {
	Xtal       float64 // crystal frequency, Hz
	PLLHz      float64
	Feedback   Divider
	Multisynth Divider
	R          uint32
	Target     float64
	Actual     float64
}

/*
New plans the dividers for an output of f Hz from a crystal of xtal Hz
(normally 25 or 27MHz) through a PLL at pll Hz. Valid PLL frequencies
are 600..900MHz; a pll of zero lets New pick one.

The result satisfies Actual = Xtal * Feedback / (Multisynth * R) with
Actual as close to f as the 20-bit fraction denominators allow. The
meter uses it to put a known reference on its own input.
*/
func New(xtal, pll, f float64) (Si5351Config, error) {
	if xtal < 10e6 || xtal > 27e6 {
		return Si5351Config{}, ErrCrystal
	}
	if f > 200e6 {
		return Si5351Config{}, ErrOutputHigh
	}

	switch {
	case f > 150e6:
		pll = 4 * f
	case f >= 100e6:
		pll = 6 * f
	case pll == 0:
		if f < 5e6 {
			pll = 600e6
		} else {
			pll = 800e6
		}
	case pll < 600e6 || pll > 900e6:
		return Si5351Config{}, ErrPLL
	}

	z := pll / xtal
	if z < 15 || z > 90 {
		return Si5351Config{}, ErrFeedback
	}
	c := Si5351Config{Xtal: xtal, PLLHz: pll, Target: f}
	c.Feedback = fraction(z, 1)

	// integer ratios of 4 and 6 are the only ones allowed below 8
	z = xtal * c.Feedback.Ratio() / f
	if !near(z, 4, 1e-9) && !near(z, 6, 1e-9) && z < 8 {
		return Si5351Config{}, ErrMultisynth
	}
	c.R = 1
	for z/float64(c.R) > 2048 && c.R <= 128 {
		c.R *= 2
	}
	if c.R > 128 {
		return Si5351Config{}, ErrOutputLow
	}
	c.Multisynth = fraction(z, c.R)
	c.Actual = xtal * c.Feedback.Ratio() / c.Multisynth.Ratio() / float64(c.R)
	return c, nil
}

// Offset is the target minus the achieved frequency, in Hz.
func (c Si5351Config) Offset() float64 {
	return c.Target - c.Actual
}

// fraction expresses z/r as A + B/C with C below 2^20.
func fraction(z float64, r uint32) Divider {
	num, den, _ := NearestFraction(uint64(z*1e12/float64(r)), 1_000_000_000_000, 1<<20)
	return Divider{
		A: uint32(num / den),
		B: uint32(num % den),
		C: uint32(den),
	}
}

func near(a float64, b float64, eps float64) bool {
	return math.Abs(a-b) <= eps
}
