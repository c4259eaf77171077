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

// Package format turns window counts and ADC samples into display text.
// Everything appends into a caller supplied buffer so the main loop can
// reuse one allocation forever.
package format

import (
	"errors"
	"strconv"
)

// Overflow is shown in place of a number when the count wrapped.
const Overflow = "overflow"

// Policy selects how frequencies are rendered.
type Policy uint8

const (
	// Adaptive switches between MHz, kHz and Hz.
	Adaptive Policy = iota
	// Fixed always shows a six wide Hz value.
	Fixed
)

var ErrUnknownPolicy = errors.New("format: unknown policy")

func (p Policy) String() string {
	switch p {
	case Adaptive:
		return "adaptive"
	case Fixed:
		return "fixed"
	default:
		return "Policy(" + strconv.Itoa(int(p)) + ")"
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "adaptive":
		return Adaptive, nil
	case "fixed":
		return Fixed, nil
	}
	return 0, ErrUnknownPolicy
}

// Frequency scales a raw window count to Hz.
func Frequency(count, scale uint32) uint32 {
	return count * scale
}

/*
AppendFrequency appends hz rendered under policy p.

The adaptive form uses MHz with four fractional digits above 999 000 Hz
and kHz with three fractional digits above 99 000 Hz. Fractions are
truncated, never rounded, so 1 999 999 Hz shows as 1.9999MHz.
*/
func AppendFrequency(dst []byte, hz uint32, p Policy) []byte {
	if p == Adaptive {
		switch {
		case hz > 999_000:
			dst = strconv.AppendUint(dst, uint64(hz/1_000_000), 10)
			dst = append(dst, '.')
			dst = appendDigits(dst, hz/100%10_000, 4, '0')
			return append(dst, "MHz"...)
		case hz > 99_000:
			dst = strconv.AppendUint(dst, uint64(hz/1_000), 10)
			dst = append(dst, '.')
			dst = appendDigits(dst, hz%1_000, 3, '0')
			return append(dst, "kHz"...)
		}
	}
	dst = appendDigits(dst, hz, 6, ' ')
	return append(dst, "Hz"...)
}

// Calibration converts a raw ADC sample to tenths of a volt.
type Calibration struct {
	Num, Den uint32
}

// Tenths is raw*Num/Den with integer truncation.
func (c Calibration) Tenths(raw uint16) uint32 {
	if c.Den == 0 {
		return 0
	}
	return uint32(raw) * c.Num / c.Den
}

// AppendBattery appends "BAT d.dV" for a reading in tenths of a volt.
func AppendBattery(dst []byte, tenths uint32) []byte {
	dst = append(dst, "BAT "...)
	dst = strconv.AppendUint(dst, uint64(tenths/10), 10)
	dst = append(dst, '.')
	dst = strconv.AppendUint(dst, uint64(tenths%10), 10)
	return append(dst, 'V')
}

// Pad extends dst with spaces to width so a shorter value overwrites
// whatever was left on the display by a longer one.
func Pad(dst []byte, width int) []byte {
	for len(dst) < width {
		dst = append(dst, ' ')
	}
	return dst
}

// appendDigits appends v right aligned in width characters using fill.
// Wider values are written in full.
func appendDigits(dst []byte, v uint32, width int, fill byte) []byte {
	var tmp [10]byte
	digits := strconv.AppendUint(tmp[:0], uint64(v), 10)
	for i := len(digits); i < width; i++ {
		dst = append(dst, fill)
	}
	return append(dst, digits...)
}
