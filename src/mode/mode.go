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
	"errors"
	"strconv"
)

// Mode is one of the three measurement modes. The button cycles through
// them in declaration order.
type Mode uint8

const (
	BaseFrequency Mode = iota
	ExtraFrequency
	BatteryVoltage

	// Count is the number of modes in the cycle.
	Count = 3
)

var ErrUnknownMode = errors.New("mode: unknown mode")

// Next returns the mode the button advances to.
func (m Mode) Next() Mode {
	return (m + 1) % Count
}

// IsFrequency reports whether the mode counts pulses.
func (m Mode) IsFrequency() bool {
	return m == BaseFrequency || m == ExtraFrequency
}

/*
Scale converts one window count into Hz. The window is 250ms, so the
direct input needs a factor of 4; the prescaled input divides by 16 before
it reaches the counter, giving 64. Battery mode has no scale.
*/
func (m Mode) Scale() uint32 {
	switch m {
	case BaseFrequency:
		return 4
	case ExtraFrequency:
		return 64
	default:
		return 0
	}
}

func (m Mode) String() string {
	switch m {
	case BaseFrequency:
		return "base"
	case ExtraFrequency:
		return "extra"
	case BatteryVoltage:
		return "battery"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

func Parse(s string) (Mode, error) {
	for m := Mode(0); m < Count; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, ErrUnknownMode
}
