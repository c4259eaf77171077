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
Package display drives an HD44780 character LCD.

The meter only needs a handful of operations: print text at the cursor,
move the cursor to a DDRAM offset and go back home. Every call is
synchronous and returns once the controller has been told; there is no
feedback beyond that.

LCD talks to the common PCF8574 I²C backpack through hd44780i2c. On the
RP2040 a directly wired 4-bit panel is available as Parallel. Panel is a
host side model of backpack plus controller that decodes the I²C traffic
back into characters, which lets tests and the simulator see what would
be on the glass.
*/
package display

import "errors"

// Service is what the meter needs from a character display.
type Service interface {
	Init() error
	// Print writes text starting at the cursor.
	Print(text []byte)
	// PrintN writes at most n bytes of text.
	PrintN(text []byte, n int)
	// SetCursor moves to a DDRAM offset, 0x00 for the first line and 0x40
	// for the second.
	SetCursor(offset uint8)
	GoHome()
}

var (
	ErrNoDisplay = errors.New("display: no LCD answered on the bus")
	ErrGeometry  = errors.New("display: width and height must be set")
)

var rowBase = [4]uint8{0x00, 0x40, 0x14, 0x54}

// Position maps a DDRAM offset to a column and row for a panel of the given
// size. Offsets that are not on any visible row land on the first row.
func Position(offset, width, height uint8) (x, y uint8) {
	if width == 0 {
		return 0, 0
	}
	for row := uint8(0); row < height && int(row) < len(rowBase); row++ {
		base := rowBase[row]
		if offset >= base && offset < base+width {
			return offset - base, row
		}
	}
	return offset % width, 0
}

func clip(text []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < len(text) {
		return text[:n]
	}
	return text
}
