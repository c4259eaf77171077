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

import "sync/atomic"

/*
Register is a 32-bit value held as four byte cells. Every cell is written
and read on its own, low byte first, exactly as an 8-bit core would do it.

A copy that is interrupted between two cells can observe a mix of the old
and new values. Nothing here prevents that; the Reading guard only keeps
the sampler from starting a new copy while the main loop holds the guard.
*/
type Register struct {
	cells [4]atomic.Uint32
}

// Store writes the four bytes of v, low to high.
func (r *Register) Store(v uint32) {
	for i := range r.cells {
		r.cells[i].Store(v & 0xff)
		v >>= 8
	}
}

// StoreBytes writes b0..b3 as the low to high bytes.
func (r *Register) StoreBytes(b0, b1, b2, b3 uint8) {
	r.cells[0].Store(uint32(b0))
	r.cells[1].Store(uint32(b1))
	r.cells[2].Store(uint32(b2))
	r.cells[3].Store(uint32(b3))
}

// Load reads the four bytes, low to high.
func (r *Register) Load() uint32 {
	var v uint32
	for i := range r.cells {
		v |= r.cells[i].Load() << (8 * i)
	}
	return v
}
