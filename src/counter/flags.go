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

const (
	flagReading uint32 = 1 << iota
	flagOverflow
)

// Flags is the pair of single-bit signals shared between the interrupt
// handlers and the main loop. Each bit is updated independently; there is
// no ordering between them.
type Flags struct {
	bits atomic.Uint32
}

// Reading reports whether the main loop is in the middle of a guarded copy.
func (f *Flags) Reading() bool { return f.bits.Load()&flagReading != 0 }

func (f *Flags) SetReading(on bool) { f.update(flagReading, on) }

// Overflow reports whether the extended count wrapped during this window.
func (f *Flags) Overflow() bool { return f.bits.Load()&flagOverflow != 0 }

func (f *Flags) SetOverflow(on bool) { f.update(flagOverflow, on) }

// update sets or clears the bits in mask and returns the previous state of
// those bits. There is no atomic or-into on 32-bit words in this Go version,
// so this spins on compare-and-swap.
func (f *Flags) update(mask uint32, on bool) (was bool) {
	for {
		old := f.bits.Load()
		next := old &^ mask
		if on {
			next |= mask
		}
		if f.bits.CompareAndSwap(old, next) {
			return old&mask != 0
		}
	}
}
