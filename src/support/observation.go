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

/*
ReduceObservation combines two reads of a 64-bit value that the hardware
only exposes as a pair of 32-bit halves, read high then low twice in a row.

The RP2040 timer is the motivating case: TIMERAWH and TIMERAWL keep
running while they are being read, so a carry out of the low half can
land between the reads. If both high reads agree, the first pair is
consistent. If they differ, the low half wrapped somewhere in between and
the two low reads tell us on which side the first one fell.

The value must not move by more than about scale/2 during the four reads,
which for a microsecond timer read in well under a microsecond is never a
concern.
*/
func ReduceObservation(scale uint64, th1 uint32, tl1 uint32, th2 uint32, tl2 uint32) uint64 {
	if th1 == th2 {
		// no carry seen, tl1 belongs to th1
		return uint64(th1)*scale + uint64(tl1)
	}
	if tl1 < tl2 {
		// no wrap between tl1 and tl2, so both came after the carry
		return uint64(th2)*scale + uint64(tl1)
	}
	// tl1 was read before the wrap
	return uint64(th1)*scale + uint64(tl1)
}
