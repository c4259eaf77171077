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
NearestFraction finds the best approximation c/d ≈ a/b with d <= maxDen.

Returns c, d and the error a/b - c/d as floating point.

This is what lets the reference oscillator hit a calibration frequency
exactly. The Si5351 dividers have the form a + b/c with c below 2^20, and
simply fixing c at 2^20-1 leaves errors of a good fraction of a hertz at
the low end of the meter's range. Choosing b/c as the nearest fraction to
the wanted ratio gets the reference to within millihertz, far below one
count of a 250ms window.
*/
func NearestFraction(a, b, maxDen uint64) (c, d uint64, eps float64) {
	c, d = continuedFraction(a, b, 0, 1, maxDen)
	eps = float64(a)/float64(b) - float64(c)/float64(d)
	return c, d, eps
}

/*
continuedFraction expands a/b as a continued fraction and folds the terms
back into a single ratio c/d.

Each step uses

	cf(a, b) = floor(a/b) + 1 / cf(b, a mod b)

and stops as soon as the next denominator would pass maxDen. The partial
expansions are the best rational approximations for their denominators.
The two extra values e and f carry the previous denominators so the
limit can be checked on the way down; start them at 0 and 1.
*/
func continuedFraction(a, b, e, f, maxDen uint64) (c, d uint64) {
	term := a / b
	denom := f + term*e
	if denom > maxDen {
		return 1, 0
	}
	rem := a - term*b
	if rem == 0 {
		return term, 1
	}
	// a/b = term + 1/(cx/dx) = (term*cx + dx) / cx
	cx, dx := continuedFraction(b, rem, denom, e, maxDen)
	return term*cx + dx, cx
}
