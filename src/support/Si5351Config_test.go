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
	"math"
	"testing"
)

var seed = int64(1)

func rand() float64 {
	seed = 25214903917*seed + 11
	return float64(seed&0xffff_ffff_ffff) / float64(1<<48)
}

func Test_accuracy(t *testing.T) {
	frequencies := [][]float64{ // multiple test bands
		{1838000, 1838200},
		{3570000, 3570200},
		{5288600, 5288800},
		{7040000, 7040200},
		{10140100, 10140300},
		{14097000, 14097200},
		{18106000, 18106200},
		{21096000, 21096200},
		{24926000, 24926200},
		{28126000, 28126200},
		{50294400, 50294600},
		{144489900, 144490100},
	}
	for i := 0; i < len(frequencies); i++ {
		for f := frequencies[i][0]; f <= frequencies[i][1]; f += rand() * 0.2 {
			config, err := New(25e6, 0.0, f)
			if err != nil {
				t.Errorf("Error in si5351Config: %s", err)
			}
			if math.Abs(config.Offset())/f > 1e-9 {
				t.Errorf("Big discrepancy: %.4f, %.2f vs %.2f", config.Offset(), config.Actual, f)
			}
		}
	}
}

func Test_referenceOutputs(t *testing.T) {
	// a 250ms window resolves 4Hz in the base range, so the reference
	// has to land well inside a hundredth of a count
	const limit = 0.01 * 4
	for _, f := range []float64{1e6, 2e6, 4e6, 8e6, 10e6, 12e6, 16e6, 20e6, 25e6, 32e6, 50e6} {
		c, err := New(25e6, 0, f)
		if err != nil {
			t.Errorf("New(%.0f) = %v", f, err)
			continue
		}
		if math.Abs(c.Offset()) > limit {
			t.Errorf("New(%.0f) actual = %.4f, off by %.4f Hz", f, c.Actual, c.Offset())
		}
		if c.R != 1 {
			t.Errorf("New(%.0f) R = %d, want 1", f, c.R)
		}
	}
}

func Test_range(t *testing.T) {
	for f := 1.0; f < 2300; f += 50 {
		_, err := New(25e6, 0.0, f)
		if err == nil {
			t.Errorf("Expected error in si5351Config due to low frequency: %.3f", f)
		}
	}
	for f := 2302.0; f < 200e6; f *= 1.2 {
		r, err := New(25e6, 0.0, f)
		if err != nil {
			t.Errorf("Error in si5351Config: %s", err)
		}
		if math.Abs(r.Offset()) > 1e-3 {
			t.Errorf("Error in si5351Config at %.1f: %.3f", f, r.Offset())
		}
	}
}

func Test_dividers(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		r    uint32
	}{
		{"direct", 10e6, 1},
		{"low edge of multisynth", 300e3, 1},
		{"needs R", 100e3, 4},
		{"lowest", 2400, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(25e6, 0, tt.f)
			if err != nil {
				t.Fatalf("New(%.0f) = %v", tt.f, err)
			}
			if c.R != tt.r {
				t.Errorf("R = %d, want %d", c.R, tt.r)
			}
			if c.Multisynth.C == 0 || c.Multisynth.B >= c.Multisynth.C {
				t.Errorf("multisynth = %+v is not a proper fraction", c.Multisynth)
			}
			if c.Multisynth.Ratio() > 2048 {
				t.Errorf("multisynth ratio %.3f above 2048", c.Multisynth.Ratio())
			}
			if math.Abs(c.Offset()) > 1e-3 {
				t.Errorf("offset = %.6f Hz", c.Offset())
			}
		})
	}
}

func Test_errors(t *testing.T) {
	tests := []struct {
		xtal, pll, f float64
		want         error
	}{
		{5e6, 0, 1e6, ErrCrystal},
		{25e6, 0, 250e6, ErrOutputHigh},
		{25e6, 500e6, 1e6, ErrPLL},
		{25e6, 0, 1000, ErrOutputLow},
	}
	for _, tt := range tests {
		if _, err := New(tt.xtal, tt.pll, tt.f); err != tt.want {
			t.Errorf("New(%g, %g, %g) = %v, want %v", tt.xtal, tt.pll, tt.f, err, tt.want)
		}
	}
}
