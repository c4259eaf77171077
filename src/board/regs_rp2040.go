//go:build rp2040

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

package board

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"
)

// pwmSliceHW overlays the five registers of one PWM slice. The machine
// package keeps its own copy private and has no edge counting mode.
type pwmSliceHW struct {
	CSR volatile.Register32
	DIV volatile.Register32
	CTR volatile.Register32
	CC  volatile.Register32
	TOP volatile.Register32
}

const (
	pwmCSR_EN           = 1 << 0
	pwmCSR_DIVMODE_RISE = 2 << 4
	pwmDIV_INT_Pos      = 4

	// alarm 0 belongs to the runtime's sleep
	alarmIndex = 1
)

func pwmSlice(n uint8) *pwmSliceHW {
	slices := (*[8]pwmSliceHW)(unsafe.Pointer(rp.PWM))
	return &slices[n&7]
}

// pwmSliceOf returns the slice a GPIO is routed to.
func pwmSliceOf(p Pin) uint8 {
	return uint8(p>>1) & 7
}

//go:inline
func boolToBit(a bool) uint32 {
	if a {
		return 1
	}
	return 0
}
