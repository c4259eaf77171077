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

package display

import (
	"errors"
	"sync"
)

// PCF8574 port bits as wired on the usual backpack.
const (
	pinRS        = 0x01
	pinEN        = 0x04
	pinBacklight = 0x08
)

var ErrNack = errors.New("display: address not acknowledged")

/*
Panel models a PCF8574 backpack driving an HD44780 controller. It
implements drivers.I2C, so the real driver can talk to it.

The controller powers up in 8-bit mode, where every enable pulse latches
one command from the upper nibble. A function set with the data length bit
clear switches it to 4-bit mode, after which each byte arrives as two
pulses, high nibble first. Only the parts of the instruction set that the
driver uses are modelled: clear, home, entry mode, display control,
function set, CGRAM and DDRAM addressing and data writes.
*/
type Panel struct {
	mu sync.Mutex

	addr          uint16
	width, height uint8

	port      byte // last byte written to the expander
	fourBit   bool
	half      bool // a high nibble is waiting for its partner
	pending   byte
	pendingRS bool

	ddram     [0x80]byte
	cgram     [0x40]byte
	ac        uint8 // address counter
	inCGRAM   bool
	on        bool
	backlight bool
	writes    int
}

func NewPanel(addr uint8, width, height uint8) *Panel {
	p := &Panel{addr: uint16(addr), width: width, height: height}
	for i := range p.ddram {
		p.ddram[i] = ' '
	}
	return p
}

// Tx accepts writes to the panel's address and rejects everything else.
func (p *Panel) Tx(addr uint16, w, r []byte) error {
	if addr != p.addr {
		return ErrNack
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range w {
		p.expander(b)
	}
	for i := range r {
		r[i] = p.port
	}
	return nil
}

// expander latches on the falling edge of EN.
func (p *Panel) expander(b byte) {
	prev := p.port
	p.port = b
	p.backlight = b&pinBacklight != 0
	if prev&pinEN != 0 && b&pinEN == 0 {
		p.latch(prev>>4, prev&pinRS != 0)
	}
}

func (p *Panel) latch(nibble byte, rs bool) {
	if !p.fourBit {
		p.execute(nibble<<4, rs)
		return
	}
	if !p.half {
		p.pending = nibble << 4
		p.pendingRS = rs
		p.half = true
		return
	}
	p.half = false
	p.execute(p.pending|nibble, p.pendingRS)
}

func (p *Panel) execute(v byte, rs bool) {
	p.writes++
	if rs {
		p.data(v)
		return
	}
	switch {
	case v&0x80 != 0:
		p.ac = v & 0x7f
		p.inCGRAM = false
	case v&0x40 != 0:
		p.ac = v & 0x3f
		p.inCGRAM = true
	case v&0x20 != 0:
		p.fourBit = v&0x10 == 0
		p.half = false
	case v&0x10 != 0:
		// cursor or display shift, not used
	case v&0x08 != 0:
		p.on = v&0x04 != 0
	case v&0x04 != 0:
		// entry mode; the driver always asks for increment without shift
	case v&0x02 != 0:
		p.ac = 0
		p.inCGRAM = false
	case v&0x01 != 0:
		for i := range p.ddram {
			p.ddram[i] = ' '
		}
		p.ac = 0
		p.inCGRAM = false
	}
}

func (p *Panel) data(v byte) {
	if p.inCGRAM {
		p.cgram[p.ac&0x3f] = v
		p.ac = (p.ac + 1) & 0x3f
		return
	}
	p.ddram[p.ac&0x7f] = v
	p.ac = nextDDRAM(p.ac, p.height)
}

// nextDDRAM advances the address counter the way a two line controller
// does: the first line ends at 0x27 and the second at 0x67.
func nextDDRAM(ac, height uint8) uint8 {
	if height <= 1 {
		if ac >= 0x4f {
			return 0
		}
		return ac + 1
	}
	switch ac {
	case 0x27:
		return 0x40
	case 0x67:
		return 0x00
	}
	return ac + 1
}

// Line returns the visible characters of a row.
func (p *Panel) Line(row int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if row < 0 || row >= int(p.height) || row >= len(rowBase) {
		return ""
	}
	base := int(rowBase[row])
	return string(p.ddram[base : base+int(p.width)])
}

// Lines returns every visible row.
func (p *Panel) Lines() []string {
	lines := make([]string, p.height)
	for i := range lines {
		lines[i] = p.Line(i)
	}
	return lines
}

// Cursor returns the DDRAM address counter.
func (p *Panel) Cursor() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ac
}

// On reports whether the display has been switched on.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Backlight reports the backlight bit of the last expander write.
func (p *Panel) Backlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlight
}

// Size returns the geometry in characters.
func (p *Panel) Size() (width, height uint8) {
	return p.width, p.height
}
