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
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// Backpack addresses seen on PCF8574 and PCF8574A boards.
var DefaultAddrs = []uint8{0x27, 0x3F}

// LCD is a Service over an I²C backpack.
type LCD struct {
	dev           hd44780i2c.Device
	addr          uint8
	width, height uint8
}

func NewLCD(bus drivers.I2C, addr, width, height uint8) *LCD {
	return &LCD{
		dev:    hd44780i2c.New(bus, addr),
		addr:   addr,
		width:  width,
		height: height,
	}
}

// Init runs the controller's power-on sequence. It takes a little over a
// second.
func (l *LCD) Init() error {
	if l.width == 0 || l.height == 0 {
		return ErrGeometry
	}
	err := l.dev.Configure(hd44780i2c.Config{
		Width:  l.width,
		Height: l.height,
	})
	if err != nil {
		return fmt.Errorf("display: configure LCD at %#x: %w", l.addr, err)
	}
	return nil
}

func (l *LCD) Print(text []byte) { l.dev.Print(text) }

func (l *LCD) PrintN(text []byte, n int) { l.dev.Print(clip(text, n)) }

func (l *LCD) SetCursor(offset uint8) {
	x, y := Position(offset, l.width, l.height)
	l.dev.SetCursor(x, y)
}

func (l *LCD) GoHome() { l.dev.Home() }

// Probe returns the first address that acknowledges a write. With no
// addresses given it tries DefaultAddrs.
func Probe(bus drivers.I2C, addrs ...uint8) (uint8, error) {
	if len(addrs) == 0 {
		addrs = DefaultAddrs
	}
	for _, a := range addrs {
		if err := bus.Tx(uint16(a), []byte{0}, nil); err == nil {
			return a, nil
		}
	}
	return 0, ErrNoDisplay
}
