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

package display

import (
	"fmt"
	"machine"

	"tinygo.org/x/drivers/hd44780"
)

// ParallelPins is a 4-bit HD44780 wiring with RW tied to ground.
type ParallelPins struct {
	D4, D5, D6, D7 machine.Pin
	E, RS          machine.Pin
}

// Parallel is a Service over a directly wired panel.
type Parallel struct {
	pins          ParallelPins
	dev           hd44780.Device
	width, height uint8
}

func NewParallel(pins ParallelPins, width, height uint8) *Parallel {
	return &Parallel{pins: pins, width: width, height: height}
}

func (p *Parallel) Init() error {
	if p.width == 0 || p.height == 0 {
		return ErrGeometry
	}
	dev, err := hd44780.NewGPIO4Bit(
		[]machine.Pin{p.pins.D4, p.pins.D5, p.pins.D6, p.pins.D7},
		p.pins.E, p.pins.RS, machine.NoPin)
	if err != nil {
		return fmt.Errorf("display: parallel LCD: %w", err)
	}
	err = dev.Configure(hd44780.Config{
		Width:  int16(p.width),
		Height: int16(p.height),
	})
	if err != nil {
		return fmt.Errorf("display: configure parallel LCD: %w", err)
	}
	p.dev = dev
	return nil
}

// Print buffers text and pushes it out from the current cursor.
func (p *Parallel) Print(text []byte) {
	p.dev.Write(text)
	p.dev.Display()
}

func (p *Parallel) PrintN(text []byte, n int) { p.Print(clip(text, n)) }

func (p *Parallel) SetCursor(offset uint8) {
	x, y := Position(offset, p.width, p.height)
	p.dev.SetCursor(x, y)
}

func (p *Parallel) GoHome() { p.dev.SetCursor(0, 0) }
