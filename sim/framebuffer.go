//go:build !rp2040

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

package main

import (
	"image"
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorLit   = color.RGBA{R: 0x9c, G: 0xd2, B: 0x3c, A: 0xff}
	colorUnlit = color.RGBA{R: 0x2a, G: 0x38, B: 0x10, A: 0xff}
	colorInk   = color.RGBA{R: 0x10, G: 0x18, B: 0x08, A: 0xff}
	colorLogBg = color.RGBA{A: 0xff}
)

// Glyph cell for proggy TinySZ8pt7b on the simulated LCD.
const (
	cellW      = 7
	cellH      = 12
	cellOffset = 9
	lcdMargin  = 4
)

// framebuffer is an RGBA drivers.Displayer that the window copies to the
// screen. Drawing and copying may happen on different goroutines.
type framebuffer struct {
	mu     sync.Mutex
	img    *image.RGBA
	scroll int // first image row shown at the top
}

func newFramebuffer(w, h int) *framebuffer {
	return &framebuffer{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (f *framebuffer) Size() (x, y int16) {
	b := f.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (f *framebuffer) SetPixel(x, y int16, c color.RGBA) {
	f.mu.Lock()
	f.img.SetRGBA(int(x), int(y), c)
	f.mu.Unlock()
}

func (f *framebuffer) Display() error { return nil }

func (f *framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := image.Rect(int(x), int(y), int(x+width), int(y+height)).Intersect(f.img.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			f.img.SetRGBA(px, py, c)
		}
	}
	return nil
}

// SetScroll makes line the first row shown. The terminal scrolls by
// moving this start row rather than the pixels.
func (f *framebuffer) SetScroll(line int16) {
	f.mu.Lock()
	f.scroll = int(line)
	f.mu.Unlock()
}

func (f *framebuffer) SetRotation(rotation drivers.Rotation) error { return nil }

// CopyPix copies the pixels as they appear on screen into dst, which must
// be as large as the image.
func (f *framebuffer) CopyPix(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.img.Bounds().Dy()
	stride := f.img.Stride
	if h == 0 {
		return
	}
	top := (f.scroll%h + h) % h
	n := copy(dst, f.img.Pix[top*stride:])
	copy(dst[n:], f.img.Pix[:top*stride])
}

func (f *framebuffer) RGBAAt(x, y int) color.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.img.RGBAAt(x, y)
}

// lcdSize is the framebuffer needed for a width by height character panel.
func lcdSize(width, height uint8) (int, int) {
	return int(width)*cellW + 2*lcdMargin, int(height)*cellH + 2*lcdMargin
}

// renderLCD draws the panel contents. A panel with the backlight off is
// drawn dark, one that is switched off shows no characters.
func renderLCD(fb *framebuffer, lines []string, lit, on bool) {
	w, h := fb.Size()
	bg := colorUnlit
	if lit {
		bg = colorLit
	}
	fb.FillRectangle(0, 0, w, h, bg)
	if !on {
		return
	}
	for row, line := range lines {
		y := int16(lcdMargin + row*cellH + cellOffset)
		for col, ch := range []byte(line) {
			x := int16(lcdMargin + col*cellW)
			tinyfont.DrawChar(fb, &proggy.TinySZ8pt7b, x, y, rune(ch), colorInk)
		}
	}
}
