//go:build !rp2040 && cgo

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
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	lcdZoom       = 3
	consoleWidth  = 360
	consoleHeight = 160
	batteryStep   = 8
)

var errQuit = errors.New("freqsim: quit")

// runWindow opens a desktop window showing the panel above the log
// console and blocks until it is closed.
//
// Space is the mode button, Up and Down scale the input by ten, Left and
// Right move the battery sample. Escape quits.
func runWindow(ctx context.Context, a *app, logs *framebuffer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	w, h := lcdSize(a.board.Width, a.board.Height)
	g := &simGame{
		ctx:  ctx,
		app:  a,
		lcd:  newFramebuffer(w, h),
		logs: logs,
	}
	ebiten.SetWindowTitle("freqsim")
	ebiten.SetWindowSize(g.Width()*2, g.Height()*2)
	ebiten.SetTPS(30)
	err := ebiten.RunGame(g)
	cancel()
	<-done
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

type simGame struct {
	ctx  context.Context
	app  *app
	lcd  *framebuffer
	logs *framebuffer

	ticks   int
	lcdImg  *ebiten.Image
	logImg  *ebiten.Image
	scratch []byte
}

func (g *simGame) Width() int {
	w, _ := g.lcd.Size()
	return max(int(w)*lcdZoom, consoleWidth)
}

func (g *simGame) Height() int {
	_, h := g.lcd.Size()
	return int(h)*lcdZoom + consoleHeight
}

func (g *simGame) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	button := &g.app.sim.Button
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		button.Press()
	} else if button.Pressed() {
		button.Release()
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.app.scaleSignal(10)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.app.scaleSignal(0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.app.nudgeBattery(-batteryStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.app.nudgeBattery(batteryStep)
	}

	if g.ticks++; g.ticks%ebiten.TPS() == 0 {
		ebiten.SetWindowTitle("freqsim " + g.app.status())
	}
	p := g.app.panel
	renderLCD(g.lcd, p.Lines(), p.Backlight(), p.On())
	return nil
}

func (g *simGame) Draw(screen *ebiten.Image) {
	g.lcdImg = g.blit(g.lcdImg, g.lcd)
	g.logImg = g.blit(g.logImg, g.logs)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(lcdZoom, lcdZoom)
	screen.DrawImage(g.lcdImg, op)

	_, h := g.lcd.Size()
	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(int(h)*lcdZoom))
	screen.DrawImage(g.logImg, op)
}

// blit copies fb into img, allocating img on first use.
func (g *simGame) blit(img *ebiten.Image, fb *framebuffer) *ebiten.Image {
	w, h := fb.Size()
	if img == nil {
		img = ebiten.NewImage(int(w), int(h))
	}
	if n := int(w) * int(h) * 4; len(g.scratch) < n {
		g.scratch = make([]byte, n)
	}
	pix := g.scratch[:int(w)*int(h)*4]
	fb.CopyPix(pix)
	img.WritePixels(pix)
	return img
}

func (g *simGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width(), g.Height()
}
