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
	"bytes"
	"sync"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// console shows the log under the simulated panel. It is an io.Writer so
// the slog handler can write straight to it.
type console struct {
	mu   sync.Mutex
	fb   *framebuffer
	term *tinyterm.Terminal
	buf  []byte
}

func newConsole(fb *framebuffer) *console {
	w, h := fb.Size()
	fb.FillRectangle(0, 0, w, h, colorLogBg)
	t := tinyterm.NewTerminal(fb)
	t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 10,
		FontOffset: 6,
	})
	return &console{fb: fb, term: t}
}

// Write puts p on the terminal. Bare line feeds become CR LF.
func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(p)
	c.buf = c.buf[:0]
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			c.buf = append(c.buf, p...)
			break
		}
		c.buf = append(c.buf, p[:i]...)
		c.buf = append(c.buf, '\r', '\n')
		p = p[i+1:]
	}
	if _, err := c.term.Write(c.buf); err != nil {
		return 0, err
	}
	if err := c.fb.Display(); err != nil {
		return 0, err
	}
	return n, nil
}
