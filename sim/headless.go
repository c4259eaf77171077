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
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const pollEvery = 50 * time.Millisecond

// runHeadless runs the meter and writes a line to out every time the
// panel changes, followed by the board status. The mode button is pressed
// every cfg.PressEvery.
func runHeadless(ctx context.Context, a *app, out io.Writer) error {
	if a.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Duration)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()
	if a.cfg.PressEvery > 0 {
		go pressEvery(ctx, a, a.cfg.PressEvery)
	}

	tick := time.NewTicker(pollEvery)
	defer tick.Stop()
	var last string
	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case err := <-done:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case <-tick.C:
			shown := strings.Join(a.panel.Lines(), "|")
			if shown == last {
				continue
			}
			last = shown
			fmt.Fprintf(out, "|%s| %s\n", shown, a.status())
		}
	}
}

// pressEvery taps the mode button periodically, holding it long enough
// for the main loop to see it.
func pressEvery(ctx context.Context, a *app, every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			a.sim.Button.Press()
			time.Sleep(pollEvery)
			a.sim.Button.Release()
		}
	}
}
