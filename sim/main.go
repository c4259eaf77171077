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

/*
Command freqsim runs the meter firmware on the desktop against a
simulated board: a synthetic pulse source, a 250ms window timer and an
emulated I²C character LCD. It either opens a window showing the panel
and the log, or prints every panel change to stdout.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"freqmeter/src/board"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args, ".")
	if err != nil {
		return err
	}
	bc, err := cfg.Board()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sink io.Writer = os.Stderr
	var logs *framebuffer
	if !cfg.Headless {
		logs = newFramebuffer(consoleWidth, consoleHeight)
		sink = io.MultiWriter(os.Stderr, newConsole(logs))
	}
	logger := board.NewLogger(sink, bc.LogLevel)

	a, err := newApp(cfg, bc, logger)
	if err != nil {
		return err
	}
	if cfg.Headless {
		return runHeadless(ctx, a, os.Stdout)
	}
	return runWindow(ctx, a, logs)
}
