//go:build !rp2040 && !cgo

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
)

const (
	consoleWidth  = 360
	consoleHeight = 160
)

var errNoWindow = errors.New("freqsim: built without cgo, use --headless")

func runWindow(ctx context.Context, a *app, logs *framebuffer) error {
	return errNoWindow
}
