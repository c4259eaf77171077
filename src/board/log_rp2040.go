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
	"fmt"
	"log/slog"
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

// Logger opens UART1 on the log pins and returns a logger writing to it.
// USB serial is left free for the bootloader console.
func (b *Board) Logger() (*slog.Logger, error) {
	err := uartx.UART1.Configure(uartx.UARTConfig{
		BaudRate: b.cfg.LogBaud,
		TX:       machine.Pin(b.cfg.Pins.LogTX),
		RX:       machine.Pin(b.cfg.Pins.LogRX),
	})
	if err != nil {
		return nil, fmt.Errorf("board: log UART: %w", err)
	}
	return NewLogger(uartx.UART1, b.cfg.LogLevel), nil
}
