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
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"freqmeter/src/format"
	"freqmeter/src/mode"
)

func Test_defaults(t *testing.T) {
	cfg, err := loadConfig(nil, t.TempDir())
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	if cfg.SignalHz != 4000 || cfg.InitialMode != "base" || cfg.Format != "adaptive" {
		t.Errorf("loadConfig() = %+v, want defaults", cfg)
	}
	bc, err := cfg.Board()
	if err != nil {
		t.Fatalf("Board() = %v", err)
	}
	if bc.Window != 250*time.Millisecond || bc.Initial != mode.BaseFrequency {
		t.Errorf("Board() = %+v", bc)
	}
}

func Test_sources(t *testing.T) {
	dir := t.TempDir()
	yaml := "signal_hz: 1500000\nformat: fixed\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "freqsim.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FREQSIM_INITIAL_MODE", "extra")

	cfg, err := loadConfig([]string{"--signal_hz=250", "--press_every=3s"}, dir)
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"flag beats file", cfg.SignalHz, 250.0},
		{"file", cfg.Format, "fixed"},
		{"env", cfg.InitialMode, "extra"},
		{"duration flag", cfg.PressEvery, 3 * time.Second},
		{"default", cfg.BatteryRaw, uint16(717)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	bc, err := cfg.Board()
	if err != nil {
		t.Fatalf("Board() = %v", err)
	}
	if bc.Policy != format.Fixed || bc.Initial != mode.ExtraFrequency || bc.LogLevel != slog.LevelDebug {
		t.Errorf("Board() policy %v, mode %v, level %v", bc.Policy, bc.Initial, bc.LogLevel)
	}
}

func Test_boardErrors(t *testing.T) {
	base, err := loadConfig(nil, t.TempDir())
	if err != nil {
		t.Fatalf("loadConfig() = %v", err)
	}
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"mode", func(c *Config) { c.InitialMode = "sideways" }, mode.ErrUnknownMode},
		{"format", func(c *Config) { c.Format = "roman" }, format.ErrUnknownPolicy},
		{"battery", func(c *Config) { c.BatteryRaw = 1024 }, ErrBatteryRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.modify(&cfg)
			if _, err := cfg.Board(); !errors.Is(err, tt.want) {
				t.Errorf("Board() = %v, want %v", err, tt.want)
			}
		})
	}
}

func Test_badFlag(t *testing.T) {
	// the window is fixed by the display scales, so it is not a setting
	for _, arg := range []string{"--no-such-flag", "--window=1s"} {
		if _, err := loadConfig([]string{arg}, t.TempDir()); err == nil {
			t.Errorf("loadConfig(%q) accepted an unknown flag", arg)
		}
	}
}
