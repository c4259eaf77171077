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
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"freqmeter/src/board"
	"freqmeter/src/format"
	"freqmeter/src/mode"
)

var ErrBatteryRange = errors.New("freqsim: battery sample out of ADC range")

// Config is everything the simulator can be told. Values come from
// flags, then FREQSIM_* variables, then freqsim.yaml, then defaults.
type Config struct {
	SignalHz     float64       `mapstructure:"signal_hz"`
	Headless     bool          `mapstructure:"headless"`
	Duration     time.Duration `mapstructure:"duration"`
	PressEvery   time.Duration `mapstructure:"press_every"`
	InitialMode  string        `mapstructure:"initial_mode"`
	Format       string        `mapstructure:"format"`
	BatteryRaw   uint16        `mapstructure:"battery_raw"`
	LogLevel     string        `mapstructure:"log_level"`
	UseReference bool          `mapstructure:"use_reference"`
	ReferenceHz  float64       `mapstructure:"reference_hz"`
	BannerHold   time.Duration `mapstructure:"banner_hold"`
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("freqsim", pflag.ContinueOnError)
	fs.Float64("signal_hz", 4000, "input signal frequency in Hz")
	fs.Bool("headless", false, "print display changes instead of opening a window")
	fs.Duration("duration", 0, "stop after this long, 0 runs until interrupted")
	fs.Duration("press_every", 0, "press the mode button this often")
	fs.String("initial_mode", mode.BaseFrequency.String(), "base, extra or battery")
	fs.String("format", format.Adaptive.String(), "adaptive or fixed")
	fs.Uint16("battery_raw", 717, "10-bit battery ADC sample")
	fs.String("log_level", "info", "debug, info, warn or error")
	fs.Bool("use_reference", false, "feed the input from the planned Si5351 output")
	fs.Float64("reference_hz", 1e6, "Si5351 reference frequency")
	fs.Duration("banner_hold", time.Second, "how long mode banners stay up")
	fs.String("config", "", "config file, default ./freqsim.yaml if present")
	return fs
}

// loadConfig parses args and merges them with the environment and any
// config file found in paths.
func loadConfig(args []string, paths ...string) (Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}
	v.SetEnvPrefix("FREQSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file, _ := fs.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("freqsim")
		v.SetConfigType("yaml")
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("freqsim: reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("freqsim: decoding config: %w", err)
	}
	return cfg, nil
}

// Board turns the simulator settings into a board configuration.
func (c Config) Board() (board.Config, error) {
	bc := board.DefaultConfig()
	m, err := mode.Parse(c.InitialMode)
	if err != nil {
		return bc, fmt.Errorf("freqsim: initial mode %q: %w", c.InitialMode, err)
	}
	p, err := format.ParsePolicy(c.Format)
	if err != nil {
		return bc, fmt.Errorf("freqsim: format %q: %w", c.Format, err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return bc, fmt.Errorf("freqsim: log level: %w", err)
	}
	if c.BatteryRaw >= 1<<bc.ADCBits {
		return bc, ErrBatteryRange
	}

	bc.Initial = m
	bc.Policy = p
	bc.LogLevel = level
	bc.ReferenceHz = c.ReferenceHz
	bc.BannerHold = c.BannerHold
	return bc, bc.Validate()
}
