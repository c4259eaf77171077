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

package reference

import (
	"fmt"
	"log/slog"
	"machine"

	"github.com/chiefMarlin/tinygo-drivers/si5351"
	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

// Outputs are the running reference signals.
type Outputs struct {
	plan   Plan
	pulsar *piolib.Pulsar
	log    *slog.Logger
}

// Start programs the Si5351 on bus and starts the square wave on calPin,
// each only if the plan asks for it.
func Start(plan Plan, bus *machine.I2C, calPin machine.Pin, log *slog.Logger) (*Outputs, error) {
	o := &Outputs{plan: plan, log: log}
	if plan.ClockOn {
		if err := startClock(plan, bus); err != nil {
			return nil, err
		}
		log.Info("reference:clock",
			slog.Float64("target", plan.Clock.Target),
			slog.Float64("actual", plan.Clock.Actual),
			slog.Float64("pll", plan.Clock.PLLHz))
	}
	if plan.CalHz > 0 {
		sm, err := pio.PIO0.ClaimStateMachine()
		if err != nil {
			return nil, fmt.Errorf("reference: claim state machine: %w", err)
		}
		o.pulsar, err = piolib.NewPulsar(sm, calPin)
		if err != nil {
			return nil, fmt.Errorf("reference: pulsar: %w", err)
		}
		if err = o.pulsar.SetPeriod(plan.Period); err != nil {
			return nil, fmt.Errorf("reference: pulsar period: %w", err)
		}
		o.Service()
		log.Info("reference:cal", slog.Uint64("hz", uint64(plan.CalHz)))
	}
	return o, nil
}

func startClock(plan Plan, bus *machine.I2C) error {
	clockgen := si5351.New(bus)
	connected, err := clockgen.Connected()
	if err != nil {
		return fmt.Errorf("reference: si5351 status: %w", err)
	}
	if !connected {
		return fmt.Errorf("reference: si5351 not found")
	}
	if err = clockgen.Configure(); err != nil {
		return fmt.Errorf("reference: si5351 configure: %w", err)
	}

	fb := plan.Clock.Feedback
	if err = clockgen.ConfigurePLL(si5351.PLL_A, uint8(fb.A), fb.B, fb.C); err != nil {
		return fmt.Errorf("reference: si5351 PLL: %w", err)
	}
	ms := plan.Clock.Multisynth
	if err = clockgen.ConfigureMultisynth(0, si5351.PLL_A, ms.A, ms.B, ms.C); err != nil {
		return fmt.Errorf("reference: si5351 multisynth: %w", err)
	}
	if err = clockgen.EnableOutputs(); err != nil {
		return fmt.Errorf("reference: si5351 outputs: %w", err)
	}
	return nil
}

// Service tops up the square wave queue. Each slot is one second of
// output.
func (o *Outputs) Service() {
	if o == nil || o.pulsar == nil {
		return
	}
	for !o.pulsar.IsQueueFull() {
		if err := o.pulsar.TryQueue(o.plan.Chunk); err != nil {
			return
		}
	}
}
