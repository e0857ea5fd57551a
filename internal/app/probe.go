// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"

	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/sensors"
)

// idReader reads the identity register of a configured sensor.
type idReader func(sc config.SensorConfig) (byte, error)

// RunProbe reads WHO_AM_I from every configured sensor and reports whether
// the answer matches the configured part. It fails when any sensor does not.
func RunProbe(w io.Writer) error {
	return probe(w, config.Get().Sensors, sensors.ReadID)
}

func probe(w io.Writer, cfgs []config.SensorConfig, read idReader) error {
	failed := 0
	for _, sc := range cfgs {
		fmt.Fprintf(w, "%-12s %-10s %-6s %-14s ", sc.Name, sc.Part, sc.Bus, sc.Device)
		id, err := read(sc)
		if err != nil {
			fmt.Fprintf(w, "ERROR %v\n", err)
			failed++
			continue
		}
		want, err := sensors.LookupPart(sc.Part)
		switch {
		case err != nil:
			fmt.Fprintf(w, "0x%02X  %v\n", id, err)
			failed++
		case id == want.WhoAmI:
			fmt.Fprintf(w, "0x%02X  ok\n", id)
		default:
			failed++
			if p, ok := sensors.Identify(id); ok {
				fmt.Fprintf(w, "0x%02X  MISMATCH (looks like %s)\n", id, p.Name)
			} else {
				fmt.Fprintf(w, "0x%02X  MISMATCH (want 0x%02X)\n", id, want.WhoAmI)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sensors failed the probe", failed, len(cfgs))
	}
	return nil
}
