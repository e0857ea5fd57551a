// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/bmxx80"

	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/env"
)

// Env is the BME280/BMP280 companion sensor.
type Env struct {
	dev    *bmxx80.Dev
	closer io.Closer
}

// OpenEnv brings up the environmental sensor described by ec.
func OpenEnv(ec config.EnvConfig) (*Env, error) {
	if err := initHost(); err != nil {
		return nil, err
	}
	switch ec.Bus {
	case "spi":
		p, err := spireg.Open(ec.Device)
		if err != nil {
			return nil, fmt.Errorf("env: SPI open: %w", err)
		}
		d, err := bmxx80.NewSPI(p, &bmxx80.DefaultOpts)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("env: init: %w", err)
		}
		return &Env{dev: d, closer: p}, nil
	default:
		b, err := i2creg.Open(ec.Device)
		if err != nil {
			return nil, fmt.Errorf("env: I2C open: %w", err)
		}
		d, err := bmxx80.NewI2C(b, ec.Address, &bmxx80.DefaultOpts)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("env: init: %w", err)
		}
		return &Env{dev: d, closer: b}, nil
	}
}

// Read takes one measurement.
func (e *Env) Read(source string) (env.Sample, error) {
	var m physic.Env
	if err := e.dev.Sense(&m); err != nil {
		return env.Sample{}, fmt.Errorf("env sense: %w", err)
	}
	return sampleFromEnv(source, m), nil
}

func sampleFromEnv(source string, m physic.Env) env.Sample {
	pressurePa := float64(m.Pressure) / float64(physic.Pascal)
	return env.Sample{
		Source:      source,
		Temperature: m.Temperature.Celsius(),
		Pressure:    pressurePa,
		PressureHPa: pressurePa / 100.0, // 1 hPa = 100 Pa
		Humidity:    float64(m.Humidity) / float64(physic.PercentRH),
	}
}

func (e *Env) Close() error {
	err := e.dev.Halt()
	if cerr := e.closer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
