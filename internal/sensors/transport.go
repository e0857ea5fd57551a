// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/config"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// initHost loads the periph host drivers once per process.
func initHost() error {
	hostOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			hostErr = fmt.Errorf("periph host init: %w", err)
		}
	})
	return hostErr
}

// openTransport opens the bus named by sc and binds it to the sensor's
// address. The returned closers release the bus handle.
func openTransport(sc config.SensorConfig) (bus.IO, []io.Closer, error) {
	if sc.Bus == "devi2c" {
		d, err := bus.OpenDevI2C(sc.Device)
		if err != nil {
			return bus.IO{}, nil, err
		}
		return bus.NewDevI2C(d, sc.Address), []io.Closer{d}, nil
	}

	if err := initHost(); err != nil {
		return bus.IO{}, nil, err
	}
	t, err := bus.ParseType(sc.Bus)
	if err != nil {
		return bus.IO{}, nil, err
	}
	switch t {
	case bus.I2C:
		b, err := i2creg.Open(sc.Device)
		if err != nil {
			return bus.IO{}, nil, fmt.Errorf("i2c open %q: %w", sc.Device, err)
		}
		return bus.NewPeriphI2C(b, sc.Address, 0), []io.Closer{b}, nil
	default:
		p, err := spireg.Open(sc.Device)
		if err != nil {
			return bus.IO{}, nil, fmt.Errorf("spi open %q: %w", sc.Device, err)
		}
		tio, err := bus.NewPeriphSPI(p, t, physic.Frequency(sc.SPIHz)*physic.Hertz)
		if err != nil {
			p.Close()
			return bus.IO{}, nil, err
		}
		return tio, []io.Closer{p}, nil
	}
}

// ReadID opens the transport described by sc and reads the identity
// register of the configured part without initialising it.
func ReadID(sc config.SensorConfig) (byte, error) {
	p, err := LookupPart(sc.Part)
	if err != nil {
		return 0, err
	}
	tio, closers, err := openTransport(sc)
	if err != nil {
		return 0, err
	}
	defer closeAll(closers)

	d := p.New()
	if err := d.RegisterBusIO(tio); err != nil {
		return 0, err
	}
	defer func() {
		if tio.DeInit != nil {
			tio.DeInit()
		}
	}()
	return d.ReadID()
}
