// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bus

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// spiRead is the R/W bit of the ST SPI protocol. It is part of the framing,
// not of the register address, so the transport owns it.
const spiRead = 0x80

// SPIMode is the clock mode used by every supported part.
var SPIMode = spi.Mode3

// NewPeriphI2C binds a periph I²C bus. When speed is non-zero the bus clock
// is set during Init.
func NewPeriphI2C(b i2c.Bus, addr uint16, speed physic.Frequency) IO {
	start := time.Now()
	return IO{
		Init: func() error {
			if speed == 0 {
				return nil
			}
			return b.SetSpeed(speed)
		},
		DeInit: func() error { return nil },
		ReadReg: func(a uint16, reg byte, buf []byte) error {
			return b.Tx(a, []byte{reg}, buf)
		},
		WriteReg: func(a uint16, reg byte, buf []byte) error {
			w := make([]byte, 1+len(buf))
			w[0] = reg
			copy(w[1:], buf)
			return b.Tx(a, w, nil)
		},
		GetTick: func() uint32 { return uint32(time.Since(start).Milliseconds()) },
		Delay:   func(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) },
		Type:    I2C,
		Address: addr,
	}
}

// NewPeriphSPI binds a periph SPI port. The connection is opened by the first
// Init and kept for the life of the port, since periph ports connect once;
// SPI3 opens it half-duplex so MOSI doubles as the data line.
func NewPeriphSPI(p spi.Port, t Type, f physic.Frequency) (IO, error) {
	if t != SPI4 && t != SPI3 {
		return IO{}, fmt.Errorf("spi transport: unsupported bus type %s", t)
	}
	start := time.Now()
	var c spi.Conn
	mode := SPIMode
	if t == SPI3 {
		mode |= spi.HalfDuplex
	}
	return IO{
		Init: func() error {
			if c != nil {
				return nil
			}
			conn, err := p.Connect(f, mode, 8)
			if err != nil {
				return fmt.Errorf("spi connect: %w", err)
			}
			c = conn
			return nil
		},
		DeInit: func() error { return nil },
		ReadReg: func(_ uint16, reg byte, buf []byte) error {
			if c == nil {
				return errors.New("spi transport not initialized")
			}
			if t == SPI3 {
				return c.Tx([]byte{reg | spiRead}, buf)
			}
			tx := make([]byte, 1+len(buf))
			rx := make([]byte, len(tx))
			tx[0] = reg | spiRead
			if err := c.Tx(tx, rx); err != nil {
				return err
			}
			copy(buf, rx[1:])
			return nil
		},
		WriteReg: func(_ uint16, reg byte, buf []byte) error {
			if c == nil {
				return errors.New("spi transport not initialized")
			}
			tx := make([]byte, 1+len(buf))
			tx[0] = reg
			copy(tx[1:], buf)
			return c.Tx(tx, nil)
		},
		GetTick: func() uint32 { return uint32(time.Since(start).Milliseconds()) },
		Delay:   func(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) },
		Type:    t,
	}, nil
}
