// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package bus defines the transport contract every MEMS part driver consumes
// and the register access shim that sits between a driver and its transport.
package bus

import "fmt"

// Type identifies the physical bus a part is wired to.
type Type uint8

const (
	I2C  Type = iota // I²C
	SPI4             // SPI, separate MOSI/MISO
	SPI3             // SPI, single bidirectional data line
)

func (t Type) String() string {
	switch t {
	case I2C:
		return "i2c"
	case SPI4:
		return "spi4"
	case SPI3:
		return "spi3"
	default:
		return fmt.Sprintf("bus(%d)", uint8(t))
	}
}

// ParseType maps a config string onto a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "i2c", "devi2c":
		return I2C, nil
	case "spi", "spi4":
		return SPI4, nil
	case "spi3":
		return SPI3, nil
	default:
		return 0, fmt.Errorf("unknown bus type %q", s)
	}
}

// IO is the set of platform functions bound to a device once, before first
// use. Init, ReadReg and WriteReg are mandatory; the rest may be nil.
//
// ReadReg and WriteReg receive the register byte exactly as it must appear on
// the wire: any auto-increment flag has already been applied by the shim.
type IO struct {
	Init     func() error
	DeInit   func() error
	ReadReg  func(addr uint16, reg byte, buf []byte) error
	WriteReg func(addr uint16, reg byte, buf []byte) error
	GetTick  func() uint32 // milliseconds
	Delay    func(ms uint32)

	Type    Type
	Address uint16
}

// Tick returns the platform tick, or 0 when no tick source is bound.
func (io *IO) Tick() uint32 {
	if io.GetTick == nil {
		return 0
	}
	return io.GetTick()
}
