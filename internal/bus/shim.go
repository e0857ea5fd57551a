// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bus

// AddressPolicy holds the bits a part wants OR-ed into the register address
// of every transfer, per bus type. Parts that rely on an internal
// auto-increment setting use Passthrough.
type AddressPolicy struct {
	I2C  byte
	SPI4 byte
	SPI3 byte
}

// Passthrough leaves register addresses untouched on every bus.
var Passthrough = AddressPolicy{}

// Flag returns the bits applied for bus type t.
func (p AddressPolicy) Flag(t Type) byte {
	switch t {
	case I2C:
		return p.I2C
	case SPI4:
		return p.SPI4
	case SPI3:
		return p.SPI3
	default:
		return 0
	}
}

// Context is the register-level indirection handed to driver internals. The
// closures are bound to the owning device so register helpers never need to
// know the transport.
type Context struct {
	Read  func(reg byte, buf []byte) error
	Write func(reg byte, buf []byte) error
}

// NewContext binds io and policy into a Context. The returned closures apply
// the bus-specific flag and hand the transfer to the transport; transport
// errors come back untouched.
func NewContext(io *IO, policy AddressPolicy) Context {
	return Context{
		Read: func(reg byte, buf []byte) error {
			return io.ReadReg(io.Address, reg|policy.Flag(io.Type), buf)
		},
		Write: func(reg byte, buf []byte) error {
			return io.WriteReg(io.Address, reg|policy.Flag(io.Type), buf)
		},
	}
}
