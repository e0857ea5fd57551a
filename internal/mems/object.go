// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package mems holds the pieces shared by every part driver: the device
// object that owns the transport, the per-channel power state, step tables
// for ODR and full-scale selection, and the axes types.
//
// Drivers are synchronous and not reentrant. Callers serialise access to a
// device; a bus shared by several devices is serialised by its transport.
package mems

import (
	"fmt"
	"math/bits"

	"github.com/relabs-tech/mems_bsp/internal/bus"
)

// Object is the part-independent half of a device: the bound transport, the
// register context built over it and the initialised flag.
type Object struct {
	io          bus.IO
	ctx         bus.Context
	initialized bool
}

// Register binds io to the object. The address policy is applied to every
// register access from now on.
//
// When io is SPI 3-wire and the object has never been initialised,
// threeWire is called once to switch the part to 3-wire mode. Later calls on
// an initialised object skip it.
func (o *Object) Register(io bus.IO, policy bus.AddressPolicy, threeWire func() error) error {
	if io.Init == nil || io.ReadReg == nil || io.WriteReg == nil {
		return ErrNoTransport
	}
	o.io = io
	o.ctx = bus.NewContext(&o.io, policy)

	if err := o.io.Init(); err != nil {
		return fmt.Errorf("transport init: %w: %w", ErrBus, err)
	}
	if o.io.Type == bus.SPI3 && !o.initialized && threeWire != nil {
		if err := threeWire(); err != nil {
			return fmt.Errorf("enable 3-wire spi: %w", err)
		}
	}
	return nil
}

// IO returns the bound transport.
func (o *Object) IO() *bus.IO { return &o.io }

func (o *Object) Initialized() bool     { return o.initialized }
func (o *Object) SetInitialized(v bool) { o.initialized = v }

// Read fills buf starting at reg.
func (o *Object) Read(reg byte, buf []byte) error {
	if o.ctx.Read == nil {
		return ErrNoTransport
	}
	if err := o.ctx.Read(reg, buf); err != nil {
		return fmt.Errorf("read 0x%02X: %w: %w", reg, ErrBus, err)
	}
	return nil
}

// Write sends buf starting at reg.
func (o *Object) Write(reg byte, buf []byte) error {
	if o.ctx.Write == nil {
		return ErrNoTransport
	}
	if err := o.ctx.Write(reg, buf); err != nil {
		return fmt.Errorf("write 0x%02X: %w: %w", reg, ErrBus, err)
	}
	return nil
}

// Get reads a single register.
func (o *Object) Get(reg byte) (byte, error) {
	var b [1]byte
	if err := o.Read(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Set writes a single register.
func (o *Object) Set(reg, v byte) error {
	return o.Write(reg, []byte{v})
}

// Modify replaces the bits selected by mask with v, shifted up to the lowest
// set bit of mask. The rest of the register is left untouched.
func (o *Object) Modify(reg, mask, v byte) error {
	cur, err := o.Get(reg)
	if err != nil {
		return err
	}
	return o.Set(reg, cur&^mask|(v<<bits.TrailingZeros8(mask))&mask)
}

// Field reads reg and returns the bits selected by mask shifted down to bit 0.
func (o *Object) Field(reg, mask byte) (byte, error) {
	v, err := o.Get(reg)
	if err != nil {
		return 0, err
	}
	return (v & mask) >> bits.TrailingZeros8(mask), nil
}

// ReadSample burst-reads the six output bytes at out and decodes them with
// shift. When ovr is non-zero the status register is read afterwards and the
// sample is discarded with ErrDataOverrun if any ovr bit is set.
func (o *Object) ReadSample(out byte, shift uint, status, ovr byte) (AxesRaw, error) {
	var buf [6]byte
	if err := o.Read(out, buf[:]); err != nil {
		return AxesRaw{}, err
	}
	if ovr != 0 {
		s, err := o.Get(status)
		if err != nil {
			return AxesRaw{}, err
		}
		if s&ovr != 0 {
			return AxesRaw{}, ErrDataOverrun
		}
	}
	return DecodeAxes(buf[:], shift), nil
}
