// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package a3g4250d drives the ST A3G4250D 3-axis gyroscope.
//
// The part has a single ±245 dps range. Power is controlled by the PD bit of
// CTRL_REG1 independently of the DR field.
package a3g4250d

import (
	"fmt"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/mems"
)

const WhoAmI = 0xD3

const (
	regWhoAmI   = 0x0F
	regCtrl1    = 0x20
	regCtrl4    = 0x23
	regCtrl5    = 0x24
	regStatus   = 0x27
	regOutXL    = 0x28
	regFIFOCtrl = 0x2E

	drMask   = 0xC0
	pd       = 0x08
	sim      = 0x01
	fifoEn   = 0x40
	fmMask   = 0xE0
	zyxor    = 0x80
	zyxda    = 0x08
	axesMask = 0x07
)

// FullScale is the fixed range in dps.
const FullScale = 245

// sensitivity in mdps/LSB at ±245 dps.
const sensitivity = 8.75

var policy = bus.AddressPolicy{I2C: 0x80, SPI3: 0x40}

// ODR codes are DR+1; 0 is power-down.
const (
	odrOff     = 0
	odrDefault = 1 // 100 Hz
)

var rate = mems.Table{{100, 1}, {200, 2}, {400, 3}, {800, 4}}

var caps = mems.Capabilities{
	Gyro:       true,
	GyroMaxFS:  FullScale,
	GyroMaxOdr: rate.Max(),
}

// Dev is an A3G4250D. It is both the part and its only channel.
type Dev struct {
	obj  mems.Object
	gyro mems.Power
}

func New() *Dev {
	d := &Dev{}
	d.gyro = mems.Power{
		Object: &d.obj,
		Off:    odrOff,
		Write:  d.writeODR,
		Read:   d.readODR,
	}
	return d
}

func (d *Dev) writeODR(code byte) error {
	if code == odrOff {
		return d.obj.Modify(regCtrl1, pd, 0)
	}
	c, err := d.obj.Get(regCtrl1)
	if err != nil {
		return err
	}
	return d.obj.Set(regCtrl1, c&^(drMask|pd)|(code-1)<<6|pd|axesMask)
}

func (d *Dev) readODR() (byte, error) {
	c, err := d.obj.Get(regCtrl1)
	if err != nil {
		return 0, err
	}
	if c&pd == 0 {
		return odrOff, nil
	}
	return (c&drMask)>>6 + 1, nil
}

// RegisterBusIO binds the transport. On a 3-wire SPI bus the part is switched
// to 3-wire mode the first time.
func (d *Dev) RegisterBusIO(io bus.IO) error {
	return d.obj.Register(io, policy, func() error {
		return d.obj.Set(regCtrl4, sim)
	})
}

// Init bypasses the FIFO and powers the part down. 100 Hz is cached for
// Enable.
func (d *Dev) Init() error {
	if err := d.obj.Modify(regFIFOCtrl, fmMask, 0); err != nil {
		return fmt.Errorf("a3g4250d: FIFO bypass: %w", err)
	}
	if err := d.obj.Modify(regCtrl5, fifoEn, 0); err != nil {
		return fmt.Errorf("a3g4250d: FIFO disable: %w", err)
	}
	d.gyro.Cache(odrDefault)
	if err := d.writeODR(odrOff); err != nil {
		return fmt.Errorf("a3g4250d: power down: %w", err)
	}
	d.obj.SetInitialized(true)
	return nil
}

func (d *Dev) DeInit() error {
	if err := d.Disable(); err != nil {
		return err
	}
	d.gyro.Reset()
	d.obj.SetInitialized(false)
	return nil
}

func (d *Dev) ReadID() (byte, error)           { return d.obj.Get(regWhoAmI) }
func (d *Dev) Capabilities() mems.Capabilities { return caps }
func (d *Dev) ReadReg(reg byte) (byte, error)  { return d.obj.Get(reg) }
func (d *Dev) WriteReg(reg, v byte) error      { return d.obj.Set(reg, v) }
func (d *Dev) Channels() []mems.Channel        { return []mems.Channel{d} }

func (d *Dev) Kind() mems.Kind { return mems.Gyro }
func (d *Dev) Enable() error   { return d.gyro.Enable() }
func (d *Dev) Disable() error  { return d.gyro.Disable() }
func (d *Dev) Enabled() bool   { return d.gyro.Enabled() }

// OutputDataRate reads the rate set in hardware; 0 means power-down.
func (d *Dev) OutputDataRate() (float32, error) {
	code, err := d.readODR()
	if err != nil {
		return mems.Invalid, err
	}
	if code == odrOff {
		return 0, nil
	}
	return rate.Value(code)
}

func (d *Dev) SetOutputDataRate(hz float32) error {
	return d.gyro.SetRate(rate.Ceil(hz).Code)
}

// FullScale always reports the fixed range.
func (d *Dev) FullScale() (int32, error) { return FullScale, nil }

// SetFullScale does nothing: the range is fixed. A nil error does not mean
// fs took effect.
func (d *Dev) SetFullScale(fs int32) error { return nil }

func (d *Dev) Sensitivity() (float32, error) { return sensitivity, nil }

// AxesRaw reads one sample. When the part flags an overrun the sample is
// discarded and ErrDataOverrun returned.
func (d *Dev) AxesRaw() (mems.AxesRaw, error) {
	return d.obj.ReadSample(regOutXL, 0, regStatus, zyxor)
}

// Axes returns angular rate in mdps.
func (d *Dev) Axes() (mems.Axes, error) { return mems.ReadAxes(d) }

var _ mems.Device = (*Dev)(nil)
