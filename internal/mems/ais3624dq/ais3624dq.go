// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package ais3624dq drives the ST AIS3624DQ 3-axis accelerometer.
package ais3624dq

import (
	"fmt"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/mems"
)

const WhoAmI = 0x32

const (
	regWhoAmI = 0x0F
	regCtrl1  = 0x20
	regCtrl4  = 0x23
	regStatus = 0x27
	regOutXL  = 0x28

	// CTRL_REG1: PM[7:5] DR[4:3]
	odrMask = 0xF8

	// CTRL_REG4
	bdu    = 0x80
	fsMask = 0x30
	sim    = 0x01

	zyxor = 0x80
)

var policy = bus.AddressPolicy{I2C: 0x80, SPI4: 0x40, SPI3: 0x40}

// ODR codes are PM<<2 | DR. PM=1 is normal mode where DR picks the rate; the
// low-power modes PM=2..6 have a fixed rate each and ignore DR.
const (
	odrOff     = 0
	odrDefault = 1<<2 | 0 // 50 Hz
	pmNormal   = 1
)

var (
	rate = mems.Table{
		{0.5, 2 << 2}, {1, 3 << 2}, {2, 4 << 2}, {5, 5 << 2}, {10, 6 << 2},
		{50, pmNormal<<2 | 0}, {100, pmNormal<<2 | 1}, {400, pmNormal<<2 | 2}, {1000, pmNormal<<2 | 3},
	}
	lowPowerRate = map[byte]float32{2: 0.5, 3: 1, 4: 2, 5: 5, 6: 10}

	// FS code 0b10 is reserved.
	fullScale   = mems.Table{{6, 0}, {12, 1}, {24, 3}}
	sensitivity = map[byte]float32{0: 2.9, 1: 5.9, 3: 11.7} // mg/digit
)

// Samples are 12-bit, left-justified.
const shift = 4

var caps = mems.Capabilities{
	Acc:       true,
	LowPower:  true,
	AccMaxFS:  int32(fullScale.Max()),
	AccMaxOdr: rate.Max(),
}

type Dev struct {
	obj mems.Object
	acc mems.Power
}

func New() *Dev {
	d := &Dev{}
	d.acc = mems.Power{
		Object: &d.obj,
		Off:    odrOff,
		Write:  func(code byte) error { return d.obj.Modify(regCtrl1, odrMask, code) },
		Read:   func() (byte, error) { return d.obj.Field(regCtrl1, odrMask) },
	}
	return d
}

func decodeRate(code byte) (float32, error) {
	pm := code >> 2
	switch {
	case pm == 0:
		return 0, nil
	case pm == pmNormal:
		return rate.Value(code)
	default:
		if v, ok := lowPowerRate[pm]; ok {
			return v, nil
		}
		return mems.Invalid, fmt.Errorf("ais3624dq: power mode %d: %w", pm, mems.ErrUnsupported)
	}
}

func (d *Dev) RegisterBusIO(io bus.IO) error {
	return d.obj.Register(io, policy, func() error {
		return d.obj.Set(regCtrl4, sim)
	})
}

// Init enables BDU, powers the part down and selects ±6g. 50 Hz is cached
// for Enable.
func (d *Dev) Init() error {
	if err := d.obj.Modify(regCtrl4, bdu, 1); err != nil {
		return fmt.Errorf("ais3624dq: enable BDU: %w", err)
	}
	d.acc.Cache(odrDefault)
	if err := d.acc.Write(odrOff); err != nil {
		return fmt.Errorf("ais3624dq: power down: %w", err)
	}
	if err := d.SetFullScale(6); err != nil {
		return fmt.Errorf("ais3624dq: full scale: %w", err)
	}
	d.obj.SetInitialized(true)
	return nil
}

func (d *Dev) DeInit() error {
	if err := d.Disable(); err != nil {
		return err
	}
	d.acc.Reset()
	d.obj.SetInitialized(false)
	return nil
}

func (d *Dev) ReadID() (byte, error)           { return d.obj.Get(regWhoAmI) }
func (d *Dev) Capabilities() mems.Capabilities { return caps }
func (d *Dev) ReadReg(reg byte) (byte, error)  { return d.obj.Get(reg) }
func (d *Dev) WriteReg(reg, v byte) error      { return d.obj.Set(reg, v) }
func (d *Dev) Channels() []mems.Channel        { return []mems.Channel{d} }

func (d *Dev) Kind() mems.Kind { return mems.Acc }
func (d *Dev) Enable() error   { return d.acc.Enable() }
func (d *Dev) Disable() error  { return d.acc.Disable() }
func (d *Dev) Enabled() bool   { return d.acc.Enabled() }

func (d *Dev) OutputDataRate() (float32, error) {
	code, err := d.obj.Field(regCtrl1, odrMask)
	if err != nil {
		return mems.Invalid, err
	}
	return decodeRate(code)
}

func (d *Dev) SetOutputDataRate(hz float32) error {
	return d.acc.SetRate(rate.Ceil(hz).Code)
}

func (d *Dev) FullScale() (int32, error) {
	code, err := d.obj.Field(regCtrl4, fsMask)
	if err != nil {
		return mems.Invalid, err
	}
	v, err := fullScale.Value(code)
	return int32(v), err
}

func (d *Dev) SetFullScale(g int32) error {
	return d.obj.Modify(regCtrl4, fsMask, fullScale.Ceil(float32(g)).Code)
}

func (d *Dev) Sensitivity() (float32, error) {
	code, err := d.obj.Field(regCtrl4, fsMask)
	if err != nil {
		return mems.Invalid, err
	}
	s, ok := sensitivity[code]
	if !ok {
		return mems.Invalid, fmt.Errorf("ais3624dq: FS code %d: %w", code, mems.ErrUnsupported)
	}
	return s, nil
}

func (d *Dev) AxesRaw() (mems.AxesRaw, error) {
	return d.obj.ReadSample(regOutXL, shift, regStatus, zyxor)
}

// Axes returns acceleration in mg.
func (d *Dev) Axes() (mems.Axes, error) { return mems.ReadAxes(d) }

var _ mems.Device = (*Dev)(nil)
