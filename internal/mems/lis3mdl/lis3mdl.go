// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package lis3mdl drives the ST LIS3MDL 3-axis magnetometer.
package lis3mdl

import (
	"fmt"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/mems"
)

const WhoAmI = 0x3D

const (
	regWhoAmI = 0x0F
	regCtrl1  = 0x20
	regCtrl2  = 0x21
	regCtrl3  = 0x22
	regCtrl4  = 0x23
	regCtrl5  = 0x24
	regStatus = 0x27
	regOutXL  = 0x28

	// CTRL_REG1: OM[6:5] DO[4:2] FAST_ODR[1]
	odrMask = 0x7E
	omMask  = 0x60
	doMask  = 0x1C
	fastODR = 0x02

	fsMask  = 0x60
	mdMask  = 0x03
	sim     = 0x04
	omzMask = 0x0C
	bdu     = 0x40
	zyxor   = 0x80
)

// Operating modes for the OM and OMZ fields.
const (
	omLowPower = iota
	omMedium
	omHigh
	omUltraHigh
)

// MD values in CTRL_REG3.
const (
	mdContinuous = 0x0
	mdPowerDown  = 0x3
)

var policy = bus.AddressPolicy{I2C: 0x80, SPI4: 0x40, SPI3: 0x40}

// ODR codes are the CTRL_REG1 bits under odrMask. The part is powered down
// through MD, so odrOff is outside that mask.
const (
	odrOff     = 0xFF
	odrDefault = omUltraHigh<<5 | 7<<2 // 80 Hz
)

// Rates up to 80 Hz run in ultra-high-performance mode. Above that the
// FAST_ODR rate is fixed by the operating mode.
var rate = mems.Table{
	{0.625, omUltraHigh<<5 | 0<<2},
	{1.25, omUltraHigh<<5 | 1<<2},
	{2.5, omUltraHigh<<5 | 2<<2},
	{5, omUltraHigh<<5 | 3<<2},
	{10, omUltraHigh<<5 | 4<<2},
	{20, omUltraHigh<<5 | 5<<2},
	{40, omUltraHigh<<5 | 6<<2},
	{80, omUltraHigh<<5 | 7<<2},
	{155, omUltraHigh<<5 | fastODR},
	{300, omHigh<<5 | fastODR},
	{560, omMedium<<5 | fastODR},
	{1000, omLowPower<<5 | fastODR},
}

var (
	dataRate = [8]float32{0.625, 1.25, 2.5, 5, 10, 20, 40, 80}
	fastRate = [4]float32{1000, 560, 300, 155}

	fullScale   = mems.Table{{4, 0}, {8, 1}, {12, 2}, {16, 3}}
	sensitivity = [4]float32{0.146, 0.292, 0.438, 0.584} // mgauss/LSB
)

var caps = mems.Capabilities{
	Magneto:   true,
	LowPower:  true,
	MagMaxFS:  int32(fullScale.Max()),
	MagMaxOdr: rate.Max(),
}

// Dev is a LIS3MDL. It is both the part and its only channel.
type Dev struct {
	obj mems.Object
	mag mems.Power
}

func New() *Dev {
	d := &Dev{}
	d.mag = mems.Power{
		Object: &d.obj,
		Off:    odrOff,
		Write:  d.writeODR,
		Read:   d.readODR,
	}
	return d
}

// writeODR sets OM, DO and FAST_ODR, mirrors OM into OMZ and starts
// continuous conversion. odrOff only switches MD to power-down.
func (d *Dev) writeODR(code byte) error {
	if code == odrOff {
		return d.obj.Modify(regCtrl3, mdMask, mdPowerDown)
	}
	c1, err := d.obj.Get(regCtrl1)
	if err != nil {
		return err
	}
	if err := d.obj.Set(regCtrl1, c1&^odrMask|code&odrMask); err != nil {
		return err
	}
	if err := d.obj.Modify(regCtrl4, omzMask, (code&omMask)>>5); err != nil {
		return err
	}
	return d.obj.Modify(regCtrl3, mdMask, mdContinuous)
}

func (d *Dev) readODR() (byte, error) {
	md, err := d.obj.Field(regCtrl3, mdMask)
	if err != nil {
		return 0, err
	}
	if md != mdContinuous {
		return odrOff, nil
	}
	c1, err := d.obj.Get(regCtrl1)
	if err != nil {
		return 0, err
	}
	return c1 & odrMask, nil
}

func decodeRate(code byte) float32 {
	if code&fastODR != 0 {
		return fastRate[(code&omMask)>>5]
	}
	return dataRate[(code&doMask)>>2]
}

// RegisterBusIO binds the transport. On a 3-wire SPI bus the part is switched
// to 3-wire mode, powered down, the first time.
func (d *Dev) RegisterBusIO(io bus.IO) error {
	return d.obj.Register(io, policy, func() error {
		return d.obj.Set(regCtrl3, sim|mdPowerDown)
	})
}

// Init enables BDU, powers the part down and selects ±4 gauss. 80 Hz is
// cached for Enable.
func (d *Dev) Init() error {
	if err := d.obj.Modify(regCtrl5, bdu, 1); err != nil {
		return fmt.Errorf("lis3mdl: enable BDU: %w", err)
	}
	d.mag.Cache(odrDefault)
	if err := d.writeODR(odrOff); err != nil {
		return fmt.Errorf("lis3mdl: power down: %w", err)
	}
	if err := d.SetFullScale(4); err != nil {
		return fmt.Errorf("lis3mdl: full scale: %w", err)
	}
	d.obj.SetInitialized(true)
	return nil
}

func (d *Dev) DeInit() error {
	if err := d.Disable(); err != nil {
		return err
	}
	d.mag.Reset()
	d.obj.SetInitialized(false)
	return nil
}

func (d *Dev) ReadID() (byte, error)           { return d.obj.Get(regWhoAmI) }
func (d *Dev) Capabilities() mems.Capabilities { return caps }
func (d *Dev) ReadReg(reg byte) (byte, error)  { return d.obj.Get(reg) }
func (d *Dev) WriteReg(reg, v byte) error      { return d.obj.Set(reg, v) }
func (d *Dev) Channels() []mems.Channel        { return []mems.Channel{d} }

func (d *Dev) Kind() mems.Kind { return mems.Magneto }
func (d *Dev) Enable() error   { return d.mag.Enable() }
func (d *Dev) Disable() error  { return d.mag.Disable() }
func (d *Dev) Enabled() bool   { return d.mag.Enabled() }

// OutputDataRate reads the rate set in hardware; 0 means power-down.
func (d *Dev) OutputDataRate() (float32, error) {
	code, err := d.readODR()
	if err != nil {
		return mems.Invalid, err
	}
	if code == odrOff {
		return 0, nil
	}
	return decodeRate(code), nil
}

func (d *Dev) SetOutputDataRate(hz float32) error {
	return d.mag.SetRate(rate.Ceil(hz).Code)
}

// FullScale returns the range in gauss.
func (d *Dev) FullScale() (int32, error) {
	code, err := d.obj.Field(regCtrl2, fsMask)
	if err != nil {
		return mems.Invalid, err
	}
	v, err := fullScale.Value(code)
	return int32(v), err
}

func (d *Dev) SetFullScale(gauss int32) error {
	return d.obj.Modify(regCtrl2, fsMask, fullScale.Ceil(float32(gauss)).Code)
}

func (d *Dev) Sensitivity() (float32, error) {
	code, err := d.obj.Field(regCtrl2, fsMask)
	if err != nil {
		return mems.Invalid, err
	}
	return sensitivity[code], nil
}

// AxesRaw reads one sample and drops it with ErrDataOverrun when the part
// reports an overrun.
func (d *Dev) AxesRaw() (mems.AxesRaw, error) {
	return d.obj.ReadSample(regOutXL, 0, regStatus, zyxor)
}

// Axes returns the field in mgauss.
func (d *Dev) Axes() (mems.Axes, error) { return mems.ReadAxes(d) }

var _ mems.Device = (*Dev)(nil)
