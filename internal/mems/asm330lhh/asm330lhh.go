// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package asm330lhh drives the ST ASM330LHH 6-axis IMU.
//
// The part auto-increments register addresses on its own once IF_INC is set,
// so register bytes go on the wire unmodified on every bus.
package asm330lhh

import (
	"fmt"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/mems"
)

const WhoAmI = 0x6B

const (
	odrOff     = 0
	odrDefault = 4 // 104 Hz
)

var (
	rate = mems.Table{
		{12.5, 1}, {26, 2}, {52, 3}, {104, 4}, {208, 5},
		{416, 6}, {833, 7}, {1667, 8}, {3333, 9}, {6667, 10},
	}
	accFullScale  = mems.Table{{2, 0}, {4, 2}, {8, 3}, {16, 1}}
	gyroFullScale = mems.Table{{125, 0x2}, {250, 0x0}, {500, 0x4}, {1000, 0x8}, {2000, 0xC}, {4000, 0x1}}

	// mg/LSB and mdps/LSB, keyed by full scale.
	accSensitivity  = map[int32]float32{2: 0.061, 4: 0.122, 8: 0.244, 16: 0.488}
	gyroSensitivity = map[int32]float32{125: 4.375, 250: 8.75, 500: 17.5, 1000: 35, 2000: 70, 4000: 140}
)

var caps = mems.Capabilities{
	Acc:        true,
	Gyro:       true,
	AccMaxFS:   int32(accFullScale.Max()),
	GyroMaxFS:  int32(gyroFullScale.Max()),
	AccMaxOdr:  rate.Max(),
	GyroMaxOdr: rate.Max(),
}

// Dev is an ASM330LHH with independent accelerometer and gyroscope channels.
type Dev struct {
	obj  mems.Object
	acc  Accel
	gyro Gyro
}

// channel holds what both channels share: a control register with the ODR in
// the high nibble and a full-scale field below it, and an output block.
type channel struct {
	d       *Dev
	pwr     mems.Power
	ctrl    byte
	fsMask  byte
	out     byte
	fs      mems.Table
	sens    map[int32]float32
	dataRdy byte
}

func (c *channel) init(d *Dev, ctrl, fsMask, out, dataRdy byte, fs mems.Table, sens map[int32]float32) {
	*c = channel{d: d, ctrl: ctrl, fsMask: fsMask, out: out, fs: fs, sens: sens, dataRdy: dataRdy}
	c.pwr = mems.Power{
		Object: &d.obj,
		Off:    odrOff,
		Write:  func(code byte) error { return d.obj.Modify(ctrl, odrMask, code) },
		Read:   func() (byte, error) { return d.obj.Field(ctrl, odrMask) },
	}
}

// Accel is the accelerometer channel. Axes are in mg.
type Accel struct{ channel }

// Gyro is the gyroscope channel. Axes are in mdps.
type Gyro struct{ channel }

func New() *Dev {
	d := &Dev{}
	d.acc.init(d, regCtrl1XL, fsXLMask, regOutXLA, xlda, accFullScale, accSensitivity)
	d.gyro.init(d, regCtrl2G, fsGMask, regOutXLG, gda, gyroFullScale, gyroSensitivity)
	return d
}

func (d *Dev) Acc() *Accel { return &d.acc }
func (d *Dev) Gyro() *Gyro { return &d.gyro }

func (d *Dev) Channels() []mems.Channel { return []mems.Channel{&d.acc, &d.gyro} }

// RegisterBusIO binds the transport. On a 3-wire SPI bus SIM and IF_INC are
// written the first time.
func (d *Dev) RegisterBusIO(io bus.IO) error {
	return d.obj.Register(io, bus.Passthrough, func() error {
		return d.obj.Set(regCtrl3C, sim|ifInc)
	})
}

// Init turns on auto-increment and BDU, bypasses the FIFO and powers both
// channels down at ±2g and ±2000 dps. Both channels cache 104 Hz for Enable.
func (d *Dev) Init() error {
	if err := d.obj.Modify(regCtrl3C, ifInc, 1); err != nil {
		return fmt.Errorf("asm330lhh: enable auto-increment: %w", err)
	}
	if err := d.obj.Modify(regCtrl3C, bdu, 1); err != nil {
		return fmt.Errorf("asm330lhh: enable BDU: %w", err)
	}
	if err := d.obj.Modify(regFIFOCtrl4, fifoModeMsk, 0); err != nil {
		return fmt.Errorf("asm330lhh: FIFO bypass: %w", err)
	}

	d.acc.pwr.Cache(odrDefault)
	if err := d.acc.pwr.Write(odrOff); err != nil {
		return fmt.Errorf("asm330lhh: acc power down: %w", err)
	}
	if err := d.acc.SetFullScale(2); err != nil {
		return fmt.Errorf("asm330lhh: acc full scale: %w", err)
	}

	d.gyro.pwr.Cache(odrDefault)
	if err := d.gyro.pwr.Write(odrOff); err != nil {
		return fmt.Errorf("asm330lhh: gyro power down: %w", err)
	}
	if err := d.gyro.SetFullScale(2000); err != nil {
		return fmt.Errorf("asm330lhh: gyro full scale: %w", err)
	}

	d.obj.SetInitialized(true)
	return nil
}

// DeInit powers both channels down and forgets their cached rates.
func (d *Dev) DeInit() error {
	if err := d.acc.Disable(); err != nil {
		return err
	}
	if err := d.gyro.Disable(); err != nil {
		return err
	}
	d.acc.pwr.Reset()
	d.gyro.pwr.Reset()
	d.obj.SetInitialized(false)
	return nil
}

func (d *Dev) ReadID() (byte, error)           { return d.obj.Get(regWhoAmI) }
func (d *Dev) Capabilities() mems.Capabilities { return caps }
func (d *Dev) ReadReg(reg byte) (byte, error)  { return d.obj.Get(reg) }
func (d *Dev) WriteReg(reg, v byte) error      { return d.obj.Set(reg, v) }

func (a *Accel) Kind() mems.Kind { return mems.Acc }
func (g *Gyro) Kind() mems.Kind  { return mems.Gyro }

func (a *Accel) Axes() (mems.Axes, error) { return mems.ReadAxes(a) }
func (g *Gyro) Axes() (mems.Axes, error)  { return mems.ReadAxes(g) }

func (c *channel) Enable() error  { return c.pwr.Enable() }
func (c *channel) Disable() error { return c.pwr.Disable() }
func (c *channel) Enabled() bool  { return c.pwr.Enabled() }

// OutputDataRate reads the rate set in hardware; 0 means power-down.
func (c *channel) OutputDataRate() (float32, error) {
	code, err := c.d.obj.Field(c.ctrl, odrMask)
	if err != nil {
		return mems.Invalid, err
	}
	if code == odrOff {
		return 0, nil
	}
	return rate.Value(code)
}

func (c *channel) SetOutputDataRate(hz float32) error {
	return c.pwr.SetRate(rate.Ceil(hz).Code)
}

func (c *channel) FullScale() (int32, error) {
	code, err := c.d.obj.Field(c.ctrl, c.fsMask)
	if err != nil {
		return mems.Invalid, err
	}
	v, err := c.fs.Value(code)
	return int32(v), err
}

func (c *channel) SetFullScale(fs int32) error {
	return c.d.obj.Modify(c.ctrl, c.fsMask, c.fs.Ceil(float32(fs)).Code)
}

func (c *channel) Sensitivity() (float32, error) {
	fs, err := c.FullScale()
	if err != nil {
		return mems.Invalid, err
	}
	return c.sens[fs], nil
}

func (c *channel) AxesRaw() (mems.AxesRaw, error) {
	return c.d.obj.ReadSample(c.out, 0, 0, 0)
}

// DataReady reports whether the channel has a new sample.
func (c *channel) DataReady() (bool, error) {
	s, err := c.d.obj.Get(regStatus)
	if err != nil {
		return false, err
	}
	return s&c.dataRdy != 0, nil
}

var (
	_ mems.Device    = (*Dev)(nil)
	_ mems.Describer = (*Dev)(nil)
	_ mems.Channel   = (*Accel)(nil)
	_ mems.Channel   = (*Gyro)(nil)
)
