// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package lis2dh12 drives the ST LIS2DH12 3-axis accelerometer.
package lis2dh12

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/mems"
)

// WhoAmI is the identification value of the part.
const WhoAmI = 0x33

// Burst reads need the auto-increment bit, which sits at a different position
// for I²C and SPI.
var policy = bus.AddressPolicy{I2C: 0x80, SPI4: 0x40, SPI3: 0x40}

// Mode is the operating mode. It sets the output resolution, and with it the
// sensitivity and the shift applied to raw samples.
type Mode uint8

const (
	HighResolution Mode = iota // 12-bit
	Normal                     // 10-bit
	LowPower                   // 8-bit
)

func (m Mode) String() string {
	switch m {
	case HighResolution:
		return "high-resolution"
	case Normal:
		return "normal"
	case LowPower:
		return "low-power"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode accepts the names returned by String, plus "hr", "nm" and "lp".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "high-resolution", "hr", "":
		return HighResolution, nil
	case "normal", "nm":
		return Normal, nil
	case "low-power", "lp":
		return LowPower, nil
	default:
		return 0, fmt.Errorf("lis2dh12: unknown mode %q: %w", s, mems.ErrUnsupported)
	}
}

const (
	odrOff         = 0
	odrDefault     = 5 // 100 Hz
	odrHighest     = 9
	odrHighestHRNM = 1344
	odrHighestLP   = 5376
)

var (
	rateHRNM = mems.Table{
		{1, 1}, {10, 2}, {25, 3}, {50, 4}, {100, 5}, {200, 6}, {400, 7}, {odrHighestHRNM, odrHighest},
	}
	rateLP = mems.Table{
		{1, 1}, {10, 2}, {25, 3}, {50, 4}, {100, 5}, {200, 6}, {400, 7}, {1620, 8}, {odrHighestLP, odrHighest},
	}
	fullScale = mems.Table{{2, 0}, {4, 1}, {8, 2}, {16, 3}}

	// mg/digit, indexed by FS code.
	sensitivity = map[Mode][4]float32{
		HighResolution: {0.98, 1.95, 3.9, 11.72},
		Normal:         {3.9, 7.82, 15.63, 46.9},
		LowPower:       {15.63, 31.26, 62.52, 187.58},
	}
	shift = map[Mode]uint{HighResolution: 4, Normal: 6, LowPower: 8}
)

var caps = mems.Capabilities{
	Acc:       true,
	LowPower:  true,
	AccMaxFS:  int32(fullScale.Max()),
	AccMaxOdr: rateLP.Max(),
}

// Dev is a LIS2DH12. It is both the part and its only channel.
type Dev struct {
	obj mems.Object
	acc mems.Power
}

// New returns an unbound device.
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

// RegisterBusIO binds the transport. On a 3-wire SPI bus the part is switched
// to 3-wire mode the first time.
func (d *Dev) RegisterBusIO(io bus.IO) error {
	return d.obj.Register(io, policy, func() error {
		return d.obj.Set(regCtrl4, sim)
	})
}

// Init enables BDU, bypasses the FIFO, powers the part down and selects ±2g
// in high-resolution mode. The default rate of 100 Hz is cached for Enable.
func (d *Dev) Init() error {
	if err := d.obj.Modify(regCtrl4, bdu, 1); err != nil {
		return fmt.Errorf("lis2dh12: enable BDU: %w", err)
	}
	if err := d.obj.Modify(regFIFOCtrl, fifoModeMask, 0); err != nil {
		return fmt.Errorf("lis2dh12: FIFO bypass: %w", err)
	}
	if err := d.obj.Modify(regCtrl5, fifoEn, 0); err != nil {
		return fmt.Errorf("lis2dh12: FIFO disable: %w", err)
	}
	d.acc.Cache(odrDefault)
	if err := d.acc.Write(odrOff); err != nil {
		return fmt.Errorf("lis2dh12: power down: %w", err)
	}
	if err := d.SetFullScale(2); err != nil {
		return fmt.Errorf("lis2dh12: full scale: %w", err)
	}
	if err := d.SetMode(HighResolution); err != nil {
		return fmt.Errorf("lis2dh12: mode: %w", err)
	}
	d.obj.SetInitialized(true)
	return nil
}

// DeInit powers the part down and forgets the cached rate.
func (d *Dev) DeInit() error {
	if err := d.Disable(); err != nil {
		return err
	}
	d.acc.Reset()
	d.obj.SetInitialized(false)
	return nil
}

func (d *Dev) ReadID() (byte, error) { return d.obj.Get(regWhoAmI) }

func (d *Dev) Capabilities() mems.Capabilities { return caps }

func (d *Dev) ReadReg(reg byte) (byte, error) { return d.obj.Get(reg) }
func (d *Dev) WriteReg(reg, v byte) error     { return d.obj.Set(reg, v) }

func (d *Dev) Channels() []mems.Channel { return []mems.Channel{d} }

func (d *Dev) Kind() mems.Kind { return mems.Acc }
func (d *Dev) Enable() error   { return d.acc.Enable() }
func (d *Dev) Disable() error  { return d.acc.Disable() }
func (d *Dev) Enabled() bool   { return d.acc.Enabled() }

// Mode reads the operating mode from CTRL_REG1 and CTRL_REG4.
func (d *Dev) Mode() (Mode, error) {
	c1, err := d.obj.Get(regCtrl1)
	if err != nil {
		return 0, err
	}
	c4, err := d.obj.Get(regCtrl4)
	if err != nil {
		return 0, err
	}
	switch lp, h := c1&lpEn != 0, c4&hr != 0; {
	case lp && h:
		return 0, fmt.Errorf("lis2dh12: LPen and HR both set: %w", mems.ErrUnsupported)
	case lp:
		return LowPower, nil
	case h:
		return HighResolution, nil
	default:
		return Normal, nil
	}
}

// SetMode writes the LPen and HR bits and moves the rate onto the new mode's
// table: the lowest step not below the current one.
func (d *Dev) SetMode(m Mode) error {
	prev, perr := d.Mode()
	if perr != nil && !errors.Is(perr, mems.ErrUnsupported) {
		return perr
	}
	if err := d.writeMode(m); err != nil {
		return err
	}
	if perr != nil || prev == m {
		return nil
	}
	return d.remapRate(prev, m)
}

// writeMode clears LPen before setting HR so the part never sees both at once.
func (d *Dev) writeMode(m Mode) error {
	switch m {
	case HighResolution:
		if err := d.obj.Modify(regCtrl1, lpEn, 0); err != nil {
			return err
		}
		return d.obj.Modify(regCtrl4, hr, 1)
	case Normal:
		if err := d.obj.Modify(regCtrl1, lpEn, 0); err != nil {
			return err
		}
		return d.obj.Modify(regCtrl4, hr, 0)
	case LowPower:
		if err := d.obj.Modify(regCtrl4, hr, 0); err != nil {
			return err
		}
		return d.obj.Modify(regCtrl1, lpEn, 1)
	default:
		return fmt.Errorf("lis2dh12: %v: %w", m, mems.ErrUnsupported)
	}
}

// remapRate re-selects the running rate when enabled, or the cached one when
// not. Codes the old table does not know are left alone.
func (d *Dev) remapRate(from, to Mode) error {
	code := d.acc.Cached()
	if d.acc.Enabled() {
		c, err := d.acc.Read()
		if err != nil {
			return err
		}
		code = c
	}
	if code == odrOff {
		return nil
	}
	hz, err := rates(from).Value(code)
	if err != nil {
		return nil
	}
	next := rates(to).Ceil(hz).Code
	if next == code {
		return nil
	}
	return d.acc.SetRate(next)
}

func rates(m Mode) mems.Table {
	if m == LowPower {
		return rateLP
	}
	return rateHRNM
}

// OutputDataRate reads the rate set in hardware; 0 means power-down.
func (d *Dev) OutputDataRate() (float32, error) {
	m, err := d.Mode()
	if err != nil {
		return mems.Invalid, err
	}
	code, err := d.obj.Field(regCtrl1, odrMask)
	if err != nil {
		return mems.Invalid, err
	}
	if code == odrOff {
		return 0, nil
	}
	return rates(m).Value(code)
}

// SetOutputDataRate selects the lowest supported rate not below hz for the
// current mode. 1620 Hz and 5376 Hz are only reachable in low-power mode.
func (d *Dev) SetOutputDataRate(hz float32) error {
	m, err := d.Mode()
	if err != nil {
		return err
	}
	return d.acc.SetRate(rates(m).Ceil(hz).Code)
}

// FullScale returns the range in g.
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

// Sensitivity depends on both the full scale and the operating mode.
func (d *Dev) Sensitivity() (float32, error) {
	m, err := d.Mode()
	if err != nil {
		return mems.Invalid, err
	}
	code, err := d.obj.Field(regCtrl4, fsMask)
	if err != nil {
		return mems.Invalid, err
	}
	return sensitivity[m][code], nil
}

// AxesRaw burst-reads OUT_X_L..OUT_Z_H and drops the bits below the current
// resolution. A sample flagged as overrun is discarded.
func (d *Dev) AxesRaw() (mems.AxesRaw, error) {
	m, err := d.Mode()
	if err != nil {
		return mems.AxesRaw{}, err
	}
	return d.obj.ReadSample(regOutXL, shift[m], regStatus, zyxor)
}

// Axes returns acceleration in mg.
func (d *Dev) Axes() (mems.Axes, error) { return mems.ReadAxes(d) }

// DataReady reports whether a new X/Y/Z sample is available.
func (d *Dev) DataReady() (bool, error) {
	s, err := d.obj.Get(regStatus)
	if err != nil {
		return false, err
	}
	return s&zyxda != 0, nil
}

var (
	_ mems.Device    = (*Dev)(nil)
	_ mems.Describer = (*Dev)(nil)
)
