// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ais3624dq

import (
	"errors"
	"testing"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/mems"
	"github.com/relabs-tech/mems_bsp/internal/mems/memstest"
)

func newDev(t *testing.T, bt bus.Type) (*Dev, *memstest.Fake) {
	t.Helper()
	f := memstest.New(bt, 0xC0)
	f.Address = 0x18
	f.Regs[regWhoAmI] = WhoAmI
	f.Regs[regCtrl1] = 0x07
	d := New()
	if err := d.RegisterBusIO(f.IO()); err != nil {
		t.Fatalf("RegisterBusIO: %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	f.Clear()
	return d, f
}

func TestInitDefaults(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	if f.Regs[regCtrl1] != 0x07 {
		t.Fatalf("CTRL_REG1 = 0x%02X, want power-down with axes enabled", f.Regs[regCtrl1])
	}
	if f.Regs[regCtrl4]&bdu == 0 {
		t.Fatal("BDU off")
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := d.OutputDataRate(); odr != 50 {
		t.Fatalf("ODR = %v, want 50", odr)
	}
	if err := mems.Probe(d, WhoAmI); err != nil {
		t.Fatal(err)
	}
}

func TestRateSelectionAcrossPowerModes(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		in, want float32
		pm       byte
	}{
		{0, 0.5, 2},
		{3, 5, 5},
		{10, 10, 6},
		{11, 50, 1},
		{101, 400, 1},
		{2000, 1000, 1},
	} {
		if err := d.SetOutputDataRate(tt.in); err != nil {
			t.Fatal(err)
		}
		got, err := d.OutputDataRate()
		if err != nil || got != tt.want {
			t.Errorf("SetOutputDataRate(%v): OutputDataRate = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if pm := f.Regs[regCtrl1] >> 5; pm != tt.pm {
			t.Errorf("SetOutputDataRate(%v): PM = %d, want %d", tt.in, pm, tt.pm)
		}
	}
}

func TestCacheAcrossDisable(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	if err := d.SetOutputDataRate(400); err != nil {
		t.Fatal(err)
	}
	if f.Regs[regCtrl1]>>5 != 0 {
		t.Fatal("disabled rate change woke the part")
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if err := d.Disable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := d.OutputDataRate(); odr != 0 {
		t.Fatalf("ODR after Disable = %v, want 0", odr)
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := d.OutputDataRate(); odr != 400 {
		t.Fatalf("ODR = %v, want 400", odr)
	}
}

func TestReservedFullScaleCode(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	f.Regs[regCtrl4] = f.Regs[regCtrl4]&^fsMask | 0x2<<4
	fs, err := d.FullScale()
	if fs != mems.Invalid || !errors.Is(err, mems.ErrUnsupported) {
		t.Fatalf("FullScale = %d, %v; want -1, ErrUnsupported", fs, err)
	}
	if _, err := d.Sensitivity(); !errors.Is(err, mems.ErrUnsupported) {
		t.Fatalf("Sensitivity err = %v", err)
	}
}

func TestReservedPowerMode(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	f.Regs[regCtrl1] = 0xE7
	odr, err := d.OutputDataRate()
	if odr != mems.Invalid || !errors.Is(err, mems.ErrUnsupported) {
		t.Fatalf("OutputDataRate = %v, %v; want -1, ErrUnsupported", odr, err)
	}
}

func TestFullScaleSelection(t *testing.T) {
	d, _ := newDev(t, bus.I2C)
	for _, tt := range []struct {
		in, want int32
		sens     float32
	}{{1, 6, 2.9}, {7, 12, 5.9}, {13, 24, 11.7}, {48, 24, 11.7}} {
		if err := d.SetFullScale(tt.in); err != nil {
			t.Fatal(err)
		}
		fs, _ := d.FullScale()
		s, _ := d.Sensitivity()
		if fs != tt.want || s != tt.sens {
			t.Errorf("SetFullScale(%d): %d g at %v, want %d at %v", tt.in, fs, s, tt.want, tt.sens)
		}
	}
}

func TestAxes(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	f.SetAxes(regOutXL, 0x1590, -0x1590, 0x7FF0)
	raw, err := d.AxesRaw()
	if err != nil {
		t.Fatal(err)
	}
	if raw != (mems.AxesRaw{X: 0x159, Y: -0x159, Z: 0x7FF}) {
		t.Fatalf("AxesRaw = %v", raw)
	}
	a, err := d.Axes()
	if err != nil {
		t.Fatal(err)
	}
	if a != mems.ScaleAxes(raw, 2.9) {
		t.Fatalf("Axes = %v", a)
	}
	if a.X != 1000 { // 345 * 2.9
		t.Fatalf("X = %d mg, want 1000", a.X)
	}
	f.Regs[regStatus] = zyxor
	if _, err := d.Axes(); !errors.Is(err, mems.ErrDataOverrun) {
		t.Fatalf("Axes err = %v, want ErrDataOverrun", err)
	}
}

func TestAddressFlagsAndThreeWire(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	if _, err := d.AxesRaw(); err != nil {
		t.Fatal(err)
	}
	if f.Log[0].Reg != 0xA8 {
		t.Fatalf("I2C burst register 0x%02X, want 0xA8", f.Log[0].Reg)
	}

	f = memstest.New(bus.SPI3, 0xC0)
	d = New()
	if err := d.RegisterBusIO(f.IO()); err != nil {
		t.Fatal(err)
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.RegisterBusIO(f.IO()); err != nil {
		t.Fatal(err)
	}
	sims := 0
	for _, w := range f.Writes(regCtrl4) {
		if w[0] == sim {
			sims++
		}
	}
	if sims != 1 {
		t.Fatalf("3-wire enable written %d times", sims)
	}
	f.Clear()
	if _, err := d.AxesRaw(); err != nil {
		t.Fatal(err)
	}
	if f.Log[0].Reg != 0x68 {
		t.Fatalf("SPI3 burst register 0x%02X, want 0x68", f.Log[0].Reg)
	}
}

func TestDeInit(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if err := d.DeInit(); err != nil {
		t.Fatal(err)
	}
	if f.Regs[regCtrl1]>>3 != odrOff {
		t.Fatal("DeInit left the part running")
	}
	if err := d.Enable(); !errors.Is(err, mems.ErrUninitialized) {
		t.Fatalf("Enable after DeInit err = %v", err)
	}
	if c := d.Capabilities(); !c.Acc || !c.LowPower || c.AccMaxFS != 24 {
		t.Fatalf("Capabilities = %+v", c)
	}
}
