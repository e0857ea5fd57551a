// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package a3g4250d

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
	f.Address = 0x68
	f.Regs[regWhoAmI] = WhoAmI
	f.Regs[regCtrl1] = 0x07
	f.Regs[regFIFOCtrl] = 0x40
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

func TestInit(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	if f.Regs[regCtrl1]&pd != 0 {
		t.Fatal("part not powered down")
	}
	if f.Regs[regFIFOCtrl]&fmMask != 0 {
		t.Fatal("FIFO not in bypass")
	}
	if odr, err := d.OutputDataRate(); err != nil || odr != 0 {
		t.Fatalf("ODR = %v, %v; want 0", odr, err)
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := d.OutputDataRate(); odr != 100 {
		t.Fatalf("ODR = %v, want 100", odr)
	}
}

func TestFixedFullScale(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	for _, fs := range []int32{0, 125, 245, 500, 2000, -1} {
		if err := d.SetFullScale(fs); err != nil {
			t.Fatalf("SetFullScale(%d) = %v", fs, err)
		}
		got, err := d.FullScale()
		if err != nil || got != FullScale {
			t.Fatalf("FullScale = %d, %v; want %d", got, err, FullScale)
		}
	}
	if len(f.Log) != 0 {
		t.Fatalf("fixed full scale touched the bus: %+v", f.Log)
	}
	if s, _ := d.Sensitivity(); s != 8.75 {
		t.Fatalf("sensitivity = %v", s)
	}
}

func TestRateSelectionAndCache(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	if err := d.SetOutputDataRate(150); err != nil {
		t.Fatal(err)
	}
	if f.Regs[regCtrl1]&pd != 0 {
		t.Fatal("rate change woke a disabled part")
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := d.OutputDataRate(); odr != 200 {
		t.Fatalf("ODR = %v, want 200", odr)
	}
	if err := d.SetOutputDataRate(5000); err != nil {
		t.Fatal(err)
	}
	if odr, _ := d.OutputDataRate(); odr != 800 {
		t.Fatalf("ODR = %v, want 800", odr)
	}
	if err := d.Disable(); err != nil {
		t.Fatal(err)
	}
	if f.Regs[regCtrl1]&drMask != drMask {
		t.Fatal("power-down lost the DR field")
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := d.OutputDataRate(); odr != 800 {
		t.Fatalf("ODR after power cycle = %v, want 800", odr)
	}
}

func TestEnableIdempotent(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	_ = d.Enable()
	_ = d.Enable()
	if n := len(f.Writes(regCtrl1)); n != 1 {
		t.Fatalf("CTRL_REG1 written %d times, want 1", n)
	}
}

func TestOverrunDiscardsSample(t *testing.T) {
	d, f := newDev(t, bus.I2C)
	f.SetAxes(regOutXL, 100, -100, 8)
	f.Regs[regStatus] = zyxor | zyxda
	if _, err := d.AxesRaw(); !errors.Is(err, mems.ErrDataOverrun) {
		t.Fatalf("AxesRaw err = %v, want ErrDataOverrun", err)
	}
	if _, err := d.Axes(); !errors.Is(err, mems.ErrDataOverrun) {
		t.Fatalf("Axes err = %v, want ErrDataOverrun", err)
	}
	f.Regs[regStatus] = zyxda
	a, err := d.Axes()
	if err != nil {
		t.Fatal(err)
	}
	if want := (mems.Axes{X: 875, Y: -875, Z: 70}); a != want {
		t.Fatalf("Axes = %v, want %v", a, want)
	}
}

func TestAddressFlags(t *testing.T) {
	for _, tt := range []struct {
		bt   bus.Type
		want byte
	}{
		{bus.I2C, regOutXL | 0x80},
		{bus.SPI4, regOutXL},
		{bus.SPI3, regOutXL | 0x40},
	} {
		d, f := newDev(t, tt.bt)
		if _, err := d.AxesRaw(); err != nil {
			t.Fatal(err)
		}
		if f.Log[0].Reg != tt.want {
			t.Errorf("%v: burst register 0x%02X, want 0x%02X", tt.bt, f.Log[0].Reg, tt.want)
		}
	}
}

func TestThreeWireOnce(t *testing.T) {
	f := memstest.New(bus.SPI3, 0xC0)
	d := New()
	if err := d.RegisterBusIO(f.IO()); err != nil {
		t.Fatal(err)
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.RegisterBusIO(f.IO()); err != nil {
		t.Fatal(err)
	}
	if w := f.Writes(regCtrl4); len(w) != 1 || w[0][0] != sim {
		t.Fatalf("CTRL_REG4 writes = %v, want one 3-wire enable", w)
	}
}

func TestCapabilities(t *testing.T) {
	c := New().Capabilities()
	if !c.Gyro || c.Acc || c.Magneto || c.GyroMaxFS != 245 || c.GyroMaxOdr != 800 {
		t.Fatalf("Capabilities = %+v", c)
	}
}
