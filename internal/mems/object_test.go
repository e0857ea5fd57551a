// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems_test

import (
	"errors"
	"testing"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/mems"
	"github.com/relabs-tech/mems_bsp/internal/mems/memstest"
)

var policy = bus.AddressPolicy{I2C: 0x80, SPI3: 0x40}

func TestRegisterWithoutInitFails(t *testing.T) {
	f := memstest.New(bus.I2C, 0xC0)
	io := f.IO()
	io.Init = nil

	var o mems.Object
	if err := o.Register(io, policy, nil); !errors.Is(err, mems.ErrNoTransport) {
		t.Fatalf("Register err = %v, want ErrNoTransport", err)
	}
	if len(f.Log) != 0 {
		t.Fatalf("transport touched: %v", f.Log)
	}
	if _, err := o.Get(0x0F); !errors.Is(err, mems.ErrNoTransport) {
		t.Fatalf("Get on unbound object err = %v", err)
	}
}

func TestRegisterInitError(t *testing.T) {
	f := memstest.New(bus.I2C, 0xC0)
	f.InitErr = memstest.ErrInjected

	var o mems.Object
	err := o.Register(f.IO(), policy, nil)
	if !errors.Is(err, mems.ErrBus) || !errors.Is(err, memstest.ErrInjected) {
		t.Fatalf("Register err = %v", err)
	}
}

func TestRegisterThreeWireOnce(t *testing.T) {
	f := memstest.New(bus.SPI3, 0xC0)
	var o mems.Object
	calls := 0
	threeWire := func() error {
		calls++
		return o.Set(0x23, 0x01)
	}

	if err := o.Register(f.IO(), policy, threeWire); err != nil {
		t.Fatal(err)
	}
	o.SetInitialized(true)
	if err := o.Register(f.IO(), policy, threeWire); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("3-wire write issued %d times, want 1", calls)
	}
	if f.Inits != 2 {
		t.Fatalf("transport Init called %d times, want 2", f.Inits)
	}
	if w := f.Writes(0x23); len(w) != 1 || f.Log[0].Reg != 0x63 {
		t.Fatalf("3-wire writes = %v, log = %v", w, f.Log)
	}
}

func TestRegisterThreeWireSkippedOnI2C(t *testing.T) {
	f := memstest.New(bus.I2C, 0xC0)
	var o mems.Object
	called := false
	if err := o.Register(f.IO(), policy, func() error { called = true; return nil }); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("3-wire hook ran on I2C")
	}
}

func TestObjectWrapsBusErrors(t *testing.T) {
	f := memstest.New(bus.I2C, 0xC0)
	var o mems.Object
	if err := o.Register(f.IO(), policy, nil); err != nil {
		t.Fatal(err)
	}
	f.FailRead(0x27, nil)
	_, err := o.Get(0x27)
	if !errors.Is(err, mems.ErrBus) || !errors.Is(err, memstest.ErrInjected) {
		t.Fatalf("Get err = %v", err)
	}
	if mems.StatusOf(err) != mems.Error {
		t.Fatal("status not Error")
	}
}

func TestObjectModifyAndField(t *testing.T) {
	f := memstest.New(bus.I2C, 0xC0)
	var o mems.Object
	if err := o.Register(f.IO(), policy, nil); err != nil {
		t.Fatal(err)
	}
	f.Regs[0x23] = 0x88
	if err := o.Modify(0x23, 0x30, 0x3); err != nil {
		t.Fatal(err)
	}
	if f.Regs[0x23] != 0xB8 {
		t.Fatalf("reg = 0x%02X, want 0xB8", f.Regs[0x23])
	}
	v, err := o.Field(0x23, 0x30)
	if err != nil || v != 0x3 {
		t.Fatalf("Field = %d, %v", v, err)
	}
	// every access went out with the I2C flag
	for _, tr := range f.Log {
		if tr.Reg != 0xA3 {
			t.Fatalf("wire register 0x%02X, want 0xA3", tr.Reg)
		}
	}
}
