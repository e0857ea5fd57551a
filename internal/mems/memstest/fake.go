// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package memstest provides a register-file transport for driver tests.
package memstest

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/mems_bsp/internal/bus"
)

// ErrInjected is returned by transfers that were set up to fail.
var ErrInjected = errors.New("memstest: injected failure")

// Transfer is one recorded bus operation. Reg is the register byte as it
// went on the wire, flag bits included.
type Transfer struct {
	Write bool
	Reg   byte
	Data  []byte
}

// Fake emulates a part's register file. Register bytes arriving from the
// driver have Mask cleared before indexing Regs, and multi-byte transfers
// auto-increment.
type Fake struct {
	Regs    [256]byte
	Mask    byte
	Type    bus.Type
	Address uint16

	Log    []Transfer
	Inits  int
	Delays []uint32
	Tick   uint32

	InitErr      error
	failRead     map[byte]error
	failReadOnce map[byte]error
	failWrite    map[byte]error

	// OnWrite, when set, runs after a write lands in Regs. It can emulate
	// side effects such as self-clearing bits.
	OnWrite func(f *Fake, reg byte)
}

// New returns a fake for bus type t whose address flags fit in mask.
func New(t bus.Type, mask byte) *Fake {
	return &Fake{Type: t, Mask: mask, Address: 0x19}
}

// IO returns transport bindings over the fake.
func (f *Fake) IO() bus.IO {
	return bus.IO{
		Init: func() error {
			f.Inits++
			return f.InitErr
		},
		DeInit:   func() error { return nil },
		ReadReg:  f.read,
		WriteReg: f.write,
		GetTick:  func() uint32 { return f.Tick },
		Delay:    func(ms uint32) { f.Delays = append(f.Delays, ms) },
		Type:     f.Type,
		Address:  f.Address,
	}
}

// FailRead makes reads starting at logical register reg fail with err, or
// with ErrInjected when err is nil.
func (f *Fake) FailRead(reg byte, err error) {
	if f.failRead == nil {
		f.failRead = map[byte]error{}
	}
	if err == nil {
		err = ErrInjected
	}
	f.failRead[reg] = err
}

// FailReadOnce is FailRead for the next read of reg only.
func (f *Fake) FailReadOnce(reg byte, err error) {
	if f.failReadOnce == nil {
		f.failReadOnce = map[byte]error{}
	}
	if err == nil {
		err = ErrInjected
	}
	f.failReadOnce[reg] = err
}

// FailWrite is FailRead for writes.
func (f *Fake) FailWrite(reg byte, err error) {
	if f.failWrite == nil {
		f.failWrite = map[byte]error{}
	}
	if err == nil {
		err = ErrInjected
	}
	f.failWrite[reg] = err
}

// Clear forgets injected failures and the transfer log.
func (f *Fake) Clear() {
	f.failRead = nil
	f.failReadOnce = nil
	f.failWrite = nil
	f.Log = nil
}

// Writes returns the data written to logical register reg, in order.
func (f *Fake) Writes(reg byte) [][]byte {
	var out [][]byte
	for _, t := range f.Log {
		if t.Write && t.Reg&^f.Mask == reg {
			out = append(out, t.Data)
		}
	}
	return out
}

// WriteCount counts all writes in the log.
func (f *Fake) WriteCount() int {
	n := 0
	for _, t := range f.Log {
		if t.Write {
			n++
		}
	}
	return n
}

// SetAxes stores a little-endian X/Y/Z triple at reg.
func (f *Fake) SetAxes(reg byte, x, y, z int16) {
	for i, v := range []int16{x, y, z} {
		f.Regs[int(reg)+2*i] = byte(uint16(v))
		f.Regs[int(reg)+2*i+1] = byte(uint16(v) >> 8)
	}
}

func (f *Fake) read(addr uint16, reg byte, buf []byte) error {
	if addr != f.Address {
		return fmt.Errorf("memstest: read from 0x%02X, device at 0x%02X", addr, f.Address)
	}
	f.Log = append(f.Log, Transfer{Reg: reg, Data: nil})
	r := reg &^ f.Mask
	if err := f.failReadOnce[r]; err != nil {
		delete(f.failReadOnce, r)
		return err
	}
	if err := f.failRead[r]; err != nil {
		return err
	}
	for i := range buf {
		buf[i] = f.Regs[(int(r)+i)&0xFF]
	}
	return nil
}

func (f *Fake) write(addr uint16, reg byte, buf []byte) error {
	if addr != f.Address {
		return fmt.Errorf("memstest: write to 0x%02X, device at 0x%02X", addr, f.Address)
	}
	f.Log = append(f.Log, Transfer{Write: true, Reg: reg, Data: append([]byte(nil), buf...)})
	r := reg &^ f.Mask
	if err := f.failWrite[r]; err != nil {
		return err
	}
	for i, b := range buf {
		f.Regs[(int(r)+i)&0xFF] = b
	}
	if f.OnWrite != nil {
		f.OnWrite(f, r)
	}
	return nil
}
