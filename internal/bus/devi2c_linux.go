// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build linux

package bus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Raw /dev/i2c-N transport for boards where the periph host drivers are not
// available. Register reads use I2C_RDWR so the sub-address write and the
// data read share a repeated start.

const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type i2cRdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// DevI2C is an opened /dev/i2c-N character device.
//
// It is not safe for concurrent transfers; callers serialise per bus.
type DevI2C struct {
	f    *os.File
	path string
}

// OpenDevI2C opens path, e.g. /dev/i2c-1.
func OpenDevI2C(path string) (*DevI2C, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &DevI2C{f: f, path: path}, nil
}

func (d *DevI2C) String() string { return d.path }

func (d *DevI2C) Close() error {
	if d == nil || d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// Tx performs a combined write+read at 7-bit address addr.
func (d *DevI2C) Tx(addr uint16, w, r []byte) error {
	if d == nil || d.f == nil {
		return errors.New("i2c device is closed")
	}
	if addr == 0 || addr > 0x7F {
		return fmt.Errorf("invalid i2c addr 0x%X", addr)
	}

	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}

	data := i2cRdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	// The kernel only saw the buffers as uintptr.
	runtime.KeepAlive(msgs)
	runtime.KeepAlive(w)
	runtime.KeepAlive(r)
	if errno != 0 {
		return errno
	}
	return nil
}

// NewDevI2C binds a /dev/i2c-N device as a transport.
func NewDevI2C(d *DevI2C, addr uint16) IO {
	start := time.Now()
	return IO{
		Init: func() error {
			if d == nil || d.f == nil {
				return errors.New("i2c device is closed")
			}
			return nil
		},
		DeInit: func() error { return nil },
		ReadReg: func(a uint16, reg byte, buf []byte) error {
			return d.Tx(a, []byte{reg}, buf)
		},
		WriteReg: func(a uint16, reg byte, buf []byte) error {
			w := make([]byte, 1+len(buf))
			w[0] = reg
			copy(w[1:], buf)
			return d.Tx(a, w, nil)
		},
		GetTick: func() uint32 { return uint32(time.Since(start).Milliseconds()) },
		Delay:   func(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) },
		Type:    I2C,
		Address: addr,
	}
}
