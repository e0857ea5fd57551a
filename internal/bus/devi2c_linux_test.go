// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build linux

package bus

import (
	"os"
	"strings"
	"testing"
)

func TestDevI2CTx_InvalidAddr(t *testing.T) {
	f, err := os.OpenFile("/dev/null", os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile /dev/null: %v", err)
	}
	defer f.Close()

	d := &DevI2C{f: f, path: "/dev/null"}
	for _, addr := range []uint16{0, 0x80} {
		err := d.Tx(addr, []byte{0x00}, nil)
		if err == nil || !strings.Contains(err.Error(), "invalid i2c addr") {
			t.Fatalf("addr 0x%X: err=%v want invalid i2c addr", addr, err)
		}
	}
}

func TestDevI2CTx_EmptyIsNoop(t *testing.T) {
	f, err := os.OpenFile("/dev/null", os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile /dev/null: %v", err)
	}
	defer f.Close()

	d := &DevI2C{f: f, path: "/dev/null"}
	if err := d.Tx(0x19, nil, nil); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestNewDevI2C_InitFailsWhenClosed(t *testing.T) {
	io := NewDevI2C(&DevI2C{}, 0x19)
	if err := io.Init(); err == nil {
		t.Fatalf("expected error for closed device")
	}
}

func TestDevI2CTx_IoctlErrorReturned(t *testing.T) {
	d, err := OpenDevI2C("/dev/null")
	if err != nil {
		t.Fatalf("OpenDevI2C /dev/null: %v", err)
	}
	defer d.Close()

	// /dev/null has no I2C_RDWR; the combined transfer reaches the ioctl and
	// its errno comes back with the buffers untouched.
	r := []byte{0xAA, 0xBB}
	if err := d.Tx(0x19, []byte{0xA8}, r); err == nil {
		t.Fatalf("expected ioctl error on /dev/null")
	}
	if r[0] != 0xAA || r[1] != 0xBB {
		t.Fatalf("read buffer modified: %X", r)
	}
}
