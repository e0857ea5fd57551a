// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build !linux

package bus

import "fmt"

type DevI2C struct{}

func OpenDevI2C(path string) (*DevI2C, error) {
	return nil, fmt.Errorf("i2c: unsupported OS (need linux)")
}

func (d *DevI2C) String() string                    { return "" }
func (d *DevI2C) Close() error                      { return nil }
func (d *DevI2C) Tx(addr uint16, w, r []byte) error { return fmt.Errorf("i2c: unsupported OS") }

func NewDevI2C(d *DevI2C, addr uint16) IO {
	unsupported := func(uint16, byte, []byte) error { return fmt.Errorf("i2c: unsupported OS") }
	return IO{
		Init:     func() error { return fmt.Errorf("i2c: unsupported OS") },
		ReadReg:  unsupported,
		WriteReg: unsupported,
		Type:     I2C,
		Address:  addr,
	}
}
