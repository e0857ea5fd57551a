// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bus

import (
	"tinygo.org/x/drivers"
)

// NewTinyGoI2C binds a TinyGo machine I²C bus (or anything implementing
// drivers.I2C) so the same part drivers run on microcontrollers.
// Tick and Delay are left to the caller since TinyGo targets differ.
func NewTinyGoI2C(b drivers.I2C, addr uint16) IO {
	return IO{
		Init:   func() error { return nil },
		DeInit: func() error { return nil },
		ReadReg: func(a uint16, reg byte, buf []byte) error {
			return b.Tx(a, []byte{reg}, buf)
		},
		WriteReg: func(a uint16, reg byte, buf []byte) error {
			w := make([]byte, 1+len(buf))
			w[0] = reg
			copy(w[1:], buf)
			return b.Tx(a, w, nil)
		},
		Type:    I2C,
		Address: addr,
	}
}
