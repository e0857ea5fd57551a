// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems

import "fmt"

// RegisterInfo describes one register for debugging tools.
type RegisterInfo struct {
	Address     byte       `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// BitField describes a field inside a register.
type BitField struct {
	Bits        string `json:"bits"` // e.g. "7:4" or "3"
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// Hex returns the address formatted as 0xNN.
func (r RegisterInfo) Hex() string { return fmt.Sprintf("0x%02X", r.Address) }

// Writable reports whether the register accepts writes.
func (r RegisterInfo) Writable() bool { return r.Access == "RW" || r.Access == "W" }

// Describer is implemented by parts that publish their register map.
type Describer interface {
	Registers() []RegisterInfo
}

// LookupRegister finds addr in regs.
func LookupRegister(regs []RegisterInfo, addr byte) (RegisterInfo, bool) {
	for _, r := range regs {
		if r.Address == addr {
			return r, true
		}
	}
	return RegisterInfo{}, false
}
