// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems

import "fmt"

// Invalid is written to ODR and full-scale outputs when the hardware reports
// an enum outside the known set.
const Invalid = -1

// Step pairs a physical value (Hz, g, dps, gauss) with its register code.
type Step struct {
	Value float32
	Code  uint8
}

// Table is a list of supported steps in ascending Value order.
type Table []Step

// Ceil returns the smallest step whose value is >= v, or the highest step
// when v exceeds them all. Requests are never rounded down.
func (t Table) Ceil(v float32) Step {
	for _, s := range t {
		if v <= s.Value {
			return s
		}
	}
	return t[len(t)-1]
}

// Value decodes a register code.
func (t Table) Value(code uint8) (float32, error) {
	for _, s := range t {
		if s.Code == code {
			return s.Value, nil
		}
	}
	return Invalid, fmt.Errorf("code 0x%02X: %w", code, ErrUnsupported)
}

// Max returns the highest supported value.
func (t Table) Max() float32 {
	return t[len(t)-1].Value
}
