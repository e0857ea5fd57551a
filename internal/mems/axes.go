// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems

import (
	"encoding/binary"
	"fmt"
)

// AxesRaw holds one sample in ADC counts.
type AxesRaw struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
	Z int16 `json:"z"`
}

// Axes holds one sample in milli-units: mg, mdps or mgauss depending on the
// channel.
type Axes struct {
	X, Y, Z int32
}

func (a AxesRaw) String() string { return fmt.Sprintf("X:%d Y:%d Z:%d", a.X, a.Y, a.Z) }
func (a Axes) String() string    { return fmt.Sprintf("X:%d Y:%d Z:%d", a.X, a.Y, a.Z) }

// DecodeAxes reads a little-endian X/Y/Z triple and arithmetic-shifts each
// value right by shift, dropping the bits below the active resolution.
func DecodeAxes(b []byte, shift uint) AxesRaw {
	return AxesRaw{
		X: int16(binary.LittleEndian.Uint16(b[0:2])) >> shift,
		Y: int16(binary.LittleEndian.Uint16(b[2:4])) >> shift,
		Z: int16(binary.LittleEndian.Uint16(b[4:6])) >> shift,
	}
}

// Scale converts a raw count into milli-units, truncating toward zero.
func Scale(raw int16, sensitivity float32) int32 {
	return int32(float32(raw) * sensitivity)
}

// ScaleAxes applies Scale to every axis.
func ScaleAxes(raw AxesRaw, sensitivity float32) Axes {
	return Axes{
		X: Scale(raw.X, sensitivity),
		Y: Scale(raw.Y, sensitivity),
		Z: Scale(raw.Z, sensitivity),
	}
}
