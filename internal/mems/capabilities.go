// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems

// Capabilities describes what a part can measure. Values are fixed per part.
type Capabilities struct {
	Acc      bool
	Gyro     bool
	Magneto  bool
	LowPower bool

	GyroMaxFS int32 // dps
	AccMaxFS  int32 // g
	MagMaxFS  int32 // gauss

	GyroMaxOdr float32 // Hz
	AccMaxOdr  float32
	MagMaxOdr  float32
}
