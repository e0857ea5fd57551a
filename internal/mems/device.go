// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems

import (
	"fmt"

	"github.com/relabs-tech/mems_bsp/internal/bus"
)

// Kind names the physical quantity a channel measures.
type Kind uint8

const (
	Acc Kind = iota
	Gyro
	Magneto
)

func (k Kind) String() string {
	switch k {
	case Acc:
		return "acc"
	case Gyro:
		return "gyro"
	case Magneto:
		return "mag"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Unit returns the milli-unit Axes values are expressed in.
func (k Kind) Unit() string {
	switch k {
	case Acc:
		return "mg"
	case Gyro:
		return "mdps"
	case Magneto:
		return "mgauss"
	default:
		return ""
	}
}

// Sensor is the part-level API shared by every driver.
type Sensor interface {
	RegisterBusIO(io bus.IO) error
	Init() error
	DeInit() error
	ReadID() (byte, error)
	Capabilities() Capabilities
	// ReadReg and WriteReg give direct access to a single register, for
	// configuration the driver does not otherwise expose.
	ReadReg(reg byte) (byte, error)
	WriteReg(reg, v byte) error
}

// Channel is one measurement channel of a part.
type Channel interface {
	Kind() Kind
	Enable() error
	Disable() error
	Enabled() bool
	// Sensitivity is in milli-units per LSB.
	Sensitivity() (float32, error)
	OutputDataRate() (float32, error)
	SetOutputDataRate(hz float32) error
	FullScale() (int32, error)
	SetFullScale(fs int32) error
	AxesRaw() (AxesRaw, error)
	Axes() (Axes, error)
}

// Device is a part together with its channels.
type Device interface {
	Sensor
	Channels() []Channel
}

// ChannelOf returns the first channel of d measuring k, or nil.
func ChannelOf(d Device, k Kind) Channel {
	for _, c := range d.Channels() {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// Probe checks the part identity register against want.
func Probe(s Sensor, want byte) error {
	id, err := s.ReadID()
	if err != nil {
		return err
	}
	if id != want {
		return fmt.Errorf("got 0x%02X, want 0x%02X: %w", id, want, ErrWrongID)
	}
	return nil
}

// ReadAxes reads a raw sample and scales it by the current sensitivity.
func ReadAxes(c interface {
	AxesRaw() (AxesRaw, error)
	Sensitivity() (float32, error)
}) (Axes, error) {
	raw, err := c.AxesRaw()
	if err != nil {
		return Axes{}, err
	}
	s, err := c.Sensitivity()
	if err != nil {
		return Axes{}, err
	}
	return ScaleAxes(raw, s), nil
}
