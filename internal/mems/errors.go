// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems

import "errors"

var (
	// ErrBus wraps any failure reported by the transport.
	ErrBus = errors.New("mems: bus transfer failed")
	// ErrNoTransport means RegisterBusIO received IO without an Init function.
	ErrNoTransport = errors.New("mems: transport not bound")
	// ErrUnsupported means the hardware reported an enum the driver does not
	// know, or the caller asked for something the part cannot do.
	ErrUnsupported = errors.New("mems: unsupported value")
	// ErrUninitialized means a channel was enabled before Init.
	ErrUninitialized = errors.New("mems: device not initialized")
	// ErrDataOverrun means a new sample overwrote an unread one; the sample
	// just read is discarded.
	ErrDataOverrun = errors.New("mems: data overrun")
	// ErrWrongID means WHO_AM_I did not match the expected part.
	ErrWrongID = errors.New("mems: unexpected device id")
)

// Status is the two-valued result domain exposed at the register layer.
type Status int

const (
	OK    Status = 0
	Error Status = -1
)

// StatusOf collapses err into OK or Error.
func StatusOf(err error) Status {
	if err != nil {
		return Error
	}
	return OK
}

func (s Status) String() string {
	if s == OK {
		return "OK"
	}
	return "ERROR"
}
