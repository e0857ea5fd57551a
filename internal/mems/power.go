// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mems

// Power is the enable/disable state of one channel together with its cached
// ODR code.
//
// The cache holds the rate to apply on the next Enable. While the channel is
// disabled the hardware is kept in power-down and rate changes only touch the
// cache; Disable reads the running rate back from hardware before powering
// down, so a power cycle resumes at the rate the part was actually using.
type Power struct {
	// Object gates Enable on the initialised flag. May be nil in tests.
	Object *Object
	// Off is the code that puts the channel in power-down.
	Off byte
	// Write applies an ODR code (Off included) to hardware.
	Write func(code byte) error
	// Read returns the ODR code currently set in hardware.
	Read func() (byte, error)

	enabled bool
	cached  byte
}

func (p *Power) Enabled() bool { return p.enabled }

// Cached returns the ODR code applied on the next Enable.
func (p *Power) Cached() byte { return p.cached }

// Cache stores code without touching hardware.
func (p *Power) Cache(code byte) { p.cached = code }

// Reset puts the cache back to power-down.
func (p *Power) Reset() { p.cached = p.Off }

// Enable writes the cached rate to hardware. The channel is marked enabled
// only when the write succeeds; enabling an enabled channel does nothing.
func (p *Power) Enable() error {
	if p.enabled {
		return nil
	}
	if p.Object != nil && !p.Object.Initialized() {
		return ErrUninitialized
	}
	if err := p.Write(p.cached); err != nil {
		return err
	}
	p.enabled = true
	return nil
}

// Disable caches the hardware rate and writes power-down.
func (p *Power) Disable() error {
	if !p.enabled {
		return nil
	}
	code, err := p.Read()
	if err != nil {
		return err
	}
	p.cached = code
	if err := p.Write(p.Off); err != nil {
		return err
	}
	p.enabled = false
	return nil
}

// SetRate applies code immediately when enabled and caches it either way.
func (p *Power) SetRate(code byte) error {
	if p.enabled {
		if err := p.Write(code); err != nil {
			return err
		}
	}
	p.cached = code
	return nil
}
