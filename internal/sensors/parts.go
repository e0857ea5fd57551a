// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"sort"

	"github.com/relabs-tech/mems_bsp/internal/mems"
	"github.com/relabs-tech/mems_bsp/internal/mems/a3g4250d"
	"github.com/relabs-tech/mems_bsp/internal/mems/ais3624dq"
	"github.com/relabs-tech/mems_bsp/internal/mems/asm330lhh"
	"github.com/relabs-tech/mems_bsp/internal/mems/lis2dh12"
	"github.com/relabs-tech/mems_bsp/internal/mems/lis3mdl"
)

// Part is a supported MEMS part.
type Part struct {
	Name   string
	WhoAmI byte
	New    func() mems.Device
}

var parts = map[string]Part{
	"a3g4250d":  {"a3g4250d", a3g4250d.WhoAmI, func() mems.Device { return a3g4250d.New() }},
	"ais3624dq": {"ais3624dq", ais3624dq.WhoAmI, func() mems.Device { return ais3624dq.New() }},
	"asm330lhh": {"asm330lhh", asm330lhh.WhoAmI, func() mems.Device { return asm330lhh.New() }},
	"lis2dh12":  {"lis2dh12", lis2dh12.WhoAmI, func() mems.Device { return lis2dh12.New() }},
	"lis3mdl":   {"lis3mdl", lis3mdl.WhoAmI, func() mems.Device { return lis3mdl.New() }},
}

// LookupPart returns the part registered under name.
func LookupPart(name string) (Part, error) {
	p, ok := parts[name]
	if !ok {
		return Part{}, fmt.Errorf("unknown part %q", name)
	}
	return p, nil
}

// PartNames lists the supported parts in alphabetical order.
func PartNames() []string {
	names := make([]string, 0, len(parts))
	for n := range parts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Identify matches a WHO_AM_I value against the supported parts.
func Identify(id byte) (Part, bool) {
	for _, n := range PartNames() {
		if parts[n].WhoAmI == id {
			return parts[n], true
		}
	}
	return Part{}, false
}
