package imu

import "github.com/relabs-tech/mems_bsp/internal/mems"

// Sample is one reading of one channel, as published on MQTT and the serial
// stream.
type Sample struct {
	Source  string `json:"source"`  // configured sensor name
	Part    string `json:"part"`    // e.g. "lis2dh12"
	Channel string `json:"channel"` // "acc", "gyro" or "mag"
	Unit    string `json:"unit"`    // "mg", "mdps" or "mgauss"
	Tick    uint32 `json:"tick_ms"`

	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`

	Raw *mems.AxesRaw `json:"raw,omitempty"`
}

// NewSample builds a sample from a scaled reading.
func NewSample(source, part string, kind mems.Kind, tick uint32, a mems.Axes) Sample {
	return Sample{
		Source:  source,
		Part:    part,
		Channel: kind.String(),
		Unit:    kind.Unit(),
		Tick:    tick,
		X:       a.X,
		Y:       a.Y,
		Z:       a.Z,
	}
}

// Axes returns the scaled reading.
func (s Sample) Axes() mems.Axes { return mems.Axes{X: s.X, Y: s.Y, Z: s.Z} }
